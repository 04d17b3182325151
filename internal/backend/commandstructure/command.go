// Package commandstructure defines the building blocks of the compound image
// pipeline: commands that transform image bytes, a registry that builds them
// from configuration, and an invoker that runs them in order.
package commandstructure

// Command transforms encoded image bytes.
type Command interface {
	Name() string
	Execute(imageData []byte) ([]byte, error)
}

// CommandFactory creates a command from configuration parameters.
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig is one pipeline step as written in the YAML configuration.
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}
