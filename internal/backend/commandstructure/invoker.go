package commandstructure

import (
	"fmt"
	"log/slog"
)

// CommandInvoker runs commands in order, feeding each the previous output.
type CommandInvoker struct {
	commands []Command
}

func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{commands: commands}
}

// BuildInvoker creates every configured command from registry up front so that
// configuration errors surface at startup instead of on the first request.
func BuildInvoker(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, 0, len(configs))
	for i, cfg := range configs {
		command, err := registry.Create(cfg.Name, cfg.Params)
		if err != nil {
			return nil, fmt.Errorf("pipeline step %d: %w", i, err)
		}
		commands = append(commands, command)
	}
	return NewCommandInvoker(commands), nil
}

// Len reports the number of commands.
func (i *CommandInvoker) Len() int {
	return len(i.commands)
}

// With returns a new invoker running the receiver's commands followed by extra.
func (i *CommandInvoker) With(extra ...Command) *CommandInvoker {
	commands := make([]Command, 0, len(i.commands)+len(extra))
	commands = append(commands, i.commands...)
	commands = append(commands, extra...)
	return NewCommandInvoker(commands)
}

func (i *CommandInvoker) Execute(imageData []byte) ([]byte, error) {
	current := imageData
	for _, command := range i.commands {
		slog.Debug("executing image command", "command", command.Name(), "input_size_bytes", len(current))
		out, err := command.Execute(current)
		if err != nil {
			return nil, fmt.Errorf("command %s failed: %w", command.Name(), err)
		}
		current = out
	}
	return current, nil
}
