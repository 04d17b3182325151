// Package adminctl is the command line for answering catalog questions
// without going through the HTTP admin endpoints.
package adminctl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/jo-hoe/sialiccatalog/internal/backend/database"
	"github.com/jo-hoe/sialiccatalog/internal/backend/notification"
	"github.com/jo-hoe/sialiccatalog/internal/core"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the question admin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qaadmin",
		Short: "Manage questions submitted to the compound catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "path to the service config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAnswerCommand(opts))

	return cmd
}

func defaultConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	return filepath.Join(".", "config.yaml")
}

// openBoard connects to the question store named in the service config. New
// questions are never submitted from the CLI, so notifications only log.
func openBoard(opts *RootOptions) (*core.QuestionBoard, io.Closer, error) {
	config, err := core.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open question store: %w", err)
	}
	return core.NewQuestionBoard(db, notification.LogNotifier{}, config.Notification.Timeout), db, nil
}
