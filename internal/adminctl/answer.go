package adminctl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/backend/database"

	"github.com/spf13/cobra"
)

// NewAnswerCommand creates the answer command. Answering an answered
// question replaces the previous answer.
func NewAnswerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "answer <question-id> <answer>...",
		Short:        "Answer a question",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question id %q: %w", args[0], err)
			}

			board, closer, err := openBoard(rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			question, err := board.Answer(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeQuestions(cmd.OutOrStdout(), rootOpts.Format, []*database.Question{question})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "answered question %d: %s\n", question.ID, question.Question)
			return err
		},
	}

	return cmd
}
