package adminctl

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jo-hoe/sialiccatalog/internal/backend/database"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var answeredOnly bool

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List submitted questions, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, closer, err := openBoard(rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			var questions []*database.Question
			if answeredOnly {
				questions, err = board.ListAnswered(cmd.Context())
			} else {
				questions, err = board.ListAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return writeQuestions(cmd.OutOrStdout(), rootOpts.Format, questions)
		},
	}

	cmd.Flags().BoolVar(&answeredOnly, "answered", false, "only show answered questions")

	return cmd
}

func writeQuestions(w io.Writer, format string, questions []*database.Question) error {
	if format == "json" {
		if questions == nil {
			questions = []*database.Question{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(questions)
	}

	if len(questions) == 0 {
		_, err := fmt.Fprintln(w, "no questions")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tSUBMITTED\tQUESTION\tANSWER")
	for _, q := range questions {
		answer := ""
		if q.Answer != nil {
			answer = *q.Answer
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			q.ID, q.Status, q.SubmittedAt.Format(time.DateTime), q.Question, answer)
	}
	return tw.Flush()
}
