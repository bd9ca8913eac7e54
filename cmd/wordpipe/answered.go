package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

func newAnsweredCmd(c *cli) *cobra.Command {
	var date, word string
	cmd := &cobra.Command{
		Use:   "answered",
		Short: "Record a correct answer to an assigned quiz",
		Long:  "Credit the distractors of the quiz assigned to --word on --date with a correct answer.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := domain.ParseDate(date)
			if err != nil {
				return usagef("--date: want YYYY-MM-DD, got %q", date)
			}
			text := domain.NormalizeText(word)
			if text == "" {
				return usagef("--word is required")
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.Assignments.ListByDate(cmd.Context(), day)
			if err != nil {
				return err
			}
			for _, row := range rows {
				if domain.NormalizeText(row.Word) != text {
					continue
				}
				n, err := a.Distractors.RecordCorrectAnswer(cmd.Context(), row.Word, row.Quiz.Distractors())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"date":     day.Format(domain.DateLayout),
					"word":     row.Word,
					"credited": n,
				})
			}
			return fmt.Errorf("%q on %s: %w", word, day.Format(domain.DateLayout), domain.ErrNotFound)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "assignment date, YYYY-MM-DD")
	cmd.Flags().StringVar(&word, "word", "", "assigned word")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("word")
	return cmd
}
