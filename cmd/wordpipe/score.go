package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/service/batch"
)

type scoreSummary struct {
	StartID          int64        `json:"start_id"`
	EndID            int64        `json:"end_id"`
	DryRun           bool         `json:"dry_run"`
	Requested        int64        `json:"requested"`
	AlreadyCovered   int64        `json:"already_covered"`
	Batches          int          `json:"batches"`
	Scored           int          `json:"scored"`
	Skipped          int          `json:"skipped"`
	Errors           int          `json:"errors"`
	BatchErrors      int          `json:"batch_errors"`
	WithFrequency    int          `json:"with_frequency"`
	WithoutFrequency int          `json:"without_frequency"`
	ExternalErrors   int          `json:"external_errors"`
	Duration         string       `json:"duration"`
	Items            []batch.Item `json:"items,omitempty"`
}

func newScoreCmd(c *cli) *cobra.Command {
	var (
		req   batch.Request
		items bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score word difficulty over an ID range",
		Long: "Score every word with an ID in [--start, --end]. Without --apply the run is a dry run.\n" +
			"IDs already covered by the saved processing state are skipped unless --force is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.Batch.ProcessRange(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := scoreSummary{
				StartID:          req.StartID,
				EndID:            req.EndID,
				DryRun:           sum.DryRun,
				Requested:        sum.Requested,
				AlreadyCovered:   sum.CoveredSkipped,
				Batches:          sum.Batches,
				Scored:           sum.Processed,
				Skipped:          sum.Skipped,
				Errors:           sum.Errors,
				BatchErrors:      sum.BatchErrors,
				WithFrequency:    sum.WithFrequency,
				WithoutFrequency: sum.WithoutFrequency,
				ExternalErrors:   sum.ExternalErrors,
				Duration:         sum.Duration.Round(time.Millisecond).String(),
			}
			if items {
				out.Items = sum.Items
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&req.StartID, "start", 1, "first word ID")
	f.Int64Var(&req.EndID, "end", 0, "last word ID (inclusive)")
	f.IntVar(&req.BatchSize, "batch-size", 0, "IDs per batch (0 uses the configured size)")
	f.BoolVar(&req.Update, "apply", false, "write scores to the store")
	f.BoolVar(&req.Force, "force", false, "rescore IDs already covered by the processing state")
	f.BoolVar(&items, "items", false, "include per-word results")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
