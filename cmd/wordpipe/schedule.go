package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newScheduleCmd(c *cli) *cobra.Command {
	var now bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily assignment scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if now {
				res, err := a.Scheduler.RunOnce(ctx)
				if err != nil {
					return err
				}
				a.Log.InfoContext(ctx, "initial assignment done",
					slog.Int("assigned", res.AssignedCount),
					slog.Int("existing_days", res.ExistingDays),
				)
			}

			if err := a.Scheduler.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			a.Log.Info("shutting down scheduler")
			return nil
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "assign the upcoming days once before waiting for the schedule")
	return cmd
}
