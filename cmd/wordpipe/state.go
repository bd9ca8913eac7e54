package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

type stateView struct {
	Name             string           `json:"name"`
	Ranges           []domain.IDRange `json:"ranges"`
	Covered          int64            `json:"covered"`
	LastProcessedID  int64            `json:"last_processed_id"`
	TotalProcessed   int              `json:"total_processed"`
	WithFrequency    int              `json:"with_frequency"`
	WithoutFrequency int              `json:"without_frequency"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

func newStateView(name string, s domain.ProcessingState) stateView {
	v := stateView{
		Name:             name,
		Ranges:           s.Ranges,
		LastProcessedID:  s.LastProcessedID,
		TotalProcessed:   s.TotalProcessed,
		WithFrequency:    s.WithFrequency,
		WithoutFrequency: s.WithoutFrequency,
	}
	if v.Ranges == nil {
		v.Ranges = []domain.IDRange{}
	}
	for _, r := range s.Ranges {
		v.Covered += r.Len()
	}
	if !s.UpdatedAt.IsZero() {
		v.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func newStateCmd(c *cli) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the scoring progress",
	}
	cmd.PersistentFlags().StringVar(&name, "name", "", "state name (default from config)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the processed ID ranges and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key := name
			if key == "" {
				key = a.Batch.StateName()
			}
			st, err := a.State.Load(cmd.Context(), key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newStateView(key, st))
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget every processed range so the next run starts over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key := name
			if key == "" {
				key = a.Batch.StateName()
			}
			if err := a.State.Reset(cmd.Context(), key); err != nil {
				return err
			}
			a.Log.InfoContext(cmd.Context(), "processing state reset", slog.String("name", key))
			return printJSON(cmd.OutOrStdout(), map[string]any{"name": key, "reset": true})
		},
	}

	cmd.AddCommand(show, reset)
	return cmd
}
