package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

type inspection struct {
	ID           int64             `json:"id,omitempty"`
	Word         string            `json:"word"`
	Eligible     bool              `json:"eligible"`
	Reason       string            `json:"reason,omitempty"`
	Score        float64           `json:"score"`
	Tier         domain.Tier       `json:"tier"`
	Confidence   float64           `json:"confidence"`
	Components   domain.Components `json:"components"`
	Frequency    *float64          `json:"frequency,omitempty"`
	Syllables    int               `json:"syllables"`
	LexicalHit   bool              `json:"lexical_hit"`
	ExternalHit  bool              `json:"external_hit"`
	UsesFallback bool              `json:"uses_fallback"`
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect WORD|ID...",
		Short: "Show eligibility and difficulty for words without storing anything",
		Long: "Show eligibility and difficulty for words without storing anything.\n" +
			"Numeric arguments are looked up by word ID in the lexical store.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			targets, err := resolveTargets(cmd.Context(), a.Words.GetByID, args)
			if err != nil {
				return err
			}

			out := make([]inspection, 0, len(targets))
			for _, tg := range targets {
				text := tg.text
				el := a.Eligibility.Eligible(cmd.Context(), text)
				res := a.Scorer.Score(cmd.Context(), text)
				out = append(out, inspection{
					ID:           tg.id,
					Word:         text,
					Eligible:     el.Valid,
					Reason:       el.Reason.Message(),
					Score:        res.Difficulty.Score,
					Tier:         res.Difficulty.Tier,
					Confidence:   res.Difficulty.Confidence,
					Components:   res.Difficulty.Components,
					Frequency:    res.Frequency,
					Syllables:    res.Syllables,
					LexicalHit:   res.LexicalHit,
					ExternalHit:  res.ExternalHit,
					UsesFallback: res.UsesFallback,
				})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

type target struct {
	id   int64
	text string
}

// resolveTargets turns numeric arguments into stored words and normalises
// the rest.
func resolveTargets(ctx context.Context, byID func(context.Context, int64) (*domain.Word, error), args []string) ([]target, error) {
	out := make([]target, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			out = append(out, target{text: domain.NormalizeText(arg)})
			continue
		}
		w, err := byID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", id, err)
		}
		out = append(out, target{id: w.ID, text: w.Text})
	}
	return out, nil
}
