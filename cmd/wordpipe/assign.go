package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/adapter/xlsx"
	"github.com/heartmarshall/wordpipe/internal/config"
	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/service/assignment"
)

type assignedWord struct {
	Tier    domain.Tier `json:"tier"`
	Slot    int         `json:"slot"`
	Word    string      `json:"word"`
	Options []string    `json:"options"`
	Correct int         `json:"correct_index"`
}

type assignedDay struct {
	Date     string         `json:"date"`
	Status   string         `json:"status"`
	Replaced int            `json:"replaced,omitempty"`
	Words    []assignedWord `json:"words"`
}

type assignSummary struct {
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Assigned     int           `json:"assigned"`
	ExistingDays int           `json:"existing_days"`
	Export       string        `json:"export,omitempty"`
	Days         []assignedDay `json:"days"`
}

func newAssignCmd(c *cli) *cobra.Command {
	var (
		start, end   string
		distribution string
		export       string
		req          assignment.Request
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign words to every date in a range",
		Long: "Pick words for each date in [--start, --end], balanced across difficulty tiers.\n" +
			"Dates that already have assignments are reported and kept unless --force is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			req.StartDate, req.EndDate, err = parseDateRange(start, end, time.Now())
			if err != nil {
				return err
			}
			if distribution != "" {
				req.Distribution, err = config.ParseDistribution(distribution)
				if err != nil {
					return usagef("--distribution: %v", err)
				}
			}
			if req.WordsPerDay < 0 {
				return usagef("--words-per-day must not be negative")
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Assigner.AssignForRange(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := summarizeAssignments(res)
			if export != "" {
				if err := xlsx.ExportAssignments(export, exportDays(res.Days)); err != nil {
					return err
				}
				out.Export = export
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&start, "start", "", "first date, YYYY-MM-DD (default today)")
	f.StringVar(&end, "end", "", "last date, YYYY-MM-DD (default --start)")
	f.IntVar(&req.WordsPerDay, "words-per-day", 0, "words per date (0 uses the configured value)")
	f.StringVar(&distribution, "distribution", "", "tier shares, e.g. easy:0.4,medium:0.4,hard:0.2")
	f.BoolVar(&req.Force, "force", false, "replace dates that already have assignments")
	f.StringVar(&export, "export", "", "also write the schedule to this .xlsx file")
	return cmd
}

// parseDateRange parses the --start/--end pair. An empty start is today and
// an empty end is the start date.
func parseDateRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	from := domain.Day(now.UTC())
	if start != "" {
		d, err := domain.ParseDate(start)
		if err != nil {
			return time.Time{}, time.Time{}, usagef("--start: want YYYY-MM-DD, got %q", start)
		}
		from = d
	}
	to := from
	if end != "" {
		d, err := domain.ParseDate(end)
		if err != nil {
			return time.Time{}, time.Time{}, usagef("--end: want YYYY-MM-DD, got %q", end)
		}
		to = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, usagef("--end %s is before --start %s", to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	return from, to, nil
}

func summarizeAssignments(res assignment.Result) assignSummary {
	out := assignSummary{
		StartDate:    res.StartDate.Format(domain.DateLayout),
		EndDate:      res.EndDate.Format(domain.DateLayout),
		Assigned:     res.AssignedCount,
		ExistingDays: res.ExistingDays,
		Days:         make([]assignedDay, 0, len(res.Days)),
	}
	for _, d := range res.Days {
		day := assignedDay{
			Date:     d.Date.Format(domain.DateLayout),
			Status:   "assigned",
			Replaced: d.Replaced,
			Words:    make([]assignedWord, 0, len(d.Assignments)),
		}
		if d.Existing {
			day.Status = "existing"
		}
		for _, a := range d.Assignments {
			day.Words = append(day.Words, assignedWord{
				Tier:    a.Tier,
				Slot:    a.Slot,
				Word:    a.Word,
				Options: a.Quiz.Options,
				Correct: a.Quiz.CorrectIndex,
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func exportDays(days []assignment.DayResult) []xlsx.Day {
	out := make([]xlsx.Day, 0, len(days))
	for _, d := range days {
		out = append(out, xlsx.Day{Date: d.Date, Existing: d.Existing, Assignments: d.Assignments})
	}
	return out
}
