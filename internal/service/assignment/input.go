package assignment

import (
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Request describes an assignment run over [StartDate, EndDate].
type Request struct {
	StartDate    time.Time
	EndDate      time.Time
	WordsPerDay  int                 // 0 uses the configured default
	Distribution domain.Distribution // nil uses the configured default

	// Force replaces dates that already have assignments.
	Force bool
}

func (r Request) validate() error {
	var errs []domain.FieldError
	if r.StartDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "start_date", Message: "required"})
	}
	if r.EndDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "end_date", Message: "required"})
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() {
		start, end := domain.Day(r.StartDate), domain.Day(r.EndDate)
		switch {
		case end.Before(start):
			errs = append(errs, domain.FieldError{Field: "end_date", Message: "must not be before start_date"})
		case daysBetween(start, end) > MaxRangeDays:
			errs = append(errs, domain.FieldError{Field: "end_date", Message: "range too long"})
		}
	}
	if r.WordsPerDay <= 0 {
		errs = append(errs, domain.FieldError{Field: "words_per_day", Message: "must be > 0"})
	}
	if err := r.Distribution.Validate(); err != nil {
		errs = append(errs, domain.FieldError{Field: "distribution", Message: err.Error()})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// daysBetween counts the calendar days in [start, end].
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
