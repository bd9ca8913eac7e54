package batch

import "github.com/heartmarshall/wordpipe/internal/domain"

// Request describes one scoring run over [StartID, EndID].
type Request struct {
	StartID   int64
	EndID     int64
	BatchSize int // 0 uses the configured default

	// Update writes scores back to the store. Without it the run is a dry run.
	Update bool

	// Force reprocesses IDs already covered by the saved state.
	Force bool
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	var errs []domain.FieldError
	if r.StartID < 1 {
		errs = append(errs, domain.FieldError{Field: "start_id", Message: "must be at least 1"})
	}
	if r.EndID < r.StartID {
		errs = append(errs, domain.FieldError{Field: "end_id", Message: "must not be below start_id"})
	}
	if r.BatchSize < 0 {
		errs = append(errs, domain.FieldError{Field: "batch_size", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
