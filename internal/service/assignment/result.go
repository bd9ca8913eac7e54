package assignment

import (
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// DayResult reports the assignments of one date.
type DayResult struct {
	Date time.Time
	// Existing is set when the date already had assignments and was left alone.
	Existing    bool
	Replaced    int
	Assignments []domain.DailyAssignment
}

// Result summarises an assignment run.
type Result struct {
	AssignedCount int
	ExistingDays  int
	StartDate     time.Time
	EndDate       time.Time
	Days          []DayResult
}
