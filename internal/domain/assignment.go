package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// DailyAssignment maps a calendar date and a tier slot to one word.
// Unique on (Date, Tier, Slot) and on (Date, WordID).
type DailyAssignment struct {
	ID        uuid.UUID
	Date      time.Time
	Tier      Tier
	Slot      int
	WordID    int64
	Word      string
	Quiz      Quiz
	CreatedAt time.Time
}

// Quiz is a multiple-choice question: one correct definition plus distractors.
type Quiz struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Correct returns the correct option, or "" when the index is out of range.
func (q Quiz) Correct() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Distractors returns every option except the correct one, in option order.
func (q Quiz) Distractors() []string {
	out := make([]string, 0, len(q.Options))
	for i, o := range q.Options {
		if i != q.CorrectIndex {
			out = append(out, o)
		}
	}
	return out
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
