package batch

import (
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// ItemStatus is the outcome for one word.
type ItemStatus string

const (
	StatusScored  ItemStatus = "scored"
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// Item reports what happened to one word.
type Item struct {
	ID           int64       `json:"id"`
	Text         string      `json:"text"`
	Status       ItemStatus  `json:"status"`
	Score        float64     `json:"score,omitempty"`
	Tier         domain.Tier `json:"tier,omitempty"`
	Confidence   float64     `json:"confidence,omitempty"`
	UsesFallback bool        `json:"uses_fallback,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// Summary holds the statistics of a scoring run.
type Summary struct {
	Requested        int64 // IDs in the requested range
	CoveredSkipped   int64 // IDs left alone because the state already covers them
	Batches          int
	Processed        int // words scored
	Skipped          int // phrases
	Errors           int // per-word write failures
	BatchErrors      int // batch fetch or state save failures
	WithFrequency    int
	WithoutFrequency int
	ExternalErrors   int
	DryRun           bool
	Duration         time.Duration
	Items            []Item
}
