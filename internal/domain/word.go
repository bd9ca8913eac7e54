package domain

import (
	"math"
	"time"
)

// Word is a vocabulary word stored in the lexical store.
type Word struct {
	ID           int64
	Text         string
	PartOfSpeech PartOfSpeech
	Senses       []Sense
	Examples     []string
	Synonyms     []string
	Antonyms     []string
	Frequency    *float64 // cached frequency signal, per-million scale
	Syllables    int
	Difficulty   *Difficulty
	CreatedAt    time.Time
}

// Sense is one meaning of a word.
type Sense struct {
	Definition   string
	PartOfSpeech PartOfSpeech
	Domain       string // technical domain tag, empty for general usage
}

// PrimaryDefinition returns the definition of the first sense, or "" when
// the word has no senses.
func (w *Word) PrimaryDefinition() string {
	for _, s := range w.Senses {
		if s.Definition != "" {
			return s.Definition
		}
	}
	return ""
}

// PrimaryPartOfSpeech returns the word-level POS, falling back to the first sense's POS.
func (w *Word) PrimaryPartOfSpeech() PartOfSpeech {
	if w.PartOfSpeech != "" {
		return w.PartOfSpeech
	}
	if len(w.Senses) > 0 && w.Senses[0].PartOfSpeech != "" {
		return w.Senses[0].PartOfSpeech
	}
	return PartOfSpeechOther
}

// IsScored reports whether the word carries a difficulty score.
func (w *Word) IsScored() bool {
	return w.Difficulty != nil
}

// Components holds the four independent difficulty signals, each in [0,1].
type Components struct {
	Frequency  float64 `json:"frequency"`
	Semantic   float64 `json:"semantic"`
	Structural float64 `json:"structural"`
	Domain     float64 `json:"domain"`
}

// Difficulty is a computed difficulty annotation. Build it with NewDifficulty
// so the tier is always derived from the score.
type Difficulty struct {
	Score      float64
	Tier       Tier
	Confidence float64
	Components Components
	Metadata   map[string]any
	ScoredAt   time.Time
}

// NewDifficulty clamps score to [0,1] and derives the tier from it.
func NewDifficulty(score, confidence float64, components Components, metadata map[string]any, scoredAt time.Time) Difficulty {
	score = Clamp01(score)
	return Difficulty{
		Score:      score,
		Tier:       TierForScore(score),
		Confidence: Clamp01(confidence),
		Components: components,
		Metadata:   metadata,
		ScoredAt:   scoredAt,
	}
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WordWithUsage pairs a word with the date it was last assigned.
type WordWithUsage struct {
	Word           Word
	LastAssignedAt *time.Time
}
