package domain

import (
	"time"

	"github.com/google/uuid"
)

// DistractorSource identifies how a distractor was produced.
type DistractorSource string

const (
	DistractorSourceStored          DistractorSource = "stored"
	DistractorSourceAlternateSense  DistractorSource = "alternate_sense"
	DistractorSourceSynonym         DistractorSource = "synonym"
	DistractorSourceAntonym         DistractorSource = "antonym"
	DistractorSourceDynamicFallback DistractorSource = "dynamic_fallback"
)

func (s DistractorSource) String() string { return string(s) }

// Distractor is a reusable wrong answer for a word's correct definition.
// Records accumulate and are never deleted.
type Distractor struct {
	ID                uuid.UUID
	Word              string
	CorrectDefinition string
	Text              string
	PartOfSpeech      PartOfSpeech
	Tier              Tier
	Source            DistractorSource
	Quality           float64
	UsageCount        int
	SuccessCount      int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
