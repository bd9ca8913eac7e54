package domain

import "strings"

// Tier is a difficulty label derived from a numeric score.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tier cut points on the combined difficulty score.
const (
	MediumThreshold = 0.4
	HardThreshold   = 0.7
)

// Tiers lists every tier in ascending difficulty order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

func (t Tier) String() string { return string(t) }

func (t Tier) IsValid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// Rank returns the tier's position in ascending order, or -1 for unknown tiers.
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// TierForScore maps a difficulty score to its tier.
// This is the only place where a tier is derived.
func TierForScore(score float64) Tier {
	switch {
	case score < MediumThreshold:
		return TierEasy
	case score < HardThreshold:
		return TierMedium
	default:
		return TierHard
	}
}

// ParseTier converts a case-insensitive label to a Tier. The aliases
// low/mid/high are accepted.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "low":
		return TierEasy, true
	case "medium", "mid":
		return TierMedium, true
	case "hard", "high":
		return TierHard, true
	}
	return "", false
}

// PartOfSpeech represents the grammatical category of a word.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "NOUN"
	PartOfSpeechVerb         PartOfSpeech = "VERB"
	PartOfSpeechAdjective    PartOfSpeech = "ADJECTIVE"
	PartOfSpeechAdverb       PartOfSpeech = "ADVERB"
	PartOfSpeechPronoun      PartOfSpeech = "PRONOUN"
	PartOfSpeechPreposition  PartOfSpeech = "PREPOSITION"
	PartOfSpeechConjunction  PartOfSpeech = "CONJUNCTION"
	PartOfSpeechInterjection PartOfSpeech = "INTERJECTION"
	PartOfSpeechOther        PartOfSpeech = "OTHER"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechInterjection, PartOfSpeechOther:
		return true
	}
	return false
}

// posMap maps lowercase dictionary POS strings and abbreviations to PartOfSpeech values.
var posMap = map[string]PartOfSpeech{
	"noun":         PartOfSpeechNoun,
	"n":            PartOfSpeechNoun,
	"verb":         PartOfSpeechVerb,
	"v":            PartOfSpeechVerb,
	"adjective":    PartOfSpeechAdjective,
	"adj":          PartOfSpeechAdjective,
	"adverb":       PartOfSpeechAdverb,
	"adv":          PartOfSpeechAdverb,
	"pronoun":      PartOfSpeechPronoun,
	"pron":         PartOfSpeechPronoun,
	"preposition":  PartOfSpeechPreposition,
	"prep":         PartOfSpeechPreposition,
	"conjunction":  PartOfSpeechConjunction,
	"conj":         PartOfSpeechConjunction,
	"interjection": PartOfSpeechInterjection,
	"intj":         PartOfSpeechInterjection,
}

// ParsePartOfSpeech converts a POS string to the PartOfSpeech enum.
// The lookup is case-insensitive. Unknown or empty values map to PartOfSpeechOther.
func ParsePartOfSpeech(s string) PartOfSpeech {
	if p := PartOfSpeech(strings.ToUpper(strings.TrimSpace(s))); p.IsValid() {
		return p
	}
	if p, ok := posMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return PartOfSpeechOther
}
