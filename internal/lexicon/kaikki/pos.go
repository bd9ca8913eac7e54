package kaikki

import (
	"strings"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// posMap maps Kaikki POS strings to PartOfSpeech values. Kaikki categories
// that are not word classes (phrase, proverb, affix, symbol...) are absent.
var posMap = map[string]domain.PartOfSpeech{
	"noun": domain.PartOfSpeechNoun,
	"verb": domain.PartOfSpeechVerb,
	"adj":  domain.PartOfSpeechAdjective,
	"adv":  domain.PartOfSpeechAdverb,
	"pron": domain.PartOfSpeechPronoun,
	"prep": domain.PartOfSpeechPreposition,
	"conj": domain.PartOfSpeechConjunction,
	"intj": domain.PartOfSpeechInterjection,
	"num":  domain.PartOfSpeechOther,
	"det":  domain.PartOfSpeechOther,
}

// MapPOS converts a Kaikki POS string. ok is false for non-word categories.
func MapPOS(kaikkiPOS string) (domain.PartOfSpeech, bool) {
	pos, ok := posMap[strings.ToLower(strings.TrimSpace(kaikkiPOS))]
	return pos, ok
}

// registerTags maps Wiktionary usage labels to profile domain tags.
var registerTags = map[string]string{
	"archaic":    "archaic",
	"obsolete":   "archaic",
	"dated":      "archaic",
	"literary":   "literary",
	"poetic":     "literary",
	"informal":   "informal",
	"colloquial": "informal",
	"slang":      "informal",
}

// senseDomain picks the domain tag of a sense: the first topic, else the
// first register label, else "".
func senseDomain(s *sense) string {
	for _, t := range s.Topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			return t
		}
	}
	for _, t := range s.Tags {
		if d, ok := registerTags[strings.ToLower(t)]; ok {
			return d
		}
	}
	return ""
}
