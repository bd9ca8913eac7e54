// Package eligibility decides whether a candidate string is a usable
// vocabulary word.
package eligibility

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minLength          = 3
	maxAbbrevLength    = 5
	minHyphenSegment   = 2
	minRepeatUnit      = 2
	minRepeatOccurence = 3
)

// Checker decides eligibility for a single candidate.
type Checker interface {
	Eligible(ctx context.Context, candidate string) Result
}

// Static applies only the synchronous rules.
type Static struct{}

func (Static) Eligible(_ context.Context, candidate string) Result { return Check(candidate) }

// rule reports whether candidate fails it.
type rule struct {
	reason Reason
	fails  func(s string) bool
}

// rules run in order; the first failing rule wins.
var rules = []rule{
	{ReasonTooShort, func(s string) bool { return utf8.RuneCountInString(s) < minLength }},
	{ReasonPhrase, func(s string) bool { return strings.ContainsFunc(s, unicode.IsSpace) }},
	{ReasonDigit, func(s string) bool { return strings.ContainsFunc(s, unicode.IsDigit) }},
	{ReasonProperNoun, isProperNoun},
	{ReasonAbbrev, isAbbreviation},
	{ReasonContraction, func(s string) bool { return strings.ContainsAny(s, "'’ʼ") }},
	{ReasonInvalidChar, func(s string) bool {
		return strings.ContainsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && r != '-' })
	}},
	{ReasonCommonWord, IsCommonWord},
	{ReasonHyphenation, hasHyphenAnomaly},
	{ReasonRepetition, hasRepetition},
}

// Check runs the synchronous eligibility rules against candidate.
// Surrounding whitespace is ignored.
func Check(candidate string) Result {
	s := strings.TrimSpace(candidate)
	for _, r := range rules {
		if r.fails(s) {
			return reject(r.reason)
		}
	}
	return valid()
}

// isProperNoun matches any initial capital, except the short all-caps tokens
// left to isAbbreviation.
func isProperNoun(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(first) && !isAbbreviation(s)
}

// isAbbreviation matches a short all-uppercase token.
func isAbbreviation(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters > 0 && letters <= maxAbbrevLength
}

func hasHyphenAnomaly(s string) bool {
	if !strings.Contains(s, "-") {
		return false
	}
	if strings.Count(s, "-") > 1 {
		return true
	}
	for _, seg := range strings.Split(s, "-") {
		if utf8.RuneCountInString(seg) < minHyphenSegment {
			return true
		}
	}
	return false
}

// hasRepetition reports whether some unit of two or more characters occurs
// at least three times back to back, as in "hahaha".
func hasRepetition(s string) bool {
	runes := []rune(strings.ToLower(s))
	n := len(runes)
	for unit := minRepeatUnit; unit*minRepeatOccurence <= n; unit++ {
		for start := 0; start+unit*minRepeatOccurence <= n; start++ {
			count := 1
			for next := start + unit; next+unit <= n && equalRunes(runes[start:start+unit], runes[next:next+unit]); next += unit {
				count++
			}
			if count >= minRepeatOccurence {
				return true
			}
		}
	}
	return false
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
