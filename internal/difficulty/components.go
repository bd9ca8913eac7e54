package difficulty

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// FrequencyParams shape the frequency component curve.
type FrequencyParams struct {
	MaxExpected float64 // per-million frequency treated as "very common"
	Exponent    float64
	Floor       float64
}

// DefaultFrequencyParams are tuned for a per-million frequency scale.
var DefaultFrequencyParams = FrequencyParams{MaxExpected: 8, Exponent: 0.5, Floor: 0.05}

// frequencyScore inverts a normalised frequency: rarer words score higher.
func frequencyScore(f float64, p FrequencyParams) float64 {
	normalized := math.Min(math.Max(f, 0)/p.MaxExpected, 1)
	return math.Max(p.Floor, math.Pow(1-normalized, p.Exponent))
}

// frequencyEstimate approximates rarity from surface shape alone.
func frequencyEstimate(length, syllables int, p FrequencyParams) float64 {
	est := 0.2 + 0.05*float64(length-4) + 0.1*float64(syllables-1)
	return math.Max(p.Floor, domain.Clamp01(est))
}

// polysemy peaks at one sense, bottoms out at seven and climbs back part of
// the way by ten, where it saturates.
func polysemy(senses int) float64 {
	if senses == 0 {
		return 0.5
	}
	n := float64(min(senses, 10))
	return 0.35 + 0.15*math.Cos(math.Pi*(n-1)/6)
}

func semanticScore(senses []domain.Sense) float64 {
	if len(senses) == 0 {
		return 0.5 * polysemy(0)
	}

	technical := 0
	pos := make(map[domain.PartOfSpeech]struct{}, len(senses))
	for _, s := range senses {
		if IsTechnical(s.Domain) {
			technical++
		}
		if s.PartOfSpeech != "" {
			pos[s.PartOfSpeech] = struct{}{}
		}
	}

	specificity := float64(technical) / float64(len(senses))
	variety := 0.0
	if len(pos) > 1 {
		variety = math.Min(float64(len(pos)-1)/3, 1)
	}
	return 0.5*polysemy(len(senses)) + 0.3*specificity + 0.2*variety
}

func lengthScore(n int) float64 {
	switch {
	case n <= 4:
		return 0.1
	case n <= 6:
		return 0.3
	case n <= 8:
		return 0.5
	case n <= 10:
		return 0.7
	case n <= 12:
		return 0.85
	default:
		return 1.0
	}
}

func syllableScore(n int) float64 {
	switch {
	case n <= 1:
		return 0.1
	case n == 2:
		return 0.3
	case n == 3:
		return 0.5
	case n == 4:
		return 0.7
	case n == 5:
		return 0.85
	default:
		return 1.0
	}
}

var (
	commonPrefixes = []string{
		"anti", "counter", "dis", "hyper", "inter", "micro", "mis", "non",
		"over", "para", "poly", "post", "pre", "pseudo", "semi", "sub",
		"super", "trans", "ultra", "un", "under",
	}
	commonSuffixes = []string{
		"able", "ance", "ence", "ful", "ible", "ical", "ion", "ise", "ism",
		"ist", "ity", "ive", "ize", "less", "ment", "ness", "ology", "ous",
	}
	// stems recognised as halves of a closed compound.
	compoundStems = map[string]struct{}{
		"air": {}, "back": {}, "ball": {}, "board": {}, "book": {}, "bow": {},
		"day": {}, "door": {}, "fire": {}, "fish": {}, "foot": {}, "ground": {},
		"hand": {}, "head": {}, "house": {}, "key": {}, "land": {}, "light": {},
		"line": {}, "man": {}, "moon": {}, "news": {}, "paper": {}, "port": {},
		"rain": {}, "road": {}, "room": {}, "ship": {}, "shop": {}, "side": {},
		"snow": {}, "star": {}, "stone": {}, "sun": {}, "time": {}, "water": {},
		"way": {}, "wood": {}, "work": {}, "yard": {},
	}
)

// morphologyScore sums prefix, suffix and compound markers, capped at 1.
func morphologyScore(word string) float64 {
	lower := strings.ToLower(word)
	n := utf8.RuneCountInString(lower)

	score := 0.0
	for _, p := range commonPrefixes {
		if strings.HasPrefix(lower, p) && n >= len(p)+3 {
			score += 0.3
			break
		}
	}
	for _, s := range commonSuffixes {
		if strings.HasSuffix(lower, s) && n >= len(s)+3 {
			score += 0.3
			break
		}
	}
	if isCompound(word) {
		score += 0.4
	}
	return math.Min(score, 1)
}

func isCompound(word string) bool {
	if strings.Contains(word, "-") {
		return true
	}
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	lower := strings.ToLower(word)
	for i := 3; i <= len(lower)-3; i++ {
		_, left := compoundStems[lower[:i]]
		_, right := compoundStems[lower[i:]]
		if left && right {
			return true
		}
	}
	return false
}

func structuralScore(word string, syllables int) float64 {
	n := utf8.RuneCountInString(word)
	return (lengthScore(n) + syllableScore(syllables) + morphologyScore(word)) / 3
}

// domainScore averages the profile values of every resolvable sense tag.
// It returns the neutral value and no tags when nothing resolves.
func domainScore(senses []domain.Sense, profile *Profile) (float64, []string) {
	var (
		sum  float64
		tags []string
	)
	for _, s := range senses {
		if s.Domain == "" {
			continue
		}
		v, ok := profile.Value(s.Domain)
		if !ok {
			continue
		}
		sum += v
		tags = append(tags, domainKey(s.Domain))
	}
	if len(tags) == 0 {
		return neutralDomain, nil
	}
	return sum / float64(len(tags)), tags
}
