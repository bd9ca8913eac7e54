package difficulty

import (
	"strings"
	"unicode"
)

// EstimateSyllables counts vowel groups, dropping a silent trailing "e".
// The result is at least 1 for any word containing a letter.
func EstimateSyllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	letters := 0
	for _, r := range w {
		if !unicode.IsLetter(r) {
			prevVowel = false
			continue
		}
		letters++
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if letters == 0 {
		return 0
	}
	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && count > 1 {
		count--
	}
	return max(count, 1)
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'á', 'é', 'í', 'ó', 'ú', 'à', 'è', 'ï', 'ö', 'ü':
		return true
	}
	return false
}
