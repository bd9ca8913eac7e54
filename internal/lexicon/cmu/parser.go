// Package cmu reads syllable counts from the CMU Pronouncing Dictionary.
package cmu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	CommentLines int
	ParsedLines  int
	UniqueWords  int
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (map[string]int, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse returns the syllable count of every word's primary pronunciation,
// keyed by normalised word. Alternate pronunciations ("WORD(2)") are ignored.
func Parse(r io.Reader) (map[string]int, Stats, error) {
	var stats Stats
	out := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.TotalLines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ";;;") {
			stats.CommentLines++
			continue
		}

		word, phonemes, ok := splitLine(line)
		if !ok {
			continue
		}
		stats.ParsedLines++
		if _, seen := out[word]; seen {
			continue
		}
		if n := countSyllables(phonemes); n > 0 {
			out[word] = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scanner error: %w", err)
	}

	stats.UniqueWords = len(out)
	return out, stats, nil
}

// splitLine parses "WORD  P1 P2 ...". Alternate variants report ok=false.
func splitLine(line string) (string, []string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", nil, false
	}
	raw := fields[0]
	if i := strings.IndexByte(raw, '('); i > 0 {
		return "", nil, false
	}
	word := domain.NormalizeText(raw)
	if word == "" {
		return "", nil, false
	}
	return word, fields[1:], true
}

// countSyllables counts vowel phonemes, which are the ones carrying a
// stress marker (0, 1 or 2).
func countSyllables(phonemes []string) int {
	n := 0
	for _, p := range phonemes {
		if last := p[len(p)-1]; last == '0' || last == '1' || last == '2' {
			n++
		}
	}
	return n
}
