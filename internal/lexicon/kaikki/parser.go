package kaikki

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

const (
	// maxLineSize is the bufio.Scanner buffer size (16 MB).
	maxLineSize = 16 << 20

	maxDefinitionLen = 500
	maxExamples      = 5
	maxRelated       = 20
)

// Options filters what Parse keeps.
type Options struct {
	// Words restricts the output to these normalised words. Nil keeps all.
	Words map[string]bool
	// Limit caps the number of distinct words. Zero means no limit.
	Limit int
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, opts Options) ([]domain.Word, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Parse(f, opts)
}

// Parse streams a Kaikki JSONL dump. Lines for the same word (one per POS)
// are merged in file order: the first line's POS becomes the word POS and
// senses, examples and relations accumulate.
func Parse(r io.Reader, opts Options) ([]domain.Word, Stats, error) {
	var stats Stats
	index := make(map[string]int)
	var words []domain.Word

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.TotalLines++

		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			stats.MalformedLines++
			continue
		}
		if e.Lang != "English" {
			continue
		}
		stats.EnglishLines++

		text := domain.NormalizeText(e.Word)
		pos, ok := MapPOS(e.POS)
		if text == "" || !ok || domain.IsPhrase(text) || (opts.Words != nil && !opts.Words[text]) {
			stats.SkippedEntries++
			continue
		}

		senses, examples, synonyms, antonyms := extract(&e, pos)
		if len(senses) == 0 {
			stats.SkippedEntries++
			continue
		}

		idx, exists := index[text]
		if !exists {
			if opts.Limit > 0 && len(words) >= opts.Limit {
				stats.SkippedEntries++
				continue
			}
			index[text] = len(words)
			words = append(words, domain.Word{Text: text, PartOfSpeech: pos})
			idx = len(words) - 1
		}

		w := &words[idx]
		w.Senses = mergeSenses(w.Senses, senses)
		w.Examples = capped(dedupe(append(w.Examples, examples...)), maxExamples)
		w.Synonyms = capped(dedupe(append(w.Synonyms, synonyms...)), maxRelated)
		w.Antonyms = capped(dedupe(append(w.Antonyms, antonyms...)), maxRelated)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scanner error: %w", err)
	}

	stats.Words = len(words)
	return words, stats, nil
}

// extract collects the usable senses of one line. Inflection and spelling
// variant senses ("plural of cat") are dropped.
func extract(e *entry, pos domain.PartOfSpeech) ([]domain.Sense, []string, []string, []string) {
	var (
		senses             []domain.Sense
		examples           []string
		synonyms, antonyms []string
	)
	self := domain.NormalizeText(e.Word)
	addRelated := func(dst []string, rel []relation) []string {
		for _, r := range rel {
			if w := domain.NormalizeText(r.Word); w != "" && w != self && !domain.IsPhrase(w) {
				dst = append(dst, w)
			}
		}
		return dst
	}

	synonyms = addRelated(synonyms, e.Synonyms)
	antonyms = addRelated(antonyms, e.Antonyms)

	for i := range e.Senses {
		s := &e.Senses[i]
		if len(s.FormOf) > 0 || len(s.AltOf) > 0 || len(s.Glosses) == 0 {
			continue
		}
		def := Truncate(StripMarkup(s.Glosses[len(s.Glosses)-1]), maxDefinitionLen)
		if def == "" {
			continue
		}
		senses = append(senses, domain.Sense{Definition: def, PartOfSpeech: pos, Domain: senseDomain(s)})
		for _, ex := range s.Examples {
			examples = append(examples, StripMarkup(ex.Text))
		}
		synonyms = addRelated(synonyms, s.Synonyms)
		antonyms = addRelated(antonyms, s.Antonyms)
	}
	return senses, examples, synonyms, antonyms
}

// mergeSenses appends senses whose (definition, POS) pair is new.
func mergeSenses(existing, more []domain.Sense) []domain.Sense {
	type key struct {
		def string
		pos domain.PartOfSpeech
	}
	seen := make(map[key]struct{}, len(existing))
	for _, s := range existing {
		seen[key{s.Definition, s.PartOfSpeech}] = struct{}{}
	}
	for _, s := range more {
		k := key{s.Definition, s.PartOfSpeech}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		existing = append(existing, s)
	}
	return existing
}

func capped(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}
