package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// ReadWordListFile opens path and reads it with ReadWordList.
func ReadWordListFile(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return ReadWordList(f)
}

// ReadWordList reads a CSV word list such as NGSL or NAWL. The first row is
// a header and the first column of every other row is a word.
func ReadWordList(r io.Reader) (map[string]bool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	words := make(map[string]bool)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		if w := domain.NormalizeText(record[0]); w != "" {
			words[w] = true
		}
	}
	return words, nil
}
