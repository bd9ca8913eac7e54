package cmu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDict = `;;; # CMUdict  --  Major Version: 0.07
;;; comment

CAT  K AE1 T
PARADOX  P EH1 R AH0 D AA2 K S
READ  R IY1 D
READ(2)  R EH1 D
TOMATO  T AH0 M EY1 T OW2
TOMATO(2)  T AH0 M AA1 T OW2
BROKEN
`

func TestParse(t *testing.T) {
	t.Parallel()

	got, stats, err := Parse(strings.NewReader(sampleDict))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"cat": 1, "paradox": 3, "read": 1, "tomato": 3}, got)
	assert.Equal(t, 10, stats.TotalLines)
	assert.Equal(t, 2, stats.CommentLines)
	assert.Equal(t, 4, stats.ParsedLines)
	assert.Equal(t, 4, stats.UniqueWords)
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := ParseFile("/nonexistent/cmudict.dict")
	require.Error(t, err)
}

func TestCountSyllables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phonemes []string
		want     int
	}{
		{[]string{"K", "AE1", "T"}, 1},
		{[]string{"AH0", "B", "AW1", "T"}, 2},
		{[]string{"S", "T"}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countSyllables(tt.phonemes), "%v", tt.phonemes)
	}
}
