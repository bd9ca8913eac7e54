// Package kaikki parses Kaikki (Wiktionary extract) JSONL dumps into words.
// It has no database dependencies.
package kaikki

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines     int
	MalformedLines int
	EnglishLines   int
	SkippedEntries int // phrases, POS outside the filter, or no usable sense
	Words          int
}

// entry mirrors one Kaikki JSONL line (only the fields we need).
type entry struct {
	Word     string     `json:"word"`
	POS      string     `json:"pos"`
	Lang     string     `json:"lang"`
	Senses   []sense    `json:"senses"`
	Synonyms []relation `json:"synonyms"`
	Antonyms []relation `json:"antonyms"`
}

type sense struct {
	Glosses  []string   `json:"glosses"`
	Examples []example  `json:"examples"`
	Topics   []string   `json:"topics"`
	Tags     []string   `json:"tags"`
	FormOf   []relation `json:"form_of"`
	AltOf    []relation `json:"alt_of"`
	Synonyms []relation `json:"synonyms"`
	Antonyms []relation `json:"antonyms"`
}

type example struct {
	Text string `json:"text"`
}

type relation struct {
	Word string `json:"word"`
}
