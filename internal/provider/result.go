package provider

// FrequencyResult is the frequency signal an association service reports
// for a single word.
type FrequencyResult struct {
	Word string
	// Frequency is occurrences per million words, nil when the service
	// knows the word but carries no frequency tag for it.
	Frequency *float64
	Syllables int
}

// Associations lists words related to a query word.
type Associations struct {
	Synonyms []string
	Antonyms []string
}

// IsEmpty reports whether no related words were found.
func (a *Associations) IsEmpty() bool {
	return a == nil || (len(a.Synonyms) == 0 && len(a.Antonyms) == 0)
}
