package datamuse

// apiWord is a single element of the /words response array.
type apiWord struct {
	Word         string   `json:"word"`
	Score        int      `json:"score"`
	NumSyllables int      `json:"numSyllables"`
	Tags         []string `json:"tags"`
}
