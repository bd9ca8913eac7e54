package eligibility

// Reason identifies the rule that rejected a candidate.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonTooShort    Reason = "too_short"
	ReasonPhrase      Reason = "phrase"
	ReasonDigit       Reason = "contains_digit"
	ReasonProperNoun  Reason = "proper_noun"
	ReasonAbbrev      Reason = "abbreviation"
	ReasonContraction Reason = "contraction"
	ReasonInvalidChar Reason = "invalid_characters"
	ReasonCommonWord  Reason = "common_word"
	ReasonHyphenation Reason = "hyphenation"
	ReasonRepetition  Reason = "repetition"
	ReasonTooCommon   Reason = "too_common"
)

var reasonMessages = map[Reason]string{
	ReasonTooShort:    "too short",
	ReasonPhrase:      "multi-word phrase",
	ReasonDigit:       "contains a digit",
	ReasonProperNoun:  "proper noun",
	ReasonAbbrev:      "abbreviation",
	ReasonContraction: "contraction",
	ReasonInvalidChar: "invalid characters",
	ReasonCommonWord:  "common word",
	ReasonHyphenation: "hyphenation anomaly",
	ReasonRepetition:  "repetition pattern",
	ReasonTooCommon:   "too frequent",
}

func (r Reason) String() string { return string(r) }

// Message returns a human-readable description of the reason.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// Result is the outcome of an eligibility check.
type Result struct {
	Valid  bool
	Reason Reason
}

func valid() Result { return Result{Valid: true} }

func reject(r Reason) Result { return Result{Reason: r} }
