package distractor

import "github.com/heartmarshall/wordpipe/internal/domain"

// Request identifies the quiz a set of distractors is generated for.
type Request struct {
	Word              string
	CorrectDefinition string
	PartOfSpeech      domain.PartOfSpeech
	Tier              domain.Tier

	// Entry is the word's lexical record. When nil it is loaded by Word.
	Entry *domain.Word
}

func (r Request) validate() error {
	var errs []domain.FieldError
	if domain.NormalizeText(r.Word) == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	}
	if domain.NormalizeText(r.CorrectDefinition) == "" {
		errs = append(errs, domain.FieldError{Field: "correct_definition", Message: "required"})
	}
	if r.Tier != "" && !r.Tier.IsValid() {
		errs = append(errs, domain.FieldError{Field: "tier", Message: "unknown tier"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
