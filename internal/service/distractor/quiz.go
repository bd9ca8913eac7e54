package distractor

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// BuildQuiz shuffles the correct definition in with the distractors and
// records where it landed.
func (s *Service) BuildQuiz(correct string, distractors []string) domain.Quiz {
	options := make([]string, 0, len(distractors)+1)
	options = append(options, correct)
	options = append(options, distractors...)

	s.mu.Lock()
	s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	s.mu.Unlock()

	q := domain.Quiz{Options: options}
	for i, o := range options {
		if o == correct {
			q.CorrectIndex = i
			break
		}
	}
	return q
}

// QuizFor builds a quiz for the primary definition of w at the given tier.
func (s *Service) QuizFor(ctx context.Context, w *domain.Word, tier domain.Tier) (domain.Quiz, error) {
	correct := w.PrimaryDefinition()
	if correct == "" {
		return domain.Quiz{}, fmt.Errorf("word %q: %w", w.Text, domain.NewValidationError("senses", "no definition to quiz"))
	}

	distractors, err := s.Generate(ctx, Request{
		Word:              w.Text,
		CorrectDefinition: correct,
		PartOfSpeech:      w.PrimaryPartOfSpeech(),
		Tier:              tier,
		Entry:             w,
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.BuildQuiz(correct, distractors), nil
}

// RecordCorrectAnswer credits the distractors shown alongside a correctly
// answered quiz and returns how many records were updated.
func (s *Service) RecordCorrectAnswer(ctx context.Context, word string, distractors []string) (int, error) {
	n, err := s.distractors.IncrementSuccess(ctx, domain.NormalizeText(word), distractors)
	if err != nil {
		return 0, fmt.Errorf("record correct answer for %q: %w", word, err)
	}
	return n, nil
}
