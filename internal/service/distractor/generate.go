package distractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// candidate is a proposed distractor. stored is set when it came from the
// distractor store.
type candidate struct {
	text    string
	source  domain.DistractorSource
	quality float64
	stored  *domain.Distractor
}

// generation is the state of one Generate call.
type generation struct {
	req      Request
	word     string
	entry    *domain.Word
	accepted []candidate
	seen     map[string]struct{}
}

// Generate returns up to Count distractors for the correct definition of
// req.Word. Strategies run in order until enough candidates are accepted:
// stored records, the word's other senses, definitions of related words,
// and templated fallbacks. A candidate is rejected when it is too similar
// to the correct definition or repeats one already accepted.
//
// Store failures are logged and never fail generation. Reused records have
// their usage counted and new ones are saved.
func (s *Service) Generate(ctx context.Context, req Request) ([]string, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	g := &generation{
		req:   req,
		word:  domain.NormalizeText(req.Word),
		entry: req.Entry,
		seen:  map[string]struct{}{domain.NormalizeText(req.CorrectDefinition): {}},
	}
	if g.req.PartOfSpeech == "" {
		g.req.PartOfSpeech = domain.PartOfSpeechOther
	}

	for _, next := range s.strategies {
		need := s.cfg.Count - len(g.accepted)
		if need <= 0 {
			break
		}
		for _, c := range next(ctx, g, need) {
			if len(g.accepted) >= s.cfg.Count {
				break
			}
			s.accept(g, c)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	s.persist(ctx, g)

	out := make([]string, len(g.accepted))
	for i, c := range g.accepted {
		out[i] = c.text
	}
	return out, nil
}

// accept adds c to g when it passes the similarity and duplicate checks.
func (s *Service) accept(g *generation, c candidate) bool {
	key := domain.NormalizeText(c.text)
	if key == "" {
		return false
	}
	if _, dup := g.seen[key]; dup {
		return false
	}
	if Similarity(c.text, g.req.CorrectDefinition) > s.cfg.SimilarityThreshold {
		return false
	}
	g.seen[key] = struct{}{}
	g.accepted = append(g.accepted, c)
	return true
}

// persist saves new candidates and counts usage for all accepted ones.
func (s *Service) persist(ctx context.Context, g *generation) {
	var fresh []domain.Distractor
	var used []uuid.UUID
	for _, c := range g.accepted {
		if c.stored != nil {
			used = append(used, c.stored.ID)
			continue
		}
		fresh = append(fresh, domain.Distractor{
			Word:              g.word,
			CorrectDefinition: g.req.CorrectDefinition,
			Text:              c.text,
			PartOfSpeech:      g.req.PartOfSpeech,
			Tier:              g.req.Tier,
			Source:            c.source,
			Quality:           c.quality,
		})
	}

	if len(fresh) > 0 {
		if err := s.distractors.Upsert(ctx, fresh); err != nil {
			s.log.WarnContext(ctx, "save distractors failed",
				slog.String("word", g.word),
				slog.Int("count", len(fresh)),
				slog.String("error", err.Error()),
			)
		} else {
			for _, d := range fresh {
				used = append(used, d.ID)
			}
		}
	}

	if len(used) == 0 {
		return
	}
	if err := s.distractors.IncrementUsage(ctx, used); err != nil {
		s.log.WarnContext(ctx, "increment distractor usage failed",
			slog.String("word", g.word),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

func (s *Service) fromStore(ctx context.Context, g *generation, need int) []candidate {
	if g.req.Tier == "" {
		return nil
	}
	stored, err := s.distractors.ListByKey(ctx, g.word, g.req.PartOfSpeech, g.req.Tier, need*3)
	if err != nil {
		s.log.WarnContext(ctx, "list stored distractors failed",
			slog.String("word", g.word),
			slog.String("error", err.Error()),
		)
		return nil
	}

	out := make([]candidate, 0, len(stored))
	for i := range stored {
		d := &stored[i]
		out = append(out, candidate{text: d.Text, source: domain.DistractorSourceStored, quality: d.Quality, stored: d})
	}
	return out
}

func (s *Service) fromAlternateSenses(ctx context.Context, g *generation, _ int) []candidate {
	entry := s.loadEntry(ctx, g)
	if entry == nil {
		return nil
	}

	var out []candidate
	for _, sense := range entry.Senses {
		out = append(out, candidate{text: sense.Definition, source: domain.DistractorSourceAlternateSense, quality: QualityAlternateSense})
	}
	return out
}

func (s *Service) fromRelatedWords(ctx context.Context, g *generation, need int) []candidate {
	entry := s.loadEntry(ctx, g)

	var synonyms, antonyms []string
	if entry != nil {
		synonyms, antonyms = entry.Synonyms, entry.Antonyms
	}
	if len(synonyms) == 0 && len(antonyms) == 0 && s.assoc != nil {
		rel, err := s.assoc.Related(ctx, g.word)
		if err != nil {
			s.log.WarnContext(ctx, "related words lookup failed",
				slog.String("word", g.word),
				slog.String("error", err.Error()),
			)
		} else if rel != nil {
			synonyms, antonyms = rel.Synonyms, rel.Antonyms
		}
	}

	type related struct {
		text   string
		source domain.DistractorSource
	}
	queue := make([]related, 0, len(synonyms)+len(antonyms))
	for _, w := range synonyms {
		queue = append(queue, related{w, domain.DistractorSourceSynonym})
	}
	for _, w := range antonyms {
		queue = append(queue, related{w, domain.DistractorSourceAntonym})
	}

	var out []candidate
	lookups := 0
	for _, r := range queue {
		if len(out) >= need*2 || lookups >= maxRelatedLookups {
			break
		}
		if domain.NormalizeText(r.text) == g.word {
			continue
		}
		lookups++
		w, err := s.words.GetByText(ctx, r.text)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.log.WarnContext(ctx, "related word lookup failed",
					slog.String("word", r.text),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		if def := definitionFor(w, g.req.PartOfSpeech); def != "" {
			out = append(out, candidate{text: def, source: r.source, quality: QualityRelated})
		}
	}
	return out
}

// templates are generic wrong answers, by part of speech.
var templates = map[domain.PartOfSpeech][]string{
	domain.PartOfSpeechNoun: {
		"A tool used for measuring %s",
		"A place where %s is traditionally stored",
		"A person who studies %s",
	},
	domain.PartOfSpeechVerb: {
		"To refuse to %s",
		"To %s something repeatedly without purpose",
		"To prepare for %s",
	},
	domain.PartOfSpeechAdjective: {
		"The opposite of %s",
		"Slightly less than %s",
		"Relating to the absence of %s",
	},
	domain.PartOfSpeechAdverb: {
		"In a manner opposite to %s",
		"Without any sense of %s",
		"Only occasionally %s",
	},
}

var genericTemplates = []string{
	"Not a definition of %s",
	"The opposite of %s",
	"Something unrelated to %s",
	"A misspelling of %s",
}

func (s *Service) fromTemplates(_ context.Context, g *generation, _ int) []candidate {
	var out []candidate
	for _, list := range [][]string{templates[g.req.PartOfSpeech], genericTemplates} {
		for _, tmpl := range list {
			out = append(out, candidate{
				text:    fmt.Sprintf(tmpl, g.word),
				source:  domain.DistractorSourceDynamicFallback,
				quality: QualityFallback,
			})
		}
	}
	return out
}

// loadEntry returns the word's lexical record, loading it once.
func (s *Service) loadEntry(ctx context.Context, g *generation) *domain.Word {
	if g.entry != nil {
		return g.entry
	}
	w, err := s.words.GetByText(ctx, g.word)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "word lookup failed",
				slog.String("word", g.word),
				slog.String("error", err.Error()),
			)
		}
		g.entry = &domain.Word{Text: g.word}
		return g.entry
	}
	g.entry = w
	return w
}

// definitionFor prefers a sense matching pos.
func definitionFor(w *domain.Word, pos domain.PartOfSpeech) string {
	for _, sense := range w.Senses {
		if sense.PartOfSpeech == pos && sense.Definition != "" {
			return sense.Definition
		}
	}
	return w.PrimaryDefinition()
}
