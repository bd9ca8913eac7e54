package assignment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordpipe/internal/difficulty"
	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/eligibility"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockWordRepo struct {
	idBoundsFn                  func(ctx context.Context) (domain.IDRange, error)
	listUnassignedSinceFn       func(ctx context.Context, cutoff time.Time, span domain.IDRange, limit int) ([]domain.Word, error)
	listLeastRecentlyAssignedFn func(ctx context.Context, cutoff time.Time, limit int) ([]domain.WordWithUsage, error)
	updateDifficultyFn          func(ctx context.Context, id int64, d domain.Difficulty, frequency *float64, syllables int) error
}

func (m *mockWordRepo) IDBounds(ctx context.Context) (domain.IDRange, error) {
	return m.idBoundsFn(ctx)
}
func (m *mockWordRepo) ListUnassignedSince(ctx context.Context, cutoff time.Time, span domain.IDRange, limit int) ([]domain.Word, error) {
	return m.listUnassignedSinceFn(ctx, cutoff, span, limit)
}
func (m *mockWordRepo) ListLeastRecentlyAssigned(ctx context.Context, cutoff time.Time, limit int) ([]domain.WordWithUsage, error) {
	return m.listLeastRecentlyAssignedFn(ctx, cutoff, limit)
}
func (m *mockWordRepo) UpdateDifficulty(ctx context.Context, id int64, d domain.Difficulty, frequency *float64, syllables int) error {
	return m.updateDifficultyFn(ctx, id, d, frequency, syllables)
}

type mockAssignmentRepo struct {
	listByDateFn   func(ctx context.Context, date time.Time) ([]domain.DailyAssignment, error)
	deleteByDateFn func(ctx context.Context, date time.Time) (int, error)
	insertDayFn    func(ctx context.Context, rows []domain.DailyAssignment) (int, error)
}

func (m *mockAssignmentRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.DailyAssignment, error) {
	return m.listByDateFn(ctx, date)
}
func (m *mockAssignmentRepo) DeleteByDate(ctx context.Context, date time.Time) (int, error) {
	return m.deleteByDateFn(ctx, date)
}
func (m *mockAssignmentRepo) InsertDay(ctx context.Context, rows []domain.DailyAssignment) (int, error) {
	return m.insertDayFn(ctx, rows)
}

type mockChecker struct {
	eligibleFn func(ctx context.Context, candidate string) eligibility.Result
}

func (m *mockChecker) Eligible(ctx context.Context, candidate string) eligibility.Result {
	return m.eligibleFn(ctx, candidate)
}

type mockScorer struct {
	scoreWordFn func(ctx context.Context, word *domain.Word) difficulty.Result
}

func (m *mockScorer) ScoreWord(ctx context.Context, word *domain.Word) difficulty.Result {
	return m.scoreWordFn(ctx, word)
}

type mockQuizzes struct {
	quizForFn func(ctx context.Context, w *domain.Word, tier domain.Tier) (domain.Quiz, error)
}

func (m *mockQuizzes) QuizFor(ctx context.Context, w *domain.Word, tier domain.Tier) (domain.Quiz, error) {
	return m.quizForFn(ctx, w, tier)
}

type mockTx struct{}

func (mockTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

type fakeDB struct {
	words       []domain.Word
	assignments map[string][]domain.DailyAssignment
	scored      map[int64]domain.Difficulty
	deleted     []time.Time
	pages       []domain.IDRange
}

func newFakeDB() *fakeDB {
	return &fakeDB{assignments: map[string][]domain.DailyAssignment{}, scored: map[int64]domain.Difficulty{}}
}

// addWords appends n scored words of the given tier.
func (db *fakeDB) addWords(tier domain.Tier, n int) {
	score := map[domain.Tier]float64{domain.TierEasy: 0.2, domain.TierMedium: 0.5, domain.TierHard: 0.8}[tier]
	for range n {
		id := int64(len(db.words) + 1)
		d := domain.NewDifficulty(score, 0.85, domain.Components{}, nil, time.Time{})
		db.words = append(db.words, domain.Word{
			ID:         id,
			Text:       fmt.Sprintf("%sword%c", tier, 'a'+rune(id%26)),
			Senses:     []domain.Sense{{Definition: fmt.Sprintf("meaning %d", id)}},
			Difficulty: &d,
		})
	}
}

func key(d time.Time) string { return d.Format(domain.DateLayout) }

func (db *fakeDB) lastAssigned(id int64) (time.Time, bool) {
	var last time.Time
	found := false
	for _, rows := range db.assignments {
		for _, a := range rows {
			if a.WordID == id && (!found || a.Date.After(last)) {
				last, found = a.Date, true
			}
		}
	}
	return last, found
}

func (db *fakeDB) wordRepo() *mockWordRepo {
	return &mockWordRepo{
		idBoundsFn: func(context.Context) (domain.IDRange, error) {
			if len(db.words) == 0 {
				return domain.IDRange{Start: 1, End: 0}, nil
			}
			return domain.IDRange{Start: db.words[0].ID, End: db.words[len(db.words)-1].ID}, nil
		},
		listUnassignedSinceFn: func(_ context.Context, cutoff time.Time, span domain.IDRange, limit int) ([]domain.Word, error) {
			db.pages = append(db.pages, span)
			var out []domain.Word
			for _, w := range db.words {
				if w.ID < span.Start || w.ID > span.End || len(out) == limit {
					continue
				}
				if last, ok := db.lastAssigned(w.ID); ok && !last.Before(cutoff) {
					continue
				}
				out = append(out, w)
			}
			return out, nil
		},
		listLeastRecentlyAssignedFn: func(_ context.Context, cutoff time.Time, limit int) ([]domain.WordWithUsage, error) {
			var out []domain.WordWithUsage
			for _, w := range db.words {
				if last, ok := db.lastAssigned(w.ID); ok && !last.Before(cutoff) {
					out = append(out, domain.WordWithUsage{Word: w, LastAssignedAt: &last})
				}
			}
			slices.SortStableFunc(out, func(a, b domain.WordWithUsage) int {
				return a.LastAssignedAt.Compare(*b.LastAssignedAt)
			})
			return out, nil
		},
		updateDifficultyFn: func(_ context.Context, id int64, d domain.Difficulty, _ *float64, _ int) error {
			db.scored[id] = d
			return nil
		},
	}
}

func (db *fakeDB) assignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		listByDateFn: func(_ context.Context, date time.Time) ([]domain.DailyAssignment, error) {
			return db.assignments[key(date)], nil
		},
		deleteByDateFn: func(_ context.Context, date time.Time) (int, error) {
			n := len(db.assignments[key(date)])
			delete(db.assignments, key(date))
			db.deleted = append(db.deleted, date)
			return n, nil
		},
		insertDayFn: func(_ context.Context, rows []domain.DailyAssignment) (int, error) {
			for _, r := range rows {
				db.assignments[key(r.Date)] = append(db.assignments[key(r.Date)], r)
			}
			return len(rows), nil
		},
	}
}

func allEligible() *mockChecker {
	return &mockChecker{eligibleFn: func(context.Context, string) eligibility.Result { return eligibility.Result{Valid: true} }}
}

func fourOptionQuiz() *mockQuizzes {
	return &mockQuizzes{quizForFn: func(_ context.Context, w *domain.Word, _ domain.Tier) (domain.Quiz, error) {
		return domain.Quiz{Options: []string{"wrong a", w.PrimaryDefinition(), "wrong b", "wrong c"}, CorrectIndex: 1}, nil
	}}
}

func noScorer(t *testing.T) *mockScorer {
	return &mockScorer{scoreWordFn: func(_ context.Context, w *domain.Word) difficulty.Result {
		t.Errorf("unexpected scoring of %q", w.Text)
		return difficulty.Result{}
	}}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var defaultDistribution = domain.Distribution{domain.TierEasy: 0.4, domain.TierMedium: 0.4, domain.TierHard: 0.2}

func newTestService(t *testing.T, db *fakeDB) *Service {
	return NewService(discard(), db.wordRepo(), db.assignmentRepo(), allEligible(), noScorer(t), fourOptionQuiz(), mockTx{}, Config{
		WordsPerDay:    5,
		Distribution:   defaultDistribution,
		LookbackMonths: 6,
		PoolLimit:      1000,
		Seed:           7,
	})
}

var day1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func countByTier(rows []domain.DailyAssignment) map[domain.Tier]int {
	out := map[domain.Tier]int{}
	for _, r := range rows {
		out[r.Tier]++
	}
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAssignForRange_SingleDay(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 4)
	db.addWords(domain.TierMedium, 4)
	db.addWords(domain.TierHard, 2)
	svc := newTestService(t, db)

	res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)

	assert.Equal(t, 5, res.AssignedCount)
	require.Len(t, res.Days, 1)
	rows := res.Days[0].Assignments
	assert.Equal(t, map[domain.Tier]int{domain.TierEasy: 2, domain.TierMedium: 2, domain.TierHard: 1}, countByTier(rows))

	for _, r := range rows {
		require.Len(t, r.Quiz.Options, 4)
		correct := 0
		for i, o := range r.Quiz.Options {
			if o == fmt.Sprintf("meaning %d", r.WordID) {
				correct++
				assert.Equal(t, i, r.Quiz.CorrectIndex)
			}
		}
		assert.Equal(t, 1, correct)
		assert.Equal(t, db.words[r.WordID-1].Difficulty.Tier, r.Tier)
	}
	assert.Len(t, db.assignments[key(day1)], 5)
}

func TestAssignForRange_RerunReturnsExisting(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 10)
	db.addWords(domain.TierMedium, 10)
	db.addWords(domain.TierHard, 5)
	svc := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.AssignForRange(ctx, Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)

	again, err := svc.AssignForRange(ctx, Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)
	assert.Zero(t, again.AssignedCount)
	assert.Equal(t, 1, again.ExistingDays)
	assert.True(t, again.Days[0].Existing)
	assert.Equal(t, first.Days[0].Assignments, again.Days[0].Assignments)
	assert.Empty(t, db.deleted)

	forced, err := svc.AssignForRange(ctx, Request{StartDate: day1, EndDate: day1, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 5, forced.AssignedCount)
	assert.Equal(t, 5, forced.Days[0].Replaced)
	assert.False(t, forced.Days[0].Existing)
	assert.Equal(t, []time.Time{day1}, db.deleted)
	assert.Len(t, db.assignments[key(day1)], 5)
}

func TestAssignForRange_MultiDayNoRepeats(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 14)
	db.addWords(domain.TierMedium, 14)
	db.addWords(domain.TierHard, 7)
	svc := newTestService(t, db)

	end := day1.AddDate(0, 0, 6)
	res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: end})
	require.NoError(t, err)

	assert.Equal(t, 35, res.AssignedCount)
	require.Len(t, res.Days, 7)

	seen := map[int64]bool{}
	for i, d := range res.Days {
		assert.Equal(t, day1.AddDate(0, 0, i), d.Date)
		slots := map[string]bool{}
		for _, a := range d.Assignments {
			assert.False(t, seen[a.WordID], "word %d assigned twice", a.WordID)
			seen[a.WordID] = true
			slot := fmt.Sprintf("%s/%d", a.Tier, a.Slot)
			assert.False(t, slots[slot], "slot %s reused on %s", slot, key(d.Date))
			slots[slot] = true
		}
	}
}

func TestAssignForRange_InsufficientPool(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 4)
	db.addWords(domain.TierMedium, 4)
	db.addWords(domain.TierHard, 1)
	svc := newTestService(t, db)

	_, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1.AddDate(0, 0, 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPool)

	var poolErr *domain.InsufficientPoolError
	require.ErrorAs(t, err, &poolErr)
	assert.Equal(t, domain.TierHard, poolErr.Tier)
	assert.Equal(t, 2, poolErr.Required)
	assert.Equal(t, 1, poolErr.Available)
	assert.Equal(t, 1, poolErr.Shortfall())
	assert.Empty(t, db.assignments, "nothing may be written when the pool is short")
}

func TestAssignForRange_FallbackToLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 2)
	db.addWords(domain.TierMedium, 2)
	db.addWords(domain.TierHard, 2)
	// Both hard words were used recently; the older one must be drawn first.
	db.assignments[key(day1.AddDate(0, -1, 0))] = []domain.DailyAssignment{{Date: day1.AddDate(0, -1, 0), Tier: domain.TierHard, WordID: 5}}
	db.assignments[key(day1.AddDate(0, -2, 0))] = []domain.DailyAssignment{{Date: day1.AddDate(0, -2, 0), Tier: domain.TierHard, WordID: 6}}
	svc := newTestService(t, db)

	res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)

	var hard []int64
	for _, a := range res.Days[0].Assignments {
		if a.Tier == domain.TierHard {
			hard = append(hard, a.WordID)
		}
	}
	assert.Equal(t, []int64{6}, hard)
}

func TestAssignForRange_OldAssignmentsOutsideLookback(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 2)
	db.addWords(domain.TierMedium, 2)
	db.addWords(domain.TierHard, 1)
	old := day1.AddDate(-1, 0, 0)
	db.assignments[key(old)] = []domain.DailyAssignment{{Date: old, Tier: domain.TierHard, WordID: 5}}
	svc := newTestService(t, db)

	res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)
	assert.Equal(t, 5, res.AssignedCount)
}

func TestAssignForRange_FiltersAndScoresCandidates(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 2)
	db.addWords(domain.TierMedium, 2)
	db.addWords(domain.TierHard, 1)
	// An unscored hard candidate and an ineligible one.
	db.words = append(db.words,
		domain.Word{ID: 100, Text: "sesquipedalian", Senses: []domain.Sense{{Definition: "given to long words"}}},
		domain.Word{ID: 101, Text: "the", Senses: []domain.Sense{{Definition: "definite article"}}},
		domain.Word{ID: 102, Text: "undefined"},
	)

	checker := &mockChecker{eligibleFn: func(_ context.Context, c string) eligibility.Result {
		return eligibility.Check(c)
	}}
	scored := 0
	sc := &mockScorer{scoreWordFn: func(_ context.Context, w *domain.Word) difficulty.Result {
		scored++
		assert.Equal(t, "sesquipedalian", w.Text)
		return difficulty.Result{Difficulty: domain.NewDifficulty(0.9, 0.85, domain.Components{}, nil, time.Time{})}
	}}
	cfg := Config{WordsPerDay: 5, Distribution: defaultDistribution, LookbackMonths: 6, PoolLimit: 1000, Seed: 3}
	svc := NewService(discard(), db.wordRepo(), db.assignmentRepo(), checker, sc, fourOptionQuiz(), mockTx{}, cfg)

	_, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1.AddDate(0, 0, 1), Distribution: domain.Distribution{domain.TierHard: 1}, WordsPerDay: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, scored)
	require.Contains(t, db.scored, int64(100))
	assert.Equal(t, domain.TierHard, db.scored[100].Tier)
	for _, rows := range db.assignments {
		for _, a := range rows {
			assert.NotEqual(t, int64(101), a.WordID)
			assert.NotEqual(t, int64(102), a.WordID)
		}
	}
}

func TestAssignForRange_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeDB())
	tests := []struct {
		name string
		req  Request
	}{
		{"missing dates", Request{}},
		{"inverted range", Request{StartDate: day1, EndDate: day1.AddDate(0, 0, -1)}},
		{"too long", Request{StartDate: day1, EndDate: day1.AddDate(2, 0, 0)}},
		{"bad distribution", Request{StartDate: day1, EndDate: day1, Distribution: domain.Distribution{domain.TierEasy: 0.5}}},
		{"negative words per day", Request{StartDate: day1, EndDate: day1, WordsPerDay: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignForRange(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAssignForRange_SaveError(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 2)
	db.addWords(domain.TierMedium, 2)
	db.addWords(domain.TierHard, 1)
	repo := db.assignmentRepo()
	repo.insertDayFn = func(context.Context, []domain.DailyAssignment) (int, error) {
		return 0, domain.ErrAlreadyExists
	}
	svc := NewService(discard(), db.wordRepo(), repo, allEligible(), noScorer(t), fourOptionQuiz(), mockTx{}, Config{
		WordsPerDay: 5, Distribution: defaultDistribution, LookbackMonths: 6, PoolLimit: 10, Seed: 1,
	})

	_, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAssignForRange_QuizError(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.addWords(domain.TierEasy, 2)
	db.addWords(domain.TierMedium, 2)
	db.addWords(domain.TierHard, 1)
	quizErr := errors.New("quiz store down")
	quizzes := &mockQuizzes{quizForFn: func(context.Context, *domain.Word, domain.Tier) (domain.Quiz, error) {
		return domain.Quiz{}, quizErr
	}}
	svc := NewService(discard(), db.wordRepo(), db.assignmentRepo(), allEligible(), noScorer(t), quizzes, mockTx{}, Config{
		WordsPerDay: 5, Distribution: defaultDistribution, LookbackMonths: 6, PoolLimit: 10, Seed: 1,
	})

	_, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	assert.ErrorIs(t, err, quizErr)
	assert.Empty(t, db.assignments)
}

func TestAssignForRange_PagesPastShallowTier(t *testing.T) {
	t.Parallel()
	db := newFakeDB()
	db.addWords(domain.TierEasy, 3)
	db.addWords(domain.TierHard, 4)
	recent := db.words[len(db.words)-1]
	earlier := day1.AddDate(0, 0, -10)
	db.assignments[key(earlier)] = []domain.DailyAssignment{{Date: earlier, Tier: domain.TierHard, WordID: recent.ID}}

	words := db.wordRepo()
	words.listLeastRecentlyAssignedFn = func(context.Context, time.Time, int) ([]domain.WordWithUsage, error) {
		t.Error("fallback should not be loaded while fresh words remain")
		return nil, nil
	}
	svc := NewService(discard(), words, db.assignmentRepo(), allEligible(), noScorer(t), fourOptionQuiz(), mockTx{}, Config{
		WordsPerDay:    4,
		Distribution:   domain.Distribution{domain.TierEasy: 0.5, domain.TierHard: 0.5},
		LookbackMonths: 6,
		PoolLimit:      3,
		Seed:           11,
	})

	res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	require.NoError(t, err)
	assert.Equal(t, 4, res.AssignedCount)

	rows := res.Days[0].Assignments
	assert.Equal(t, map[domain.Tier]int{domain.TierEasy: 2, domain.TierHard: 2}, countByTier(rows))
	for _, r := range rows {
		assert.NotEqual(t, recent.ID, r.WordID, "recently assigned word reused")
	}
}

func TestAssignForRange_PagingWrapsAround(t *testing.T) {
	t.Parallel()
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		db := newFakeDB()
		db.addWords(domain.TierMedium, 5)

		svc := NewService(discard(), db.wordRepo(), db.assignmentRepo(), allEligible(), noScorer(t), fourOptionQuiz(), mockTx{}, Config{
			WordsPerDay:    5,
			Distribution:   domain.Distribution{domain.TierMedium: 1},
			LookbackMonths: 6,
			PoolLimit:      2,
			Seed:           seed,
		})

		res, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
		require.NoError(t, err, "seed %d", seed)

		ids := map[int64]bool{}
		for _, r := range res.Days[0].Assignments {
			ids[r.WordID] = true
		}
		assert.Len(t, ids, 5, "seed %d", seed)
		for _, span := range db.pages {
			assert.LessOrEqual(t, span.Start, span.End, "seed %d: empty page requested", seed)
		}
	}
}

func TestAssignForRange_EmptyStore(t *testing.T) {
	t.Parallel()
	db := newFakeDB()
	svc := newTestService(t, db)

	_, err := svc.AssignForRange(context.Background(), Request{StartDate: day1, EndDate: day1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPool)
	assert.Empty(t, db.pages)
}
