package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	w := SeedWord(t, pool, domain.Word{Senses: []domain.Sense{{Definition: "a test sense"}}})

	var text string
	err := pool.QueryRow(context.Background(), `SELECT text FROM words WHERE id = $1`, w.ID).Scan(&text)
	if err != nil {
		t.Fatalf("expected word in DB, got error: %v", err)
	}
	if text != w.Text {
		t.Fatalf("expected text %q, got %q", w.Text, text)
	}
}

func TestUniqueWord_LettersOnly(t *testing.T) {
	t.Parallel()

	a, b := UniqueWord("x"), UniqueWord("x")
	if a == b {
		t.Fatalf("UniqueWord returned %q twice", a)
	}
	for _, r := range a {
		if r < 'a' || r > 'z' {
			t.Fatalf("UniqueWord(%q) contains %q", a, r)
		}
	}
}
