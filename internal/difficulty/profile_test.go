package difficulty

import "testing"

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	p, err := LoadProfile("testdata/profile.yaml")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if v, ok := p.Value("LOGIC"); !ok || v != 0.7 {
		t.Errorf("Value(LOGIC) = %v, %v; want 0.7, true", v, ok)
	}
	if _, ok := p.Value("chemistry"); ok {
		t.Error("loaded profile should not inherit defaults")
	}
	if p.Weights == nil || p.Weights.Frequency != 5 {
		t.Errorf("Weights = %+v", p.Weights)
	}
}

func TestLoadProfile_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadProfile("testdata/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadProfile("testdata/bad_profile.yaml"); err == nil {
		t.Error("expected error for out-of-range domain value")
	}
}

func TestIsTechnical(t *testing.T) {
	t.Parallel()

	tags := map[string]bool{
		"":          false,
		"general":   false,
		" General ": false,
		"everyday":  false,
		"informal":  false,
		"Archaic":   false,
		"literary":  false,
		"logic":     true,
		"made-up":   true,
	}
	for tag, want := range tags {
		if got := IsTechnical(tag); got != want {
			t.Errorf("IsTechnical(%q) = %v, want %v", tag, got, want)
		}
	}
}
