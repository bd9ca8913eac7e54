package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 4
  min_conns: 1

log:
  level: "debug"
  format: "text"

cache:
  redis_url: "redis://localhost:6379/0"
  ttl: "1h"

association:
  base_url: "http://localhost:9999"
  timeout: "3s"
  rate_interval: "250ms"
  max_retries: 1

scoring:
  weight_frequency: 2
  weight_semantic: 1
  weight_structural: 1
  weight_domain: 0
  max_expected_frequency: 10

eligibility:
  frequency_check: true
  common_threshold: 0.8

batch:
  size: 50
  delay: "2s"

assignment:
  words_per_day: 6
  distribution: "easy:0.5, medium:0.3, hard:0.2"
  lookback_months: 3

scheduler:
  cron: "30 1 * * *"
  days_ahead: 14
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("database.max_conns = %d, want 4", cfg.Database.MaxConns)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Cache
	if !cfg.Cache.Enabled() {
		t.Error("cache should be enabled")
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache.ttl = %v, want 1h", cfg.Cache.TTL)
	}

	// Association
	if cfg.Association.RateInterval != 250*time.Millisecond {
		t.Errorf("association.rate_interval = %v", cfg.Association.RateInterval)
	}
	if !cfg.Association.Enabled {
		t.Error("association.enabled should default to true")
	}

	// Scoring weights are normalised.
	if cfg.Scoring.WeightFrequency != 0.5 || cfg.Scoring.WeightSemantic != 0.25 || cfg.Scoring.WeightDomain != 0 {
		t.Errorf("scoring weights = %+v", cfg.Scoring)
	}
	if cfg.Scoring.FrequencyFloor != 0.05 {
		t.Errorf("scoring.frequency_floor = %v, want default 0.05", cfg.Scoring.FrequencyFloor)
	}

	// Batch
	if cfg.Batch.Size != 50 || cfg.Batch.Delay != 2*time.Second {
		t.Errorf("batch = %+v", cfg.Batch)
	}
	if cfg.Batch.StateName != "difficulty_scoring" {
		t.Errorf("batch.state_name = %q", cfg.Batch.StateName)
	}

	// Assignment
	if cfg.Assignment.WordsPerDay != 6 {
		t.Errorf("assignment.words_per_day = %d", cfg.Assignment.WordsPerDay)
	}
	if got := cfg.Assignment.Distribution[domain.TierEasy]; got != 0.5 {
		t.Errorf("distribution[easy] = %v, want 0.5", got)
	}

	// Scheduler
	if cfg.Scheduler.Cron != "30 1 * * *" || cfg.Scheduler.DaysAhead != 14 {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Batch.Size != 25 {
		t.Errorf("batch.size = %d, want 25 (ENV override)", cfg.Batch.Size)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Batch.Size != 100 {
		t.Errorf("batch.size = %d, want 100 (default)", cfg.Batch.Size)
	}
	if cfg.Batch.Delay != 5*time.Second {
		t.Errorf("batch.delay = %v, want 5s (default)", cfg.Batch.Delay)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled by default")
	}
	if cfg.Assignment.WordsPerDay != 5 {
		t.Errorf("assignment.words_per_day = %d, want 5", cfg.Assignment.WordsPerDay)
	}
	if len(cfg.Assignment.Distribution) != 3 {
		t.Errorf("default distribution = %v", cfg.Assignment.Distribution)
	}
	sum := cfg.Scoring.WeightFrequency + cfg.Scoring.WeightSemantic + cfg.Scoring.WeightStructural + cfg.Scoring.WeightDomain
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("default weights sum = %v, want 1", sum)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Scoring.WeightSemantic = -0.1 }},
		{"all weights zero", func(c *Config) {
			c.Scoring.WeightFrequency, c.Scoring.WeightSemantic, c.Scoring.WeightStructural, c.Scoring.WeightDomain = 0, 0, 0, 0
		}},
		{"zero max expected frequency", func(c *Config) { c.Scoring.MaxExpectedFrequency = 0 }},
		{"floor of one", func(c *Config) { c.Scoring.FrequencyFloor = 1 }},
		{"common threshold zero", func(c *Config) { c.Eligibility.CommonThreshold = 0 }},
		{"batch size zero", func(c *Config) { c.Batch.Size = 0 }},
		{"negative delay", func(c *Config) { c.Batch.Delay = -time.Second }},
		{"negative retries", func(c *Config) { c.Association.MaxRetries = -1 }},
		{"words per day zero", func(c *Config) { c.Assignment.WordsPerDay = 0 }},
		{"distribution off by a lot", func(c *Config) { c.Assignment.DistributionRaw = "easy:0.5,hard:0.2" }},
		{"distractor count zero", func(c *Config) { c.Assignment.DistractorCount = 0 }},
		{"days ahead zero", func(c *Config) { c.Scheduler.DaysAhead = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assignment.Distribution[domain.TierHard] != 0.2 {
		t.Errorf("distribution not parsed: %v", cfg.Assignment.Distribution)
	}
}

func TestParseDistribution(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
		want    map[domain.Tier]float64
	}{
		{raw: "easy:0.4,medium:0.4,hard:0.2", want: map[domain.Tier]float64{domain.TierEasy: 0.4, domain.TierMedium: 0.4, domain.TierHard: 0.2}},
		{raw: "low:0.5,high:0.5", want: map[domain.Tier]float64{domain.TierEasy: 0.5, domain.TierHard: 0.5}},
		{raw: "hard:1", want: map[domain.Tier]float64{domain.TierHard: 1}},
		{raw: "", wantErr: true},
		{raw: "easy=0.5,hard=0.5", wantErr: true},
		{raw: "easy:0.5,extreme:0.5", wantErr: true},
		{raw: "easy:0.5,easy:0.5", wantErr: true},
		{raw: "easy:abc", wantErr: true},
		{raw: "easy:-0.5,hard:1.5", wantErr: true},
		{raw: "easy:0.3,medium:0.3,hard:0.3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDistribution(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDistribution(%q) expected error, got %v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDistribution(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseDistribution(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for tier, share := range tt.want {
			if got[tier] != share {
				t.Errorf("ParseDistribution(%q)[%s] = %v, want %v", tt.raw, tier, got[tier], share)
			}
		}
	}
}

func TestParseDistribution_Tolerance(t *testing.T) {
	if _, err := ParseDistribution("easy:0.1,easy2:0.2"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
	got, err := ParseDistribution("low:0.30000000000000004,high:0.7")
	if err != nil {
		t.Fatalf("floating point noise rejected: %v", err)
	}
	if got[domain.TierEasy] == 0 || got[domain.TierHard] != 0.7 {
		t.Errorf("aliases not mapped: %v", got)
	}
}

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: "postgres://u:p@localhost:5432/testdb"},
		Log:      LogConfig{Level: "info", Format: "json"},
		Association: AssociationConfig{
			Enabled:      true,
			BaseURL:      "https://api.datamuse.com",
			Timeout:      10 * time.Second,
			RateInterval: time.Second,
			MaxRetries:   2,
		},
		Scoring: ScoringConfig{
			WeightFrequency:      0.45,
			WeightSemantic:       0.20,
			WeightStructural:     0.20,
			WeightDomain:         0.15,
			MaxExpectedFrequency: 8,
			FrequencyExponent:    0.5,
			FrequencyFloor:       0.05,
		},
		Eligibility: EligibilityConfig{CommonThreshold: 0.9},
		Batch:       BatchConfig{Size: 100, Delay: 5 * time.Second, StateName: "difficulty_scoring"},
		Assignment: AssignmentConfig{
			WordsPerDay:         5,
			DistributionRaw:     "easy:0.4,medium:0.4,hard:0.2",
			LookbackMonths:      6,
			PoolLimit:           5000,
			DistractorCount:     3,
			SimilarityThreshold: 0.35,
		},
		Scheduler: SchedulerConfig{Cron: "0 2 * * *", DaysAhead: 7},
	}
}
