package config

import (
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Cache       CacheConfig       `yaml:"cache"`
	Association AssociationConfig `yaml:"association"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
	Batch       BatchConfig       `yaml:"batch"`
	Assignment  AssignmentConfig  `yaml:"assignment"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CacheConfig holds the optional redis cache for association lookups.
// An empty URL disables caching.
type CacheConfig struct {
	RedisURL  string        `yaml:"redis_url"  env:"CACHE_REDIS_URL"`
	TTL       time.Duration `yaml:"ttl"        env:"CACHE_TTL"        env-default:"168h"`
	KeyPrefix string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"wordpipe:"`
}

// Enabled reports whether a redis URL was configured.
func (c CacheConfig) Enabled() bool { return c.RedisURL != "" }

// AssociationConfig holds the external frequency/association service settings.
type AssociationConfig struct {
	Enabled      bool          `yaml:"enabled"       env:"ASSOCIATION_ENABLED"       env-default:"true"`
	BaseURL      string        `yaml:"base_url"      env:"ASSOCIATION_BASE_URL"      env-default:"https://api.datamuse.com"`
	Timeout      time.Duration `yaml:"timeout"       env:"ASSOCIATION_TIMEOUT"       env-default:"10s"`
	RateInterval time.Duration `yaml:"rate_interval" env:"ASSOCIATION_RATE_INTERVAL" env-default:"1s"`
	MaxRetries   int           `yaml:"max_retries"   env:"ASSOCIATION_MAX_RETRIES"   env-default:"2"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"ASSOCIATION_RETRY_BACKOFF" env-default:"500ms"`
}

// ScoringConfig holds the difficulty scorer parameters.
type ScoringConfig struct {
	WeightFrequency      float64 `yaml:"weight_frequency"       env:"SCORING_WEIGHT_FREQUENCY"       env-default:"0.45"`
	WeightSemantic       float64 `yaml:"weight_semantic"        env:"SCORING_WEIGHT_SEMANTIC"        env-default:"0.20"`
	WeightStructural     float64 `yaml:"weight_structural"      env:"SCORING_WEIGHT_STRUCTURAL"      env-default:"0.20"`
	WeightDomain         float64 `yaml:"weight_domain"          env:"SCORING_WEIGHT_DOMAIN"          env-default:"0.15"`
	MaxExpectedFrequency float64 `yaml:"max_expected_frequency" env:"SCORING_MAX_EXPECTED_FREQUENCY" env-default:"8"`
	FrequencyExponent    float64 `yaml:"frequency_exponent"     env:"SCORING_FREQUENCY_EXPONENT"     env-default:"0.5"`
	FrequencyFloor       float64 `yaml:"frequency_floor"        env:"SCORING_FREQUENCY_FLOOR"        env-default:"0.05"`
	ProfilePath          string  `yaml:"profile_path"           env:"SCORING_PROFILE_PATH"`
}

// EligibilityConfig holds the word quality filter settings.
type EligibilityConfig struct {
	FrequencyCheck  bool    `yaml:"frequency_check"  env:"ELIGIBILITY_FREQUENCY_CHECK"  env-default:"false"`
	CommonThreshold float64 `yaml:"common_threshold" env:"ELIGIBILITY_COMMON_THRESHOLD" env-default:"0.9"`
}

// BatchConfig holds the batch scoring settings.
type BatchConfig struct {
	Size      int           `yaml:"size"       env:"BATCH_SIZE"       env-default:"100"`
	Delay     time.Duration `yaml:"delay"      env:"BATCH_DELAY"      env-default:"5s"`
	StateName string        `yaml:"state_name" env:"BATCH_STATE_NAME" env-default:"difficulty_scoring"`
}

// AssignmentConfig holds the date assignment settings.
type AssignmentConfig struct {
	WordsPerDay         int     `yaml:"words_per_day"        env:"ASSIGNMENT_WORDS_PER_DAY"        env-default:"5"`
	DistributionRaw     string  `yaml:"distribution"         env:"ASSIGNMENT_DISTRIBUTION"         env-default:"easy:0.4,medium:0.4,hard:0.2"`
	LookbackMonths      int     `yaml:"lookback_months"      env:"ASSIGNMENT_LOOKBACK_MONTHS"      env-default:"6"`
	PoolLimit           int     `yaml:"pool_limit"           env:"ASSIGNMENT_POOL_LIMIT"           env-default:"5000"`
	DistractorCount     int     `yaml:"distractor_count"     env:"ASSIGNMENT_DISTRACTOR_COUNT"     env-default:"3"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" env:"ASSIGNMENT_SIMILARITY_THRESHOLD" env-default:"0.35"`
	Seed                int64   `yaml:"seed"                 env:"ASSIGNMENT_SEED"                 env-default:"0"`

	// Distribution is parsed from DistributionRaw during validation.
	Distribution domain.Distribution `yaml:"-" env:"-"`
}

// SchedulerConfig holds the daily assignment daemon settings.
type SchedulerConfig struct {
	Cron      string `yaml:"cron"       env:"SCHEDULER_CRON"       env-default:"0 2 * * *"`
	DaysAhead int    `yaml:"days_ahead" env:"SCHEDULER_DAYS_AHEAD" env-default:"7"`
}
