package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultMaxFramesPerAnalysis = 3000
	defaultFPS                  = 30
	defaultSummaryCacheTTL      = 24 * time.Hour
	defaultResultCacheSizeMB    = 64
	defaultResultCacheTTL       = 5 * time.Minute
	defaultGeminiModel          = "gemini-2.0-flash"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`

	// analysis
	AnalyzeRateLimitPerMin int     `toml:"analyze_rate_limit_per_min"`
	MaxFramesPerAnalysis   int     `toml:"max_frames_per_analysis"`
	DefaultFPS             float64 `toml:"default_fps"`
	// ReferenceMetricsPath optionally overrides the built in exercise thresholds.
	ReferenceMetricsPath string `toml:"reference_metrics_path"`

	// narrative summaries
	GeminiEnabled   bool          `toml:"gemini_enabled"`
	GeminiModel     string        `toml:"gemini_model"`
	SummaryCacheTTL time.Duration `toml:"summary_cache_ttl"`

	// in process cache of assessment results
	ResultCacheSizeMB int           `toml:"result_cache_size_mb"`
	ResultCacheTTL    time.Duration `toml:"result_cache_ttl"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the config of the given environment from a TOML file and fills
// in defaults for the analysis settings left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.MaxFramesPerAnalysis <= 0 {
		c.MaxFramesPerAnalysis = defaultMaxFramesPerAnalysis
	}
	if c.DefaultFPS <= 0 {
		c.DefaultFPS = defaultFPS
	}
	if c.GeminiModel == "" {
		c.GeminiModel = defaultGeminiModel
	}
	if c.SummaryCacheTTL <= 0 {
		c.SummaryCacheTTL = defaultSummaryCacheTTL
	}
	if c.ResultCacheSizeMB <= 0 {
		c.ResultCacheSizeMB = defaultResultCacheSizeMB
	}
	if c.ResultCacheTTL <= 0 {
		c.ResultCacheTTL = defaultResultCacheTTL
	}
}
