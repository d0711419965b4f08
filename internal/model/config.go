package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete analyzer configuration. It is validated once, at
// analyzer construction, via Normalize; the pipeline itself never re-checks
// it.
type Config struct {
	// Categories is the declared category order of the report. When empty,
	// categories are derived from the Keywords map (sorted by name) and
	// empty categories are omitted from the result.
	Categories []string `yaml:"categories"`

	// Keywords maps each category to its tagging keywords, matched as
	// case-insensitive substrings. A nil map selects the built-in tables;
	// an empty map disables tagging entirely.
	Keywords map[string][]string `yaml:"keywords"`

	// RiskScores maps trigger phrases to point values for the risk scorer.
	// Nil selects the built-in table.
	RiskScores map[string]int `yaml:"risk_scores"`

	Selection   SelectionConfig   `yaml:"selection"`
	LLM         LLMConfig         `yaml:"llm"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
}

// SelectionConfig picks the per-category clause selection policy.
type SelectionConfig struct {
	// Policy is "adaptive" (cap scales with hit count, ceiling 7) or
	// "fixed" (cap is MaxBullets).
	Policy string `yaml:"policy"`

	// MaxBullets is the fixed-policy cap. The original application exposed
	// this as a 3..10 slider defaulting to 6.
	MaxBullets int `yaml:"max_bullets"`
}

// LLMConfig configures the optional summarization provider.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// HTTPConfig configures URL ingestion.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// CacheConfig configures the fetched-document cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// StoreConfig configures the analysis history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig throttles batch URL fetching per domain.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the standard configuration: the built-in keyword and
// risk tables, the "Software ToS" category set, and the adaptive selection
// policy.
func DefaultConfig() *Config {
	return &Config{
		Categories: DefaultCategories(),
		Keywords:   DefaultKeywords(),
		RiskScores: DefaultRiskScores(),
		Selection: SelectionConfig{
			Policy:     "adaptive",
			MaxBullets: 6,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 300,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "tca/0.5 (+https://github.com/f11-ff/terms-and-conditions-analyzer)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultHomePath(".tca", "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    defaultHomePath(".tca", "analyses.db"),
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// Normalize fills zero values with defaults and repairs inconsistent
// settings. Nil keyword/score maps select the built-in tables; non-nil empty
// maps are honored as genuinely empty configurations.
func (c *Config) Normalize() {
	if c.Keywords == nil {
		c.Keywords = DefaultKeywords()
	}
	if c.RiskScores == nil {
		c.RiskScores = DefaultRiskScores()
	}
	if c.Selection.Policy == "" {
		c.Selection.Policy = "adaptive"
	}
	if c.Selection.MaxBullets <= 0 {
		c.Selection.MaxBullets = 6
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 300
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 2_000_000
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 4
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 2
	}
	if c.RateLimit.BurstSize <= 0 {
		c.RateLimit.BurstSize = 5
	}
}

// LoadConfigFile reads a YAML configuration file over the defaults.
// Omitted sections keep their default values; keyword and score maps in
// the file are merged over the built-in tables (use a keyword file to
// replace a table wholesale).
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// KeywordFile is the on-disk shape of a custom keyword/score table, loadable
// with LoadKeywordFile. Any omitted section keeps its built-in default.
type KeywordFile struct {
	Categories []string            `yaml:"categories"`
	Keywords   map[string][]string `yaml:"keywords"`
	RiskScores map[string]int      `yaml:"risk_scores"`
}

// LoadKeywordFile reads a YAML keyword table and applies it onto cfg.
func LoadKeywordFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read keyword file: %w", err)
	}

	var kf KeywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("parse keyword file: %w", err)
	}

	if len(kf.Categories) > 0 {
		cfg.Categories = kf.Categories
	}
	if kf.Keywords != nil {
		cfg.Keywords = kf.Keywords
	}
	if kf.RiskScores != nil {
		cfg.RiskScores = kf.RiskScores
	}
	return nil
}

func defaultHomePath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, parts...)...)
}
