package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete pipeline configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Wikimedia   WikimediaConfig   `yaml:"wikimedia" mapstructure:"wikimedia"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig controls the layered HTTP response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// PathsConfig locates the persistent artifacts the stages hand off through
type PathsConfig struct {
	CatalogDB   string `yaml:"catalog_db" mapstructure:"catalog_db"`
	BooksDir    string `yaml:"books_dir" mapstructure:"books_dir"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	CatalogFeed string `yaml:"catalog_feed" mapstructure:"catalog_feed"` // pg_catalog.csv
}

// WikimediaConfig carries the Wikimedia API credentials.
// Loaded from WIKIMEDIA_ACCESS_TOKEN, WIKIMEDIA_APP_NAME, WIKIMEDIA_EMAIL.
type WikimediaConfig struct {
	AccessToken string `yaml:"-" mapstructure:"-"`
	AppName     string `yaml:"app_name" mapstructure:"app_name"`
	Email       string `yaml:"email" mapstructure:"email"`
}

// UserAgent builds the User-Agent header the Wikimedia API policy asks for.
func (w WikimediaConfig) UserAgent() string {
	return fmt.Sprintf("%s (%s)", w.AppName, w.Email)
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	MetadataWorkers  int `yaml:"metadata_workers" mapstructure:"metadata_workers"`
	SentimentWorkers int `yaml:"sentiment_workers" mapstructure:"sentiment_workers"`
}

// RateLimitConfig controls per-domain request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// AnalysisConfig parameterizes the statistical analysis.
// The defaults reproduce the WWI study: war years 1914-1918, decade bins,
// Savitzky-Golay smoothing with window 21 and polynomial order 2.
type AnalysisConfig struct {
	WarStart        int `yaml:"war_start" mapstructure:"war_start"`
	WarEnd          int `yaml:"war_end" mapstructure:"war_end"`
	BinWidth        int `yaml:"bin_width" mapstructure:"bin_width"`
	SmoothingWindow int `yaml:"smoothing_window" mapstructure:"smoothing_window"`
	SmoothingOrder  int `yaml:"smoothing_order" mapstructure:"smoothing_order"`
}

// LLMConfig configures the optional report summarizer
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls command output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "gutensent/0.1 (+https://github.com/ppiankov/gutensent)",
			MaxBodyBytes: 10_000_000,
			MaxRetries:   3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultHomePath("cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Paths: PathsConfig{
			CatalogDB:   defaultHomePath("catalog.db"),
			BooksDir:    "books",
			OutputDir:   "reports",
			CatalogFeed: "pg_catalog.csv",
		},
		Concurrency: ConcurrencyConfig{
			MetadataWorkers:  10,
			SentimentWorkers: 0, // 0 means runtime.NumCPU()
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1.0,
			Burst:             2,
		},
		Analysis: AnalysisConfig{
			WarStart:        1914,
			WarEnd:          1918,
			BinWidth:        10,
			SmoothingWindow: 21,
			SmoothingOrder:  2,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   60,
			MaxTokens: 1000,
		},
	}
}

// LoadConfig builds the effective configuration: defaults overlaid with
// whatever viper picked up from the config file and GUTENSENT_* env vars.
// Wikimedia and LLM credentials come from the environment only.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Wikimedia.AccessToken = os.Getenv("WIKIMEDIA_ACCESS_TOKEN")
	if v := os.Getenv("WIKIMEDIA_APP_NAME"); v != "" {
		cfg.Wikimedia.AppName = v
	}
	if v := os.Getenv("WIKIMEDIA_EMAIL"); v != "" {
		cfg.Wikimedia.Email = v
	}

	return cfg, nil
}

func defaultHomePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".gutensent", name)
}
