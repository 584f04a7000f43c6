// Package config provides configuration management for the corpus tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingCorpusRoot        = errors.New("corpus.root is required")
	ErrInvalidOutputFormat      = errors.New("output.format must be 'json' or 'jsonl'")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidRateLimit         = errors.New("ingest.rate_limit must be positive")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidMaxTitleLength    = errors.New("corpus.max_title_length must be non-negative")
)

// Config represents the complete corpus tool configuration.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Features FeaturesConfig `yaml:"features"`
}

// CorpusConfig contains settings for reading and checking the knowledge base.
type CorpusConfig struct {
	Root           string        `yaml:"root"`
	Separator      string        `yaml:"separator"`
	Output         OutputConfig  `yaml:"output"`
	Lint           LintConfig    `yaml:"lint"`
	Logging        LoggingConfig `yaml:"logging"`
	MaxTitleLength int           `yaml:"max_title_length"`
}

// OutputConfig defines index export behavior.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// LintConfig defines which lint rules run and their patterns.
type LintConfig struct {
	Patterns          PatternsConfig `yaml:"patterns"`
	RequireSourceLine bool           `yaml:"require_source_line"`
	RequireByline     bool           `yaml:"require_byline"`
	RequireTags       bool           `yaml:"require_tags"`
	CheckImages       bool           `yaml:"check_images"`
	CheckHeadings     bool           `yaml:"check_headings"`
	CheckSeparators   bool           `yaml:"check_separators"`
}

// PatternsConfig defines regex patterns for lint checks.
type PatternsConfig struct {
	Date   string `yaml:"date"`
	Byline string `yaml:"byline"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	ShowProgress bool   `yaml:"show_progress"`
}

// IngestConfig contains settings for fetching articles into the corpus.
type IngestConfig struct {
	BaseURL   string      `yaml:"base_url"`
	UserAgent string      `yaml:"user_agent"`
	RateLimit float64     `yaml:"rate_limit"`
	Retry     RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior for remote fetches.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// FeaturesConfig contains feature flags.
type FeaturesConfig struct {
	EnableFormatter bool `yaml:"enable_formatter"`
	SignAfterFormat bool `yaml:"sign_after_format"`
	StrictLint      bool `yaml:"strict_lint"`
}

// DefaultConfig returns a configuration with working defaults for a corpus
// rooted at the conventional knowledge-base path.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root: "knowledge/uiux/ux_research/nngroup",
			Output: OutputConfig{
				Path:        "index.json",
				Format:      "json",
				PrettyPrint: true,
			},
			Lint: LintConfig{
				RequireSourceLine: true,
				RequireByline:     true,
				RequireTags:       true,
				CheckImages:       true,
				CheckHeadings:     true,
				CheckSeparators:   true,
			},
			Logging: LoggingConfig{
				Level:        "info",
				ShowProgress: true,
			},
			MaxTitleLength: 160,
		},
		Ingest: IngestConfig{
			BaseURL:   "https://www.nngroup.com",
			UserAgent: "nngkb-ingest/1.0",
			RateLimit: 0.5,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Features: FeaturesConfig{
			EnableFormatter: true,
			SignAfterFormat: true,
		},
	}
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return ErrMissingCorpusRoot
	}

	if c.Corpus.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.Corpus.Output.Format != "json" && c.Corpus.Output.Format != "jsonl" {
		return ErrInvalidOutputFormat
	}

	if c.Corpus.MaxTitleLength < 0 {
		return ErrInvalidMaxTitleLength
	}

	// Validate retry policy
	if c.Ingest.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Ingest.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Ingest.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Ingest.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Ingest.RateLimit <= 0 {
		return ErrInvalidRateLimit
	}

	// Validate regex patterns
	patterns := map[string]string{
		"date":   c.Corpus.Lint.Patterns.Date,
		"byline": c.Corpus.Lint.Patterns.Byline,
	}

	for name, pattern := range patterns {
		if pattern != "" {
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("lint.patterns.%s is invalid regex: %w", name, err)
			}
		}
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Corpus.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Root: %s, Output: %s, StrictLint: %v}",
		c.Corpus.Root,
		c.Corpus.Output.Path,
		c.Features.StrictLint,
	)
}
