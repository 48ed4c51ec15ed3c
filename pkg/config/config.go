// Package config loads moodlog settings from defaults, an optional YAML file
// and MOODLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/unowned-ai/moodlog/pkg/insights"
	"github.com/unowned-ai/moodlog/pkg/utils"
)

// Config is the full moodlog configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" json:"database"`
	AI       AIConfig       `koanf:"ai" json:"ai"`
	Log      LogConfig      `koanf:"log" json:"log"`
	Pipeline PipelineConfig `koanf:"pipeline" json:"pipeline"`
}

type DatabaseConfig struct {
	Path        string        `koanf:"path" json:"path"`
	WAL         bool          `koanf:"wal" json:"wal"`
	Sync        string        `koanf:"sync" json:"sync"`
	BusyTimeout time.Duration `koanf:"busy_timeout" json:"busy_timeout"`
}

// AIConfig configures the insight provider. Without an API key summaries
// use fallback insights only.
type AIConfig struct {
	APIKey            Secret        `koanf:"api_key" json:"api_key"`
	BaseURL           string        `koanf:"base_url" json:"base_url"`
	Model             string        `koanf:"model" json:"model"`
	Timeout           time.Duration `koanf:"timeout" json:"timeout"`
	Temperature       float64       `koanf:"temperature" json:"temperature"`
	TopK              int           `koanf:"top_k" json:"top_k"`
	TopP              float64       `koanf:"top_p" json:"top_p"`
	MaxOutputTokens   int           `koanf:"max_output_tokens" json:"max_output_tokens"`
	RequestsPerMinute int           `koanf:"requests_per_minute" json:"requests_per_minute"`
}

type LogConfig struct {
	Level      string `koanf:"level" json:"level"`
	Format     string `koanf:"format" json:"format"` // json or console
	File       string `koanf:"file" json:"file"`     // optional rotated log file, in addition to stderr
	MaxSizeMB  int    `koanf:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" json:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" json:"max_age_days"`
}

type PipelineConfig struct {
	Concurrency int `koanf:"concurrency" json:"concurrency"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	ai := insights.DefaultConfig()
	return Config{
		Database: DatabaseConfig{
			Path:        utils.GetDefaultDBPathOnly(),
			WAL:         false,
			Sync:        "FULL",
			BusyTimeout: 5 * time.Second,
		},
		AI: AIConfig{
			BaseURL:         ai.BaseURL,
			Model:           ai.Model,
			Timeout:         ai.Timeout,
			Temperature:     ai.Temperature,
			TopK:            ai.TopK,
			TopP:            ai.TopP,
			MaxOutputTokens: ai.MaxOutputTokens,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Pipeline: PipelineConfig{
			Concurrency: 4,
		},
	}
}

// Insights converts the AI section into the generator's configuration.
func (a AIConfig) Insights() insights.Config {
	return insights.Config{
		APIKey:            a.APIKey.Value(),
		BaseURL:           a.BaseURL,
		Model:             a.Model,
		Timeout:           a.Timeout,
		Temperature:       a.Temperature,
		TopK:              a.TopK,
		TopP:              a.TopP,
		MaxOutputTokens:   a.MaxOutputTokens,
		RequestsPerMinute: a.RequestsPerMinute,
	}
}

var validSyncModes = []string{"OFF", "NORMAL", "FULL", "EXTRA"}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if !contains(validSyncModes, strings.ToUpper(c.Database.Sync)) {
		errs = append(errs, fmt.Errorf("database.sync must be one of %s, got %q", strings.Join(validSyncModes, ", "), c.Database.Sync))
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, errors.New("database.busy_timeout must not be negative"))
	}

	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("ai.timeout must be positive"))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai.temperature must be between 0 and 2, got %g", c.AI.Temperature))
	}
	if c.AI.TopP < 0 || c.AI.TopP > 1 {
		errs = append(errs, fmt.Errorf("ai.top_p must be between 0 and 1, got %g", c.AI.TopP))
	}
	if c.AI.TopK < 0 {
		errs = append(errs, errors.New("ai.top_k must not be negative"))
	}
	if c.AI.MaxOutputTokens < 0 {
		errs = append(errs, errors.New("ai.max_output_tokens must not be negative"))
	}
	if c.AI.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("ai.requests_per_minute must not be negative"))
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	if c.Pipeline.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("pipeline.concurrency must be at least 1, got %d", c.Pipeline.Concurrency))
	}

	return errors.Join(errs...)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
