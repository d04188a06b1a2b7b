package warden

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/afs"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/gate"
	"github.com/viant/warden/service/hook"
	"github.com/viant/warden/service/template"
)

// Config aggregates every tunable of the engine. Loading precedence is
// environment variables, then the config file, then defaults.
type Config struct {
	Storage        StorageConfig         `json:"storage" yaml:"storage"`
	Review         ReviewConfig          `json:"review" yaml:"review"`
	CircuitBreaker session.BreakerConfig `json:"circuit_breaker" yaml:"circuit_breaker"`
	Cleanup        CleanupConfig         `json:"cleanup" yaml:"cleanup"`
	Templates      template.Config       `json:"templates" yaml:"templates"`
	Trace          session.TraceConfig   `json:"trace" yaml:"trace"`
}

// StorageConfig locates the engine home directory.
type StorageConfig struct {
	// Path is the engine home; session records live under <path>/sessions.
	Path string `json:"path" yaml:"path"`
}

// ReviewConfig controls when review is owed.
type ReviewConfig struct {
	// Mode is always, prompt or never.
	Mode string `json:"mode" yaml:"mode"`

	// TriggerPrefix marks review-triggering prompts in prompt mode.
	TriggerPrefix string `json:"trigger_prefix" yaml:"trigger_prefix"`

	// ReviewerAgent is the subagent type expected to post decisions.
	ReviewerAgent string `json:"reviewer_agent" yaml:"reviewer_agent"`

	Gates gate.Config `json:"gates" yaml:"gates"`
}

// CleanupConfig bounds session retention.
type CleanupConfig struct {
	RetentionDays int `json:"retention_days" yaml:"retention_days"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Path: DefaultHome()},
		Review: ReviewConfig{
			Mode:          hook.ModePrompt,
			TriggerPrefix: hook.DefaultTriggerPrefix,
			ReviewerAgent: hook.DefaultReviewerAgent,
			Gates:         gate.DefaultConfig(),
		},
		CircuitBreaker: session.DefaultBreakerConfig(),
		Cleanup:        CleanupConfig{RetentionDays: 7},
		Templates:      template.DefaultConfig(),
		Trace:          session.DefaultTraceConfig(),
	}
}

// DefaultHome returns the default engine home directory.
func DefaultHome() string {
	if home := os.Getenv("WARDEN_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".warden"
	}
	return filepath.Join(home, ".warden")
}

// Hook converts the aggregate configuration into the hook service view.
func (c Config) Hook() hook.Config {
	return hook.Config{
		Mode:          c.Review.Mode,
		TriggerPrefix: c.Review.TriggerPrefix,
		ReviewerAgent: c.Review.ReviewerAgent,
		Gates:         c.Review.Gates,
		Breaker:       c.CircuitBreaker,
		Trace:         c.Trace,
		Templates:     c.Templates,
	}
}

// LoadConfig reads configuration from the config file, if present, and
// applies environment overrides. A missing file is not an error.
func LoadConfig(ctx context.Context) (Config, error) {
	config := DefaultConfig()

	location := configLocation()
	fs := afs.New()
	if ok, _ := fs.Exists(ctx, location); ok {
		data, err := fs.DownloadWithURL(ctx, location)
		if err != nil {
			return config, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, err
		}
	}

	applyEnvOverrides(&config)
	return config, nil
}

func configLocation() string {
	if path := os.Getenv("WARDEN_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(DefaultHome(), "config.yaml")
}

func applyEnvOverrides(config *Config) {
	if path := os.Getenv("WARDEN_STORAGE_PATH"); path != "" {
		config.Storage.Path = path
	} else if home := os.Getenv("WARDEN_HOME"); home != "" {
		config.Storage.Path = home
	}
	if value, ok := envInt("WARDEN_MAX_BLOCKS"); ok {
		config.CircuitBreaker.MaxBlocks = value
	}
	if value, ok := envInt("WARDEN_COOLDOWN_SECONDS"); ok {
		config.CircuitBreaker.CooldownSeconds = value
	}
	if mode := os.Getenv("WARDEN_REVIEW_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case hook.ModeAlways:
			config.Review.Mode = hook.ModeAlways
		case hook.ModeNever:
			config.Review.Mode = hook.ModeNever
		default:
			config.Review.Mode = hook.ModePrompt
		}
	}
	if value, ok := envInt("WARDEN_MAX_EVENTS"); ok {
		config.Trace.MaxEvents = value
	}
	if value, ok := envInt("WARDEN_RETENTION_DAYS"); ok {
		config.Cleanup.RetentionDays = value
	}
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
