// Package config loads the surfwatch YAML configuration. A missing file
// means defaults; invalid YAML is an error. No secret material lives
// here.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"surfwatch/internal/alert"
	"surfwatch/internal/decide"
	"surfwatch/internal/model"
)

// SessionConfig bounds the in-memory tab lineage tracker.
type SessionConfig struct {
	MaxAgeMinutes   int `yaml:"max_age_minutes"`
	MaxEventsPerTab int `yaml:"max_events_per_tab"`
}

// RetentionConfig governs TTL-based pruning of stored events and
// domain aggregates. Pinned domains are never pruned regardless.
type RetentionConfig struct {
	EventTTLHours      int `yaml:"event_ttl_hours"`
	DomainTTLDays      int `yaml:"domain_ttl_days"`
	MinIntervalMinutes int `yaml:"min_interval_minutes"`
}

// RateLimitConfig throttles the ingest endpoints per client address.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// Config holds all configurable parameters.
type Config struct {
	Listen     string            `yaml:"listen"`
	DBPath     string            `yaml:"db_path"`
	AuditLog   string            `yaml:"audit_log"`
	Thresholds decide.Thresholds `yaml:"thresholds"`
	Precedence []string          `yaml:"level_precedence"`
	KnownIdPs  []string          `yaml:"known_idp_hosts"`
	Session    SessionConfig     `yaml:"session"`
	Retention  RetentionConfig   `yaml:"retention"`
	RateLimit  RateLimitConfig   `yaml:"rate_limit"`
	QueueDepth int               `yaml:"queue_depth"`

	// Webhooks receive a POST whenever a domain's recommendation changes
	// into one of their subscribed states.
	Webhooks []alert.WebhookConfig `yaml:"webhooks"`
}

// DefaultDir returns ~/.surfwatch, or "." when no home is known.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".surfwatch")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		Listen:     "127.0.0.1:8710",
		DBPath:     filepath.Join(dir, "surfwatch.db"),
		AuditLog:   filepath.Join(dir, "decisions.jsonl"),
		Thresholds: decide.DefaultThresholds(),
		Precedence: []string{"TRANSACTION", "UGC", "ACCOUNT"},
		Session: SessionConfig{
			MaxAgeMinutes:   30,
			MaxEventsPerTab: 50,
		},
		Retention: RetentionConfig{
			EventTTLHours:      72,
			DomainTTLDays:      90,
			MinIntervalMinutes: 60,
		},
		RateLimit: RateLimitConfig{
			PerSecond: 25,
			Burst:     50,
		},
		QueueDepth: 128,
	}
}

// Load reads configuration from a YAML file. Empty path falls back to
// ~/.surfwatch/config.yaml. Missing file returns defaults. Invalid YAML
// returns an error.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash loads configuration and returns the SHA-256 of the raw
// YAML bytes. When defaults are used, the hash is over empty input.
func LoadWithHash(path string) (*Config, string, error) {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return Default(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults; YAML overwrites only specified fields.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, hash, nil
}

// PrecedenceLevels converts the configured level names into the
// classifier's evaluation order. Unknown names are skipped; an empty or
// fully invalid list falls back to the default order.
func (c *Config) PrecedenceLevels() []model.ActivityLevel {
	var out []model.ActivityLevel
	for _, name := range c.Precedence {
		l := model.ParseLevel(name)
		if l == model.LevelView && name != "VIEW" {
			continue
		}
		if l == model.LevelView {
			continue // VIEW is always the implicit last resort
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SessionMaxAge returns the session TTL as a duration.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeMinutes) * time.Minute
}

// EventTTL returns the journal retention window.
func (c *Config) EventTTL() time.Duration {
	return time.Duration(c.Retention.EventTTLHours) * time.Hour
}

// DomainTTL returns the domain-aggregate retention window.
func (c *Config) DomainTTL() time.Duration {
	return time.Duration(c.Retention.DomainTTLDays) * 24 * time.Hour
}

// CleanupMinInterval returns the minimum spacing between unforced
// cleanup runs.
func (c *Config) CleanupMinInterval() time.Duration {
	return time.Duration(c.Retention.MinIntervalMinutes) * time.Minute
}

// DefaultYAML returns a commented YAML string for init-config.
func DefaultYAML() string {
	return `# surfwatch configuration
# Generated by: surfwatch init-config

# HTTP listen address for the ingest/query API.
listen: "127.0.0.1:8710"

# SQLite database holding per-domain state, risk records, overrides,
# and the raw event journal. Defaults to ~/.surfwatch/surfwatch.db.
# db_path: "/var/lib/surfwatch/surfwatch.db"

# Hash-chained JSONL log of management decisions.
# Defaults to ~/.surfwatch/decisions.jsonl.
# audit_log: "/var/log/surfwatch/decisions.jsonl"

# Decision thresholds.
#   suggest_confidence: minimum confidence for SUGGESTED
#   review_confidence:  minimum confidence for NEEDS_REVIEW on non-VIEW
#   suggest_score_min:  score gate for ACCOUNT promotion without a
#                       detected federation relationship
#   frequency_review:   visit count above which any domain merits review
thresholds:
  suggest_confidence: 0.8
  review_confidence: 0.6
  suggest_score_min: 20
  frequency_review: 50

# Level evaluation order, highest severity first. VIEW is always the
# implicit last resort. Reorder to change how pages matching several
# categories at once are classified.
level_precedence: [TRANSACTION, UGC, ACCOUNT]

# Extra identity-provider hostname suffixes beyond the built-in registry
# (deployment-specific SSO portals).
known_idp_hosts: []

# In-memory tab lineage tracker.
session:
  max_age_minutes: 30
  max_events_per_tab: 50

# TTL-based pruning. Pinned domains are never pruned.
retention:
  event_ttl_hours: 72
  domain_ttl_days: 90
  min_interval_minutes: 60

# Per-client rate limit on the ingest endpoints.
rate_limit:
  per_second: 25
  burst: 50

# Webhook notifications. Each entry fires when a domain's recommendation
# changes into one of the listed states. Format is "generic" or "slack".
# webhooks:
#   - url: "https://hooks.example.com/surfwatch"
#     format: generic
#     states: [suggested, needs_review]
#     timeout_seconds: 5
#     max_attempts: 3
`
}
