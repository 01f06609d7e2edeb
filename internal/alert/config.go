package alert

import "time"

// WebhookConfig defines a webhook alert destination.
type WebhookConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic" or "slack"
	States  []string          `yaml:"states"  json:"states"` // ["suggested", "needs_review"]
	Headers map[string]string `yaml:"headers" json:"headers"`

	// TimeoutSeconds bounds one delivery attempt; MaxAttempts bounds how
	// often a failed delivery is retried. Zero means the default.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
	MaxAttempts    int `yaml:"max_attempts"    json:"max_attempts,omitempty"`
}

func (c WebhookConfig) timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return 5 * time.Second
}

func (c WebhookConfig) attempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return 3
}

// Event is the payload sent to webhook endpoints when a domain's
// recommendation escalates. It carries only derived fields; no URLs
// or query parameters ever reach a webhook.
type Event struct {
	Timestamp  string  `json:"timestamp"`
	Domain     string  `json:"domain"`
	Level      string  `json:"level"`
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
	State      string  `json:"state"`
	Previous   string  `json:"previous,omitempty"`
}
