package config

import "time"

// NotifyConfig controls the optional status-change webhook.
type NotifyConfig struct {
	// WebhookURL receives a JSON payload for each committed status
	// transition. Empty disables notification entirely.
	WebhookURL string `env:"WEBHOOK_URL" envDefault:""`

	// MatchExpr is a JMESPath expression evaluated against the payload;
	// the webhook fires only when it yields a truthy value. Empty means
	// every transition is delivered.
	MatchExpr string `env:"MATCH_EXPR" envDefault:""`

	// Timeout bounds a single webhook delivery attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}
