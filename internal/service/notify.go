package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/cidade-conectada/reports-api/internal/core"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// WebhookNotifierOptions groups dependencies for WebhookNotifier.
type WebhookNotifierOptions struct {
	URL string
	// MatchExpr is an optional JMESPath expression evaluated against the
	// status-change payload; the webhook fires only when it yields a truthy
	// value. Empty means notify on every transition.
	MatchExpr string
	Client    *http.Client
	Evaluator JMESPathEvaluator
	Logger    *slog.Logger
}

// WebhookNotifier posts committed status transitions to a configured URL.
// Delivery is best-effort: failures are logged, never propagated, so a down
// webhook can not block or fail a transition.
type WebhookNotifier struct {
	url       string
	matchExpr string
	client    *http.Client
	jems      JMESPathEvaluator
	logger    *slog.Logger
}

// NewWebhookNotifier constructs a WebhookNotifier. It returns an error when
// the match expression does not compile, so misconfiguration surfaces at
// startup instead of on the first transition.
func NewWebhookNotifier(opts WebhookNotifierOptions) (*WebhookNotifier, error) {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	if err := jems.Validate(opts.MatchExpr); err != nil {
		return nil, err
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		url:       opts.URL,
		matchExpr: strings.TrimSpace(opts.MatchExpr),
		client:    client,
		jems:      jems,
		logger:    logger.With("component", "webhook_notifier"),
	}, nil
}

// NotifyStatusChange implements core.StatusNotifier.
func (n *WebhookNotifier) NotifyStatusChange(ctx context.Context, change core.StatusChange) {
	if n.url == "" {
		return
	}

	payload, err := json.Marshal(change)
	if err != nil {
		n.logger.ErrorContext(ctx, "marshal status change", "err", err)
		return
	}

	if !n.matches(ctx, payload) {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.logger.ErrorContext(ctx, "build webhook request", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.WarnContext(ctx, "webhook delivery failed",
			"report_id", change.ReportID, "err", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		n.logger.WarnContext(ctx, "webhook rejected",
			"report_id", change.ReportID, "status", resp.StatusCode)
	}
}

// matches evaluates the configured expression against the JSON payload.
// Evaluation errors are treated as no-match and logged.
func (n *WebhookNotifier) matches(ctx context.Context, payload []byte) bool {
	if n.matchExpr == "" {
		return true
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		n.logger.ErrorContext(ctx, "unmarshal payload for match", "err", err)
		return false
	}

	result, err := n.jems.Evaluate(n.matchExpr, doc)
	if err != nil {
		n.logger.WarnContext(ctx, "match expression failed", "err", err)
		return false
	}
	switch v := result.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}
