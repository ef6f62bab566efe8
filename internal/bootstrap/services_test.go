package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidade-conectada/reports-api/config"
)

func TestBuildStatusNotifier_DisabledWithoutURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	notifier, err := buildStatusNotifier(config.NotifyConfig{}, logger)

	require.NoError(t, err)
	assert.Nil(t, notifier)
}

func TestBuildStatusNotifier_Enabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	notifier, err := buildStatusNotifier(config.NotifyConfig{
		WebhookURL: "https://hooks.example.com/reports",
		MatchExpr:  "next == 'resolved'",
		Timeout:    5 * time.Second,
	}, logger)

	require.NoError(t, err)
	assert.NotNil(t, notifier)
}

func TestBuildStatusNotifier_InvalidMatchExpr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	notifier, err := buildStatusNotifier(config.NotifyConfig{
		WebhookURL: "https://hooks.example.com/reports",
		MatchExpr:  "not a ( valid expression",
	}, logger)

	require.Error(t, err)
	assert.Nil(t, notifier)
}
