package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidade-conectada/reports-api/internal/core"
)

func TestWebhookNotifier_DeliversPayload(t *testing.T) {
	var got core.StatusChange
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(WebhookNotifierOptions{URL: srv.URL})
	require.NoError(t, err)

	n.NotifyStatusChange(context.Background(), core.StatusChange{
		ReportID: "report-1",
		AuthorID: "citizen-1",
		From:     "pending",
		To:       "resolved",
		ActorID:  "admin-1",
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "report-1", got.ReportID)
	assert.Equal(t, "resolved", got.To)
}

func TestWebhookNotifier_MatchExpressionFilters(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(WebhookNotifierOptions{
		URL:       srv.URL,
		MatchExpr: "to == 'resolved'",
	})
	require.NoError(t, err)

	ctx := context.Background()
	n.NotifyStatusChange(ctx, core.StatusChange{ReportID: "r1", To: "rejected"})
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	n.NotifyStatusChange(ctx, core.StatusChange{ReportID: "r2", To: "resolved"})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWebhookNotifier_InvalidExpressionFailsConstruction(t *testing.T) {
	_, err := NewWebhookNotifier(WebhookNotifierOptions{
		URL:       "http://localhost:1",
		MatchExpr: "to ==",
	})
	assert.Error(t, err)
}

func TestWebhookNotifier_NoURLIsNoop(t *testing.T) {
	n, err := NewWebhookNotifier(WebhookNotifierOptions{})
	require.NoError(t, err)
	// must not panic or attempt delivery
	n.NotifyStatusChange(context.Background(), core.StatusChange{ReportID: "r1"})
}

func TestWebhookNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	n, err := NewWebhookNotifier(WebhookNotifierOptions{URL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	// unreachable endpoint; the transition must not be affected
	n.NotifyStatusChange(context.Background(), core.StatusChange{ReportID: "r1"})
}
