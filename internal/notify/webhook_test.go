package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/httputil"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

func runResult() *contracts.RunResult {
	return &contracts.RunResult{
		Date:  time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		Stats: contracts.FunnelStats{Merged: 50, Ranked: 2},
	}
}

func TestNotifyRunPostsPayload(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	n := NewWebhookNotifier(srv.URL, client, logger.NewNop())

	err := n.NotifyRun(context.Background(), runResult(), "# report")
	require.NoError(t, err)

	assert.Equal(t, "2025-08-29", received.Date)
	assert.Equal(t, 50, received.Stats.Merged)
	assert.Equal(t, "# report", received.Report)
}

func TestNotifyRunDisabledWithoutURL(t *testing.T) {
	n := NewWebhookNotifier("", nil, logger.NewNop())
	assert.NoError(t, n.NotifyRun(context.Background(), runResult(), ""))
}

func TestNotifyRunReportsDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // force connection errors

	client := httputil.New(logger.NewNop(), time.Second).DisableRetry()
	n := NewWebhookNotifier(srv.URL, client, logger.NewNop())

	assert.Error(t, n.NotifyRun(context.Background(), runResult(), ""))
}
