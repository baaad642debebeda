package notify

import (
	"context"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/httputil"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Notifier delivers run results to an external channel
type Notifier interface {
	NotifyRun(ctx context.Context, result *contracts.RunResult, reportMarkdown string) error
}

// WebhookNotifier posts the daily report to a configured webhook.
// Delivery is best-effort; a failed post is logged, never fatal.
type WebhookNotifier struct {
	url        string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewWebhookNotifier creates a webhook notifier. An empty URL disables it.
func NewWebhookNotifier(url string, httpClient *httputil.Client, log *logger.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: httpClient,
		logger:     log,
	}
}

type webhookPayload struct {
	Date            string                `json:"date"`
	Recommendations int                   `json:"recommendations"`
	Stats           contracts.FunnelStats `json:"stats"`
	Report          string                `json:"report"`
}

// NotifyRun posts the run summary plus the rendered markdown report
func (n *WebhookNotifier) NotifyRun(ctx context.Context, result *contracts.RunResult, reportMarkdown string) error {
	if n.url == "" {
		return nil
	}

	payload := webhookPayload{
		Date:            result.Date.Format("2006-01-02"),
		Recommendations: len(result.Recommendations),
		Stats:           result.Stats,
		Report:          reportMarkdown,
	}

	resp, err := n.httpClient.PostJSON(ctx, n.url, payload)
	if err != nil {
		n.logger.WithError(err).Warn("Webhook delivery failed")
		return err
	}
	defer resp.Body.Close()

	n.logger.WithFields(map[string]interface{}{
		"status":          resp.StatusCode,
		"recommendations": len(result.Recommendations),
	}).Info("Webhook delivered")

	return nil
}
