package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"go.uber.org/zap"
)

// Client sends fire-and-forget messages to a chat webhook. Failures are
// logged and never surfaced to the caller; with no webhook configured it
// is a no-op.
type Client struct {
	webhookUrl string
	httpClient *http.Client
}

func NewClient(webhookUrl string) *Client {
	return &Client{
		webhookUrl: webhookUrl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, text string) {
	if c.webhookUrl == "" {
		return
	}
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		logger.Warn("failed to marshal notification", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookUrl, bytes.NewBuffer(body))
	if err != nil {
		logger.Warn("failed to create notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("notification delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("notification rejected", zap.Int("status", resp.StatusCode))
	}
}

func (c *Client) RunStarted(ctx context.Context, companyName string, workflowId string) {
	c.Send(ctx, fmt.Sprintf("Provisioning started for %s (workflow %s)", companyName, workflowId))
}

func (c *Client) RunCompleted(ctx context.Context, companyName string, botUrl string, durationSeconds float64) {
	c.Send(ctx, fmt.Sprintf("Provisioning completed for %s in %.1fs: %s", companyName, durationSeconds, botUrl))
}

func (c *Client) RunFailed(ctx context.Context, companyName string, workflowId string, sanitizedError string) {
	c.Send(ctx, fmt.Sprintf("Provisioning FAILED for %s (workflow %s): %s", companyName, workflowId, sanitizedError))
}
