package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/logger"
	"go.uber.org/zap"
)

// Client creates match/respond rules on the mock-endpoint service. Rules
// are authenticated by a static service token, not the per-run credential.
type Client struct {
	conf       config.MockApiConfig
	httpClient *http.Client
}

func NewClient(conf config.MockApiConfig) *Client {
	return &Client{
		conf:       conf,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProxyBaseUrl is the public base under which created rules are served.
func (c *Client) ProxyBaseUrl() string {
	return c.conf.ProxyBaseUrl
}

// CreateRule registers one mock rule.
func (c *Client) CreateRule(ctx context.Context, name string, rule map[string]any) error {
	data, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("failed to marshal rule %q: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.RulesUrl, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create rule request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.conf.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rule creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rule creation failed: status code %d", resp.StatusCode)
	}
	logger.Info("mock rule created", zap.String("rule", name))
	return nil
}
