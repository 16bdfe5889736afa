package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

// ToleratedCloneStatuses is the explicit, narrow set of clone response
// codes treated as success. 409 is the conflict class (instance already
// exists); 500 is the documented upstream quirk that co-occurs with
// clones that actually worked. Anything else is fatal for the run.
var ToleratedCloneStatuses = map[int]bool{
	http.StatusOK:                  true,
	http.StatusCreated:             true,
	http.StatusConflict:            true,
	http.StatusInternalServerError: true,
}

var hexIdPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

// Client talks to the agent platform: the template clone endpoint plus
// the per-instance v2 API authenticated by the run credential.
type Client struct {
	conf       config.AgentPlatformConfig
	httpClient *http.Client
}

func NewClient(conf config.AgentPlatformConfig) *Client {
	return &Client{
		conf:       conf,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// BaseUrl returns the instance URL for a handle.
func (c *Client) BaseUrl(handle string) string {
	return fmt.Sprintf("https://%s.%s", handle, c.conf.BaseDomain)
}

// CloneInstance clones the template into a new instance.
func (c *Client) CloneInstance(ctx context.Context, handle string) error {
	payload := map[string]any{
		"clone_secret":   c.conf.CloneSecret,
		"new_handle":     handle,
		"email":          c.conf.Email,
		"user_full_name": "SC Team",
		"user_password":  c.conf.Password,
		"type":           "client",
	}
	status, _, err := c.post(ctx, c.conf.CloneUrl, "", payload)
	if err != nil {
		return fmt.Errorf("clone call failed: %w", err)
	}
	if !ToleratedCloneStatuses[status] {
		return fmt.Errorf("clone rejected: status code %d", status)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		logger.Warn("clone returned tolerated failure status",
			zap.Int("status", status), zap.String("handle", handle))
	}
	return nil
}

// CreateKnowledgeSource creates the fixed knowledge source; a conflict
// means it already exists and is not an error.
func (c *Client) CreateKnowledgeSource(ctx context.Context, baseUrl string, apiKey string, sourceId string, name string) error {
	payload := map[string]any{"id": sourceId, "name": name}
	status, _, err := c.post(ctx, baseUrl+"/api/v2/knowledge/sources/", apiKey, payload)
	if err != nil {
		return fmt.Errorf("knowledge source creation failed: %w", err)
	}
	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return nil
	case status == http.StatusConflict:
		logger.Warn("knowledge source already exists", zap.String("sourceId", sourceId))
		return nil
	default:
		return fmt.Errorf("knowledge source creation failed: status code %d", status)
	}
}

// BulkUploadArticles uploads the whole article batch in one call.
func (c *Client) BulkUploadArticles(ctx context.Context, baseUrl string, apiKey string, articles []model.Article) error {
	status, body, err := c.post(ctx, baseUrl+"/api/v2/knowledge/bulk/articles/", apiKey, articles)
	if err != nil {
		return fmt.Errorf("article bulk upload failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("article bulk upload failed: status code %d: %s", status, string(body))
	}
	logger.Info("articles uploaded", zap.Int("count", len(articles)))
	return nil
}

// CreateChannel creates the messaging channel and returns its id.
func (c *Client) CreateChannel(ctx context.Context, baseUrl string, apiKey string, name string, description string) (string, error) {
	payload := map[string]any{
		"name":        name,
		"description": description,
		"modality":    "messaging",
	}
	status, body, err := c.post(ctx, baseUrl+"/api/v2/channels/", apiKey, payload)
	if err != nil {
		return "", fmt.Errorf("channel creation failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("channel creation failed: status code %d", status)
	}
	channelId, err := extractString(body, "$.id")
	if err != nil {
		return "", fmt.Errorf("channel creation response missing id: %w", err)
	}
	return channelId, nil
}

// CreateConversation opens a conversation on a channel and returns the
// conversation and end-user ids.
func (c *Client) CreateConversation(ctx context.Context, baseUrl string, apiKey string, channelId string) (string, string, error) {
	payload := map[string]any{"channel_id": channelId}
	status, body, err := c.post(ctx, baseUrl+"/api/v2/conversations/", apiKey, payload)
	if err != nil {
		return "", "", fmt.Errorf("conversation creation failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", "", fmt.Errorf("conversation creation failed: status code %d", status)
	}
	conversationId, err := extractString(body, "$.id")
	if err != nil {
		return "", "", fmt.Errorf("conversation response missing id: %w", err)
	}
	endUserId, err := extractString(body, "$.end_user_id")
	if err != nil {
		return "", "", fmt.Errorf("conversation response missing end_user_id: %w", err)
	}
	return conversationId, endUserId, nil
}

// CreateMessage posts one end-user message into a conversation. Both ids
// must be 24-char hex, the platform's id format.
func (c *Client) CreateMessage(ctx context.Context, baseUrl string, apiKey string, conversationId string, endUserId string, body string) error {
	if !hexIdPattern.MatchString(conversationId) {
		return fmt.Errorf("invalid conversation id: %s", conversationId)
	}
	if !hexIdPattern.MatchString(endUserId) {
		return fmt.Errorf("invalid end user id: %s", endUserId)
	}
	payload := map[string]any{
		"author":  map[string]any{"id": endUserId, "role": "end_user"},
		"content": map[string]any{"body": body, "type": "text"},
	}
	url := fmt.Sprintf("%s/api/v2/conversations/%s/messages/", baseUrl, conversationId)
	status, _, err := c.post(ctx, url, apiKey, payload)
	if err != nil {
		return fmt.Errorf("message creation failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("message creation failed: status code %d", status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, apiKey string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func extractString(body []byte, path string) (string, error) {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	value, err := jsonpath.JsonPathLookup(decoded, path)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("value at %s is not a string", path)
	}
	return s, nil
}
