package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebhookClient posts chat messages to the automation webhook and returns the
// peer's free-text reply. The peer is an opaque HTTP endpoint; no retries.
type WebhookClient struct {
	URL    string
	Client *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		URL:    url,
		Client: &http.Client{Timeout: 20 * time.Second},
	}
}

type webhookRequest struct {
	Message        string `json:"message"`
	UserIdentifier string `json:"user_identifier"`
}

// Send posts {message, user_identifier} and extracts the reply. The peer
// answers with free-form JSON: "output" is preferred, "response" accepted,
// and a non-JSON body is passed through as-is.
func (c *WebhookClient) Send(ctx context.Context, message, userIdentifier string) (string, error) {
	payload, err := json.Marshal(webhookRequest{
		Message:        message,
		UserIdentifier: userIdentifier,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	var reply struct {
		Output   string `json:"output"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return strings.TrimSpace(string(body)), nil
	}
	if reply.Output != "" {
		return reply.Output, nil
	}
	if reply.Response != "" {
		return reply.Response, nil
	}
	return "Task completed!", nil
}
