package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// WebhookClient delivers a JSON notification to a URL.
type WebhookClient interface {
	Send(ctx context.Context, url string, data interface{}) error
}

// HTTPWebhookClient posts notifications over HTTP.
type HTTPWebhookClient struct {
	client *http.Client
}

func NewHTTPWebhookClient(timeout time.Duration) *HTTPWebhookClient {
	return &HTTPWebhookClient{client: &http.Client{Timeout: timeout}}
}

func (c *HTTPWebhookClient) Send(ctx context.Context, url string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}
	return nil
}

// MockWebhookClient records calls and fails the first FailTimes of them.
type MockWebhookClient struct {
	Calls     []WebhookCall
	FailTimes int
	mu        sync.Mutex
}

type WebhookCall struct {
	URL  string
	Data interface{}
}

func (m *MockWebhookClient) Send(ctx context.Context, url string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, WebhookCall{URL: url, Data: data})
	if len(m.Calls) <= m.FailTimes {
		return fmt.Errorf("webhook unavailable")
	}
	return nil
}
