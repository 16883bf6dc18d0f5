// Package backend provides the HTTP client for the external Win2Win REST
// backend. Writes are best-effort: the consent and tracking flows must never
// block or error out because the backend leg is down, so forwards run as
// detached tasks and failures are logged and swallowed. The consent lookup is
// the one read path, and it propagates errors to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/oklog/ulid/v2"
)

// Client talks to the external backend REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.ChanneledLogger
	tasks      sync.WaitGroup
}

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Detach runs fn on its own goroutine. Errors and panics inside the task are
// logged on the backend channel and never reach the caller's stack. Flush
// waits for all detached tasks, so nothing is silently abandoned at shutdown.
func (c *Client) Detach(operation string, fn func() error) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				c.logger.Backend().Error("Detached backend task panicked", "operation", operation, "panic", fmt.Sprint(r))
			}
		}()

		if err := fn(); err != nil {
			c.logger.Backend().Warn("Detached backend task failed", "operation", operation, "error", err.Error())
		}
	}()
}

// Flush blocks until every detached task has completed
func (c *Client) Flush() {
	c.tasks.Wait()
}

// ForwardConsent sends a consent record to the backend
func (c *Client) ForwardConsent(record *consent.Record) error {
	return c.postJSON("/api/privacy/consent", record)
}

// ForwardWithdrawal notifies the backend that a session withdrew consent
func (c *Client) ForwardWithdrawal(sessionID string) error {
	endpoint := fmt.Sprintf("%s/api/privacy/consent?sessionId=%s", c.baseURL, url.QueryEscape(sessionID))
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build withdrawal request: %w", err)
	}
	return c.do(req)
}

// ForwardEvent sends a tracked analytics event to the collector, stamped with
// a server-side event id.
func (c *Client) ForwardEvent(event *analytics.Event) error {
	return c.postJSON("/api/analytics/events", stampedEvent{Event: event, EventID: ulid.Make().String()})
}

// ForwardPageView sends a page view event to the collector
func (c *Client) ForwardPageView(event *analytics.Event) error {
	return c.postJSON("/api/analytics/pageviews", stampedEvent{Event: event, EventID: ulid.Make().String()})
}

// ForwardSubscriber registers a newsletter subscriber with the backend
func (c *Client) ForwardSubscriber(email string) error {
	return c.postJSON("/api/newsletter/subscribers", map[string]string{"email": email})
}

// LookupConsent fetches a consent record by session id. This read has no
// cached fallback, so backend failures surface as real errors.
func (c *Client) LookupConsent(ctx context.Context, sessionID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/privacy/consent?sessionId=%s", c.baseURL, url.QueryEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build consent lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consent lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("consent lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read consent lookup response: %w", err)
	}

	return json.RawMessage(body), nil
}

// stampedEvent decorates a tracked event with a collector-side id
type stampedEvent struct {
	*analytics.Event
	EventID string `json:"eventId"`
}

func (c *Client) postJSON(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", path, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned status %d for %s %s", resp.StatusCode, req.Method, req.URL.Path)
	}
	return nil
}
