package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

type captureServer struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	response string
}

func newCaptureServer(status int, response string) (*captureServer, *httptest.Server) {
	cs := &captureServer{status: status, response: response}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		cs.mu.Unlock()
		w.WriteHeader(cs.status)
		w.Write([]byte(cs.response))
	}))
	return cs, server
}

func (cs *captureServer) all() []capturedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]capturedRequest(nil), cs.requests...)
}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 2*time.Second, logging.NewSilentLogger())
}

func TestForwardConsent(t *testing.T) {
	capture, server := newCaptureServer(http.StatusOK, "{}")
	defer server.Close()
	client := newTestClient(server.URL)

	record := consent.NewRecord("session-1", consent.Settings{Analytics: true})
	require.NoError(t, client.ForwardConsent(record))

	requests := capture.all()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Equal(t, "/api/privacy/consent", requests[0].Path)

	var sent consent.Record
	require.NoError(t, json.Unmarshal(requests[0].Body, &sent))
	assert.Equal(t, "session-1", sent.SessionID)
	assert.Equal(t, consent.SchemaVersion, sent.Version)
	assert.True(t, sent.Essential)
}

func TestForwardConsentNon2xxIsError(t *testing.T) {
	_, server := newCaptureServer(http.StatusInternalServerError, "")
	defer server.Close()
	client := newTestClient(server.URL)

	err := client.ForwardConsent(consent.NewRecord("session-1", consent.Settings{}))
	assert.Error(t, err)
}

func TestForwardWithdrawal(t *testing.T) {
	capture, server := newCaptureServer(http.StatusOK, "{}")
	defer server.Close()
	client := newTestClient(server.URL)

	require.NoError(t, client.ForwardWithdrawal("session with spaces"))

	requests := capture.all()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/api/privacy/consent", requests[0].Path)
	assert.Equal(t, "sessionId=session+with+spaces", requests[0].Query)
}

func TestForwardEventStampsEventID(t *testing.T) {
	capture, server := newCaptureServer(http.StatusCreated, "{}")
	defer server.Close()
	client := newTestClient(server.URL)

	event := analytics.NewEvent("session-1", analytics.PageViewInput("/formations", ""))
	require.NoError(t, client.ForwardEvent(event))

	requests := capture.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/analytics/events", requests[0].Path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(requests[0].Body, &sent))
	assert.Equal(t, "session-1", sent["sessionId"])
	assert.Equal(t, "page_view", sent["eventType"])
	eventID, ok := sent["eventId"].(string)
	require.True(t, ok)
	assert.Len(t, eventID, 26, "event ids are ULIDs")
}

func TestForwardPageViewRoute(t *testing.T) {
	capture, server := newCaptureServer(http.StatusOK, "{}")
	defer server.Close()
	client := newTestClient(server.URL)

	event := analytics.NewEvent("session-1", analytics.PageViewInput("/", ""))
	require.NoError(t, client.ForwardPageView(event))

	requests := capture.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/analytics/pageviews", requests[0].Path)
}

func TestForwardSubscriber(t *testing.T) {
	capture, server := newCaptureServer(http.StatusOK, "{}")
	defer server.Close()
	client := newTestClient(server.URL)

	require.NoError(t, client.ForwardSubscriber("someone@example.com"))

	requests := capture.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/newsletter/subscribers", requests[0].Path)
	assert.JSONEq(t, `{"email":"someone@example.com"}`, string(requests[0].Body))
}

func TestLookupConsentReturnsRawBody(t *testing.T) {
	body := `{"sessionId":"session-1","analytics":true}`
	_, server := newCaptureServer(http.StatusOK, body)
	defer server.Close()
	client := newTestClient(server.URL)

	record, err := client.LookupConsent(context.Background(), "session-1")
	require.NoError(t, err)
	assert.JSONEq(t, body, string(record))
}

func TestLookupConsentPropagatesFailures(t *testing.T) {
	_, server := newCaptureServer(http.StatusInternalServerError, "")
	defer server.Close()
	client := newTestClient(server.URL)

	_, err := client.LookupConsent(context.Background(), "session-1")
	assert.Error(t, err)

	// Unreachable backend also surfaces as an error, not a fallback.
	dead := newTestClient("http://127.0.0.1:1")
	_, err = dead.LookupConsent(context.Background(), "session-1")
	assert.Error(t, err)
}

func TestDetachSwallowsErrors(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	client.Detach("forward_consent", func() error {
		return client.ForwardConsent(consent.NewRecord("session-1", consent.Settings{}))
	})
	client.Flush()
}

func TestDetachRecoversPanics(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	client.Detach("forward_event", func() error {
		panic("boom")
	})
	client.Flush()
}

func TestFlushWaitsForDetachedTasks(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	done := make(chan struct{})
	client.Detach("slow_task", func() error {
		time.Sleep(20 * time.Millisecond)
		close(done)
		return nil
	})
	client.Flush()

	select {
	case <-done:
	default:
		t.Fatal("Flush returned before the detached task completed")
	}
}
