package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/application/container"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/Win2WinFormation/win2win-go/internal/presentation/http/routes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// backendCapture records the requests the handlers forward to the external
// backend, keyed by path.
type backendCapture struct {
	mu       sync.Mutex
	requests map[string][]capturedCall
	status   int
	response string
}

type capturedCall struct {
	Method string
	Query  string
	Body   []byte
}

func (bc *backendCapture) calls(path string) []capturedCall {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return append([]capturedCall(nil), bc.requests[path]...)
}

func (bc *backendCapture) respondWith(status int, response string) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.status = status
	bc.response = response
}

// testEnv holds a fully wired router over a captured backend.
type testEnv struct {
	router  *gin.Engine
	backend *backendCapture
	deps    *container.Container
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	capture := &backendCapture{
		requests: make(map[string][]capturedCall),
		status:   http.StatusOK,
		response: "{}",
	}
	backendServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capture.mu.Lock()
		capture.requests[r.URL.Path] = append(capture.requests[r.URL.Path], capturedCall{
			Method: r.Method,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		status, response := capture.status, capture.response
		capture.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(backendServer.Close)

	logger := logging.NewSilentLogger()
	backendClient := backend.NewClient(backendServer.URL, 2*time.Second, logger)

	broadcaster := messaging.NewActivityBroadcaster(time.Minute, 10, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go broadcaster.Run(ctx)
	t.Cleanup(cancel)

	deps := container.NewContainer(logger, performance.NewTracker(), backendClient, nil, broadcaster)

	return &testEnv{
		router:  routes.SetupRoutes(deps),
		backend: capture,
		deps:    deps,
	}
}

// do runs one request through the router and flushes detached backend tasks
// so the capture is complete when the response comes back.
func (env *testEnv) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	env.deps.Backend.Flush()
	return recorder
}

// rawRequest builds a request with a literal body, for malformed-payload cases.
func rawRequest(t *testing.T, method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return decoded
}

// consentCookie builds the request cookie a browser would carry after a
// consent decision. The value is URL-escaped JSON.
func consentCookie(t *testing.T, record *consent.Record) *http.Cookie {
	t.Helper()
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	return &http.Cookie{Name: "w2w_consent", Value: url.QueryEscape(string(payload))}
}

func sessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{Name: "w2w_session_id", Value: sessionID}
}
