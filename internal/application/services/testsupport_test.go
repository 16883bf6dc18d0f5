package services

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
)

// backendCapture records every request the backend client makes, keyed by
// path, so tests can assert on exactly which forwards happened.
type backendCapture struct {
	mu       sync.Mutex
	requests map[string][]capturedCall
	status   int
}

type capturedCall struct {
	Method string
	Query  string
	Body   []byte
}

func newBackendCapture(t *testing.T) (*backendCapture, *backend.Client) {
	t.Helper()

	capture := &backendCapture{
		requests: make(map[string][]capturedCall),
		status:   http.StatusOK,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capture.mu.Lock()
		capture.requests[r.URL.Path] = append(capture.requests[r.URL.Path], capturedCall{
			Method: r.Method,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		status := capture.status
		capture.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	return capture, backend.NewClient(server.URL, 2*time.Second, logging.NewSilentLogger())
}

// calls returns the captured requests for one backend path.
func (bc *backendCapture) calls(path string) []capturedCall {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return append([]capturedCall(nil), bc.requests[path]...)
}

// deadBackend returns a client pointed at a port nothing listens on.
func deadBackend() *backend.Client {
	return backend.NewClient("http://127.0.0.1:1", 500*time.Millisecond, logging.NewSilentLogger())
}

// failingStore rejects every write. Reads and removals behave normally.
type failingStore struct {
	values map[string]string
}

func newFailingStore() *failingStore {
	return &failingStore{values: make(map[string]string)}
}

func (fs *failingStore) Get(key string) (string, bool) {
	value, exists := fs.values[key]
	return value, exists
}

func (fs *failingStore) Set(string, string, time.Duration) error {
	return errors.New("storage unavailable")
}

func (fs *failingStore) Remove(key string) {
	delete(fs.values, key)
}

// fakeEmailService records confirmation sends.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmailService) SendNewsletterConfirmation(toEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail)
	return nil
}

func (f *fakeEmailService) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
