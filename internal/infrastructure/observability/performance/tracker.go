// Package performance provides lightweight operation markers for tracking
// request handling performance across the Win2Win backend.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string        `json:"operation"` // e.g., "post_consent_request"
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Completed bool          `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and records its duration
func (m *Marker) Complete() {
	if m.Completed {
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.tracker != nil {
		m.tracker.markCompleted()
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// Tracker hands out markers and keeps running counts of operations
type Tracker struct {
	active    int64
	completed int64
	mu        sync.Mutex
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// StartOperation begins tracking a named operation
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		tracker:   t,
	}
}

func (t *Tracker) markCompleted() {
	t.mu.Lock()
	t.active--
	t.completed++
	t.mu.Unlock()
}

// Counts returns the number of active and completed operations
func (t *Tracker) Counts() (active, completed int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.completed
}
