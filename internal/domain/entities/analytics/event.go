// Package analytics provides domain entities for tracked analytics events.
package analytics

import "time"

// Event types recognized by the collector
const (
	EventTypePageView   = "page_view"
	EventTypeFormSubmit = "form_submit"
	EventTypeClick      = "click"
	EventTypeConversion = "conversion"
	EventTypeError      = "error"
)

// Event represents a single tracked analytics event. Events are transient:
// composed at the call site, sent immediately, and never stored locally.
type Event struct {
	SessionID      string         `json:"sessionId"`
	EventType      string         `json:"eventType"`
	EventCategory  string         `json:"eventCategory"`
	EventAction    string         `json:"eventAction"`
	EventLabel     string         `json:"eventLabel,omitempty"`
	PageURL        string         `json:"pageUrl"`
	Referrer       string         `json:"referrer"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
	Timestamp      string         `json:"timestamp"`
}

// EventInput carries the caller-supplied fields of an event. SessionID and
// Timestamp are stamped by the emitter at send time.
type EventInput struct {
	EventType      string         `json:"eventType"`
	EventCategory  string         `json:"eventCategory"`
	EventAction    string         `json:"eventAction"`
	EventLabel     string         `json:"eventLabel,omitempty"`
	PageURL        string         `json:"pageUrl"`
	Referrer       string         `json:"referrer"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

// NewEvent composes a full event from caller input, stamping the session
// identifier and the send time.
func NewEvent(sessionID string, input EventInput) *Event {
	return &Event{
		SessionID:      sessionID,
		EventType:      input.EventType,
		EventCategory:  input.EventCategory,
		EventAction:    input.EventAction,
		EventLabel:     input.EventLabel,
		PageURL:        input.PageURL,
		Referrer:       input.Referrer,
		AdditionalData: input.AdditionalData,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}

// PageViewInput returns the fixed-shape input for a page view event.
func PageViewInput(path, referrer string) EventInput {
	return EventInput{
		EventType:     EventTypePageView,
		EventCategory: "navigation",
		EventAction:   "view",
		PageURL:       path,
		Referrer:      referrer,
	}
}

// FormSubmissionInput returns the fixed-shape input for a form submission event.
func FormSubmissionInput(formName string, success bool) EventInput {
	return EventInput{
		EventType:     EventTypeFormSubmit,
		EventCategory: "engagement",
		EventAction:   "submit",
		EventLabel:    formName,
		AdditionalData: map[string]any{
			"success": success,
		},
	}
}

// ButtonClickInput returns the fixed-shape input for a button click event.
func ButtonClickInput(buttonName, location string) EventInput {
	return EventInput{
		EventType:     EventTypeClick,
		EventCategory: "engagement",
		EventAction:   "click",
		EventLabel:    buttonName,
		AdditionalData: map[string]any{
			"location": location,
		},
	}
}
