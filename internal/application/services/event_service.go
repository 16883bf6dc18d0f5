package services

import (
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
)

// EventService is the analytics event emitter. Every emission is gated on the
// caller's analytics consent, and forwards to the collector are single-shot
// detached tasks: no queue, no retry, analytics loss over blocked UI paths.
type EventService struct {
	logger    *logging.ChanneledLogger
	backend   *backend.Client
	sessions  *SessionService
	consent   *ConsentService
	publisher messaging.ActivityPublisher
}

// NewEventService creates a new analytics event service
func NewEventService(logger *logging.ChanneledLogger, backendClient *backend.Client, sessions *SessionService, consentService *ConsentService, publisher messaging.ActivityPublisher) *EventService {
	return &EventService{
		logger:    logger,
		backend:   backendClient,
		sessions:  sessions,
		consent:   consentService,
		publisher: publisher,
	}
}

// TrackEvent emits one analytics event. Without analytics consent it returns
// immediately: no network call, no error, nothing for the caller to handle.
func (s *EventService) TrackEvent(store kv.Store, input analytics.EventInput) {
	s.track(store, input, s.backend.ForwardEvent)
}

// TrackPageView emits a page view for the given path
func (s *EventService) TrackPageView(store kv.Store, path, referrer string) {
	s.track(store, analytics.PageViewInput(path, referrer), s.backend.ForwardPageView)
}

// TrackFormSubmission emits a form submission event
func (s *EventService) TrackFormSubmission(store kv.Store, formName string, success bool) {
	s.track(store, analytics.FormSubmissionInput(formName, success), s.backend.ForwardEvent)
}

// TrackButtonClick emits a button click event
func (s *EventService) TrackButtonClick(store kv.Store, buttonName, location string) {
	s.track(store, analytics.ButtonClickInput(buttonName, location), s.backend.ForwardEvent)
}

func (s *EventService) track(store kv.Store, input analytics.EventInput, forward func(*analytics.Event) error) {
	if !s.consent.HasConsentFor(store, consent.CategoryAnalytics) {
		s.logger.Analytics().Debug("Event suppressed without analytics consent",
			"eventType", input.EventType,
			"eventAction", input.EventAction)
		return
	}

	sessionID := s.sessions.GetSessionID(store)
	event := analytics.NewEvent(sessionID, input)

	s.logger.Analytics().Debug("Tracking event",
		"sessionId", sessionID,
		"eventType", event.EventType,
		"eventCategory", event.EventCategory,
		"pageUrl", event.PageURL)

	s.backend.Detach("forward_event", func() error {
		return forward(event)
	})

	if s.publisher != nil {
		s.publisher.PublishTrackedEvent(event)
	}
}

// EmitterFor binds this service to one request's storage as the catch-up
// page view sink used by consent transitions.
func (s *EventService) EmitterFor(store kv.Store, referrer string) consent.PageViewEmitter {
	return &boundEmitter{service: s, store: store, referrer: referrer}
}

type boundEmitter struct {
	service  *EventService
	store    kv.Store
	referrer string
}

func (b *boundEmitter) EmitPageView(path string) {
	b.service.TrackPageView(b.store, path, b.referrer)
}
