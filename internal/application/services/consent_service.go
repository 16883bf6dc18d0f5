package services

import (
	"encoding/json"

	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
)

// ConsentService implements the persisted consent store: read with schema
// validation, wholesale save, withdrawal, and the category predicate.
type ConsentService struct {
	logger    *logging.ChanneledLogger
	backend   *backend.Client
	sessions  *SessionService
	publisher messaging.ActivityPublisher
}

// NewConsentService creates a new consent store service
func NewConsentService(logger *logging.ChanneledLogger, backendClient *backend.Client, sessions *SessionService, publisher messaging.ActivityPublisher) *ConsentService {
	return &ConsentService{
		logger:    logger,
		backend:   backendClient,
		sessions:  sessions,
		publisher: publisher,
	}
}

// GetPreferences reads the persisted consent record. Absent records return
// nil; unparsable or stale-schema records also return nil and are cleared as
// a side effect so the visitor is re-prompted under the current schema.
func (s *ConsentService) GetPreferences(store kv.Store) *consent.Record {
	raw, exists := store.Get(config.ConsentCookieName)
	if !exists {
		return nil
	}

	var record consent.Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Consent().Warn("Stored consent record unparsable, clearing", "error", err.Error())
		store.Remove(config.ConsentCookieName)
		return nil
	}

	if !record.IsCurrentVersion() {
		s.logger.Consent().Info("Stored consent record has stale schema version, clearing",
			"storedVersion", record.Version,
			"currentVersion", consent.SchemaVersion)
		store.Remove(config.ConsentCookieName)
		return nil
	}

	return &record
}

// SavePreferences records a consent decision: essential is forced on, the
// record is stamped and persisted wholesale (no merge with any prior record),
// and the backend forward runs detached so a dead backend never blocks or
// fails the save. The record is considered saved once it is in local storage.
func (s *ConsentService) SavePreferences(store kv.Store, settings consent.Settings) *consent.Record {
	sessionID := s.sessions.GetSessionID(store)
	record := consent.NewRecord(sessionID, settings)

	payload, err := json.Marshal(record)
	if err != nil {
		// Record marshalling cannot realistically fail; log and fall through
		// so the caller still gets the decision it made.
		s.logger.Consent().Error("Failed to marshal consent record", "error", err.Error())
		return record
	}

	if err := store.Set(config.ConsentCookieName, string(payload), config.CookieTTL); err != nil {
		s.logger.Consent().Warn("Consent record write failed", "sessionId", sessionID, "error", err.Error())
	}

	s.logger.Consent().Info("Consent decision recorded",
		"sessionId", sessionID,
		"analytics", record.Analytics,
		"marketing", record.Marketing,
		"preferences", record.Preferences)

	s.backend.Detach("forward_consent", func() error {
		return s.backend.ForwardConsent(record)
	})

	if s.publisher != nil {
		s.publisher.PublishConsentDecision(record)
	}

	return record
}

// Clear is the GDPR withdrawal: both the consent record and the session
// identity are deleted, and the withdrawal is forwarded best-effort using the
// identity the visitor is walking away from.
func (s *ConsentService) Clear(store kv.Store) {
	sessionID, hadSession := s.sessions.PeekSessionID(store)

	store.Remove(config.ConsentCookieName)
	s.sessions.ClearSession(store)

	s.logger.Consent().Info("Consent withdrawn and session cleared", "sessionId", sessionID)

	if hadSession {
		s.backend.Detach("forward_withdrawal", func() error {
			return s.backend.ForwardWithdrawal(sessionID)
		})
	}
}

// HasConsentFor reports whether the given category is consented. No record
// means no consent.
func (s *ConsentService) HasConsentFor(store kv.Store, category consent.Category) bool {
	record := s.GetPreferences(store)
	if record == nil {
		return false
	}
	return record.HasCategory(category)
}

// ManagerFor builds the banner state machine over the caller's storage,
// wiring its transitions back into this store.
func (s *ConsentService) ManagerFor(store kv.Store, emitter consent.PageViewEmitter) *consent.Manager {
	return consent.NewManager(&boundConsentStore{service: s, store: store}, emitter)
}

// boundConsentStore adapts the service to the domain Store interface for one
// request's storage.
type boundConsentStore struct {
	service *ConsentService
	store   kv.Store
}

func (b *boundConsentStore) Preferences() *consent.Record {
	return b.service.GetPreferences(b.store)
}

func (b *boundConsentStore) Save(settings consent.Settings) *consent.Record {
	return b.service.SavePreferences(b.store, settings)
}

func (b *boundConsentStore) Clear() {
	b.service.Clear(b.store)
}
