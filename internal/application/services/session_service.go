// Package services provides application-level orchestration services
package services

import (
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/session"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
)

// SessionService issues and persists the stable anonymous session identifier
type SessionService struct {
	logger *logging.ChanneledLogger
}

// NewSessionService creates a new session identity service
func NewSessionService(logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{logger: logger}
}

// GetSessionID returns the caller's session identifier, minting and persisting
// a fresh UUID when none exists. A failed persistence write is tolerated: the
// generated id is still returned for this call and will regenerate next time.
func (s *SessionService) GetSessionID(store kv.Store) string {
	if id, exists := store.Get(config.SessionCookieName); exists && id != "" {
		return id
	}

	identity := session.NewIdentity()
	if err := store.Set(config.SessionCookieName, identity.SessionID, config.CookieTTL); err != nil {
		s.logger.Consent().Warn("Session identity write failed, id will regenerate on next access",
			"sessionId", identity.SessionID,
			"error", err.Error())
	}

	return identity.SessionID
}

// PeekSessionID returns the persisted identifier without minting a new one.
func (s *SessionService) PeekSessionID(store kv.Store) (string, bool) {
	id, exists := store.Get(config.SessionCookieName)
	return id, exists && id != ""
}

// ClearSession deletes the persisted identifier. Future activity gets a fresh
// identity, dissociating it from whatever this session did before.
func (s *SessionService) ClearSession(store kv.Store) {
	store.Remove(config.SessionCookieName)
}
