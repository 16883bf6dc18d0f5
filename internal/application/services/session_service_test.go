package services

import (
	"testing"

	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService() *SessionService {
	return NewSessionService(logging.NewSilentLogger())
}

func TestGetSessionIDMintsAndPersists(t *testing.T) {
	service := newSessionService()
	store := kv.NewMemoryStore()

	id := service.GetSessionID(store)
	require.NotEmpty(t, id)

	_, err := uuid.Parse(id)
	assert.NoError(t, err, "session identifiers are UUIDs")

	persisted, exists := store.Get(config.SessionCookieName)
	assert.True(t, exists)
	assert.Equal(t, id, persisted)
}

func TestGetSessionIDIsStable(t *testing.T) {
	service := newSessionService()
	store := kv.NewMemoryStore()

	first := service.GetSessionID(store)
	second := service.GetSessionID(store)
	assert.Equal(t, first, second)
}

func TestGetSessionIDToleratesWriteFailure(t *testing.T) {
	service := newSessionService()
	store := newFailingStore()

	first := service.GetSessionID(store)
	assert.NotEmpty(t, first, "a failed write still yields an id for this call")

	second := service.GetSessionID(store)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second, "unpersisted ids regenerate on the next access")
}

func TestPeekSessionID(t *testing.T) {
	service := newSessionService()
	store := kv.NewMemoryStore()

	_, exists := service.PeekSessionID(store)
	assert.False(t, exists, "peek must not mint an identity")

	minted := service.GetSessionID(store)
	peeked, exists := service.PeekSessionID(store)
	assert.True(t, exists)
	assert.Equal(t, minted, peeked)
}

func TestClearSessionDissociatesIdentity(t *testing.T) {
	service := newSessionService()
	store := kv.NewMemoryStore()

	before := service.GetSessionID(store)
	service.ClearSession(store)
	after := service.GetSessionID(store)

	assert.NotEqual(t, before, after, "post-withdrawal activity gets a fresh identity")
}
