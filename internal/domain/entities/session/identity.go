// Package session provides the anonymous visitor identity used to correlate
// consent records and analytics events.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the stable anonymous session identifier. It carries no personal
// data; it exists only so the backend can associate a consent record with the
// events sent under it.
type Identity struct {
	SessionID string    `json:"sessionId"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// NewIdentity mints a fresh random identity.
func NewIdentity() *Identity {
	return &Identity{
		SessionID: uuid.NewString(),
		IssuedAt:  time.Now().UTC(),
	}
}
