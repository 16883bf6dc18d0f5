// Package messaging provides the live activity feed for the admin back-office.
package messaging

import (
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
)

// ActivityPublisher receives consent decisions and tracked events as they
// happen. Publishing is best-effort and must never block the caller.
type ActivityPublisher interface {
	PublishConsentDecision(record *consent.Record)
	PublishTrackedEvent(event *analytics.Event)
}

// NoopPublisher discards everything. Used where no feed is wired.
type NoopPublisher struct{}

func (NoopPublisher) PublishConsentDecision(*consent.Record) {}
func (NoopPublisher) PublishTrackedEvent(*analytics.Event)   {}
