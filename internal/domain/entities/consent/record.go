// Package consent provides domain entities for the cookie-consent subsystem.
// It defines the persisted consent record, the user-facing category settings,
// and the schema version used to force re-consent when the shape changes.
package consent

import "time"

// SchemaVersion identifies the current shape of the persisted consent record.
// Bump it to force a global re-consent when categories change meaning.
const SchemaVersion = "1.0"

// Category represents a single consent category
type Category string

const (
	CategoryEssential   Category = "essential"
	CategoryAnalytics   Category = "analytics"
	CategoryMarketing   Category = "marketing"
	CategoryPreferences Category = "preferences"
)

// Settings carries the user-controllable category flags of a consent decision.
// Essential is accepted in the payload for symmetry but is never honored: the
// site cannot function without it, so the persisted record always forces it on.
type Settings struct {
	Essential   bool `json:"essential"`
	Analytics   bool `json:"analytics"`
	Marketing   bool `json:"marketing"`
	Preferences bool `json:"preferences"`
}

// Record represents a persisted consent decision
type Record struct {
	SessionID   string `json:"sessionId"`
	Essential   bool   `json:"essential"`
	Analytics   bool   `json:"analytics"`
	Marketing   bool   `json:"marketing"`
	Preferences bool   `json:"preferences"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
}

// NewRecord builds a full consent record from user settings. Essential is
// forced true regardless of input, and the record is stamped with the current
// time and schema version.
func NewRecord(sessionID string, settings Settings) *Record {
	return &Record{
		SessionID:   sessionID,
		Essential:   true,
		Analytics:   settings.Analytics,
		Marketing:   settings.Marketing,
		Preferences: settings.Preferences,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     SchemaVersion,
	}
}

// AcceptAllSettings returns settings with every category enabled.
func AcceptAllSettings() Settings {
	return Settings{Essential: true, Analytics: true, Marketing: true, Preferences: true}
}

// RejectAllSettings returns settings with every optional category disabled.
// Essential stays true; it is not user-controllable.
func RejectAllSettings() Settings {
	return Settings{Essential: true}
}

// IsCurrentVersion reports whether the record was written under the current
// consent schema. Stale records are treated as absent by the store.
func (r *Record) IsCurrentVersion() bool {
	return r.Version == SchemaVersion
}

// HasCategory returns the boolean value of a single category on this record.
func (r *Record) HasCategory(category Category) bool {
	switch category {
	case CategoryEssential:
		return r.Essential
	case CategoryAnalytics:
		return r.Analytics
	case CategoryMarketing:
		return r.Marketing
	case CategoryPreferences:
		return r.Preferences
	default:
		return false
	}
}
