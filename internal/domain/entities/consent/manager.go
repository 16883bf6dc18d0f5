package consent

// Store abstracts the persisted consent record operations the manager drives.
// The application layer binds it to the caller's cookie jar per request.
type Store interface {
	// Preferences returns the persisted record, or nil when absent, unparsable
	// or written under a stale schema version.
	Preferences() *Record

	// Save overwrites the persisted record wholesale from settings and
	// returns the stored record.
	Save(settings Settings) *Record

	// Clear deletes the consent record and the session identity.
	Clear()
}

// PageViewEmitter receives the catch-up page view fired when a transition
// enables analytics consent.
type PageViewEmitter interface {
	EmitPageView(path string)
}

// Manager is the banner controller: an explicitly-owned state machine scoped
// to one UI session. It starts UNINITIALIZED, shows the banner when no valid
// record exists, and reaches CONSENT_KNOWN on the first decision. It is
// injected wherever needed rather than living in package-global state.
type Manager struct {
	store   Store
	emitter PageViewEmitter

	known         *Record
	bannerVisible bool
}

// NewManager builds a manager over the given store and emitter and performs
// the mount-time read: the banner is visible iff no valid record exists.
func NewManager(store Store, emitter PageViewEmitter) *Manager {
	known := store.Preferences()
	return &Manager{
		store:         store,
		emitter:       emitter,
		known:         known,
		bannerVisible: known == nil,
	}
}

// KnownConsent returns the record the manager currently holds, nil if none.
func (m *Manager) KnownConsent() *Record {
	return m.known
}

// BannerVisible reports whether the consent banner should display.
func (m *Manager) BannerVisible() bool {
	return m.bannerVisible
}

// AcceptAll records consent for every category. currentPath is the page the
// decision was made on; it receives the caught-up page view.
func (m *Manager) AcceptAll(currentPath string) *Record {
	return m.decide(AcceptAllSettings(), currentPath)
}

// RejectAll records refusal of every optional category. Essential stays on.
func (m *Manager) RejectAll(currentPath string) *Record {
	return m.decide(RejectAllSettings(), currentPath)
}

// UpdateConsent records a per-category decision from the settings panel.
func (m *Manager) UpdateConsent(settings Settings, currentPath string) *Record {
	return m.decide(settings, currentPath)
}

// ClearAllConsent withdraws consent entirely and returns the machine to the
// banner-visible state so the visitor is re-prompted.
func (m *Manager) ClearAllConsent() {
	m.store.Clear()
	m.known = nil
	m.bannerVisible = true
}

// decide runs a consent transition: persist the decision, hide the banner,
// and catch up the suppressed page view when analytics just became allowed.
// No analytics event is ever emitted before this point, and the catch-up view
// is emitted exactly once per transition.
func (m *Manager) decide(settings Settings, currentPath string) *Record {
	record := m.store.Save(settings)
	m.known = record
	m.bannerVisible = false

	if record.Analytics && currentPath != "" {
		m.emitter.EmitPageView(currentPath)
	}

	return record
}
