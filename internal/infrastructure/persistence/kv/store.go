// Package kv provides the persisted key-value capability behind the consent
// and session stores. The consent logic only depends on this interface, so the
// storage medium (response cookies, in-memory maps) can be swapped freely.
package kv

import "time"

// Store is a minimal get/set/remove capability with per-key TTL
type Store interface {
	// Get returns the stored value for key and whether it was present.
	Get(key string) (string, bool)

	// Set persists value under key for the given TTL. A failed write is an
	// acceptable degradation for this subsystem; callers log and carry on.
	Set(key, value string, ttl time.Duration) error

	// Remove deletes the value stored under key, if any.
	Remove(key string)
}
