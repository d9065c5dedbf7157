package entity

import "errors"

var (
	// ErrNotFound is returned when a referenced session or suspended tab does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotSuspendable is returned when a tab URL is on the deny-list.
	ErrNotSuspendable = errors.New("tab is not suspendable")
	// ErrInvalidFormat is returned for malformed import documents and stored records.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrCapacityExceeded marks a synced-tier projection that is still too large.
	ErrCapacityExceeded = errors.New("synced tier capacity exceeded")
	// ErrLocalPersistence wraps failures writing the authoritative local tier.
	ErrLocalPersistence = errors.New("local tier persistence failed")
	// ErrSyncedPersistence wraps failures writing the synced tier.
	ErrSyncedPersistence = errors.New("synced tier persistence failed")
	// ErrMirrorUnavailable is returned when no external mirror is configured.
	ErrMirrorUnavailable = errors.New("external mirror unavailable")
	// ErrQuotaExceeded is returned by storage adapters refusing a write over quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrTimeout is returned when a browser call does not answer in time.
	ErrTimeout = errors.New("browser call timed out")
)
