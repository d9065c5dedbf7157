// Package repository defines the persistence boundaries used by the use cases.
package repository

import (
	"context"
	"encoding/json"
)

// Storage keys shared by both tiers.
const (
	KeySessions       = "sessions"        // synced tier list, and the pre two-tier local key
	KeySessionsBackup = "sessions_backup" // local tier list
	KeySuspendedTabs  = "suspendedTabs"
	KeySearchHistory  = "searchHistory"
	KeySettings       = "settings"
)

// KeyValueStore is one storage tier. Values are raw JSON documents.
// Missing keys are absent from the returned map, never an error.
type KeyValueStore interface {
	// Get returns the values for keys. With no keys it returns every entry.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)

	// Set writes all entries atomically.
	Set(ctx context.Context, entries map[string]json.RawMessage) error

	// Remove deletes keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error

	// Clear deletes every entry.
	Clear(ctx context.Context) error

	// BytesInUse returns the serialized size of the given keys, or of everything with no keys.
	BytesInUse(ctx context.Context, keys ...string) (int, error)
}

// Updater is implemented by tiers that can read-modify-write one key as a
// single step, also against other processes sharing the same storage.
type Updater interface {
	// Update passes the current value of key (nil when absent) to fn and stores
	// what fn returns. An error from fn aborts without writing.
	Update(ctx context.Context, key string, fn func(current json.RawMessage) (json.RawMessage, error)) error
}

// Update runs fn atomically when store implements Updater, and as a plain
// Get then Set otherwise.
func Update(
	ctx context.Context,
	store KeyValueStore,
	key string,
	fn func(current json.RawMessage) (json.RawMessage, error),
) error {
	if u, ok := store.(Updater); ok {
		return u.Update(ctx, key, fn)
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(raw[key])
	if err != nil {
		return err
	}
	return store.Set(ctx, map[string]json.RawMessage{key: next})
}
