// Package memkv is an in-memory key-value tier.
package memkv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
)

// Store keeps raw JSON values in a map. A zero quota means unlimited.
type Store struct {
	mu             sync.RWMutex
	data           map[string]json.RawMessage
	quotaBytes     int
	itemQuotaBytes int
}

var (
	_ repository.KeyValueStore = (*Store)(nil)
	_ repository.Updater       = (*Store)(nil)
)

// New returns an empty unlimited store.
func New() *Store {
	return &Store{data: make(map[string]json.RawMessage)}
}

// NewWithQuota returns an empty store enforcing total and per-item quotas.
func NewWithQuota(quotaBytes, itemQuotaBytes int) *Store {
	s := New()
	s.quotaBytes = quotaBytes
	s.itemQuotaBytes = itemQuotaBytes
	return s
}

// Get returns copies of the stored values.
func (s *Store) Get(_ context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage)
	if len(keys) == 0 {
		for k, v := range s.data {
			out[k] = clone(v)
		}
		return out, nil
	}
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			out[k] = clone(v)
		}
	}
	return out, nil
}

// Set writes every entry or none of them when a quota would be exceeded.
func (s *Store) Set(_ context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(entries)
}

// Update runs fn and the write under the store lock.
func (s *Store) Update(_ context.Context, key string, fn func(json.RawMessage) (json.RawMessage, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current json.RawMessage
	if v, ok := s.data[key]; ok {
		current = clone(v)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.setLocked(map[string]json.RawMessage{key: next})
}

func (s *Store) setLocked(entries map[string]json.RawMessage) error {
	total := 0
	for k, v := range s.data {
		if _, replaced := entries[k]; !replaced {
			total += len(k) + len(v)
		}
	}
	for k, v := range entries {
		if !json.Valid(v) {
			return fmt.Errorf("memkv: value for %q is not valid JSON", k)
		}
		size := len(k) + len(v)
		if s.itemQuotaBytes > 0 && size > s.itemQuotaBytes {
			return fmt.Errorf("memkv: item %q is %d bytes: %w", k, size, entity.ErrQuotaExceeded)
		}
		total += size
	}
	if s.quotaBytes > 0 && total > s.quotaBytes {
		return fmt.Errorf("memkv: %d bytes: %w", total, entity.ErrQuotaExceeded)
	}

	for k, v := range entries {
		s.data[k] = clone(v)
	}
	return nil
}

// Remove deletes keys.
func (s *Store) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Clear empties the store.
func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]json.RawMessage)
	return nil
}

// BytesInUse sums key and value lengths, the same measure the quotas use.
func (s *Store) BytesInUse(_ context.Context, keys ...string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	if len(keys) == 0 {
		for k, v := range s.data {
			total += len(k) + len(v)
		}
		return total, nil
	}
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			total += len(k) + len(v)
		}
	}
	return total, nil
}

func clone(v json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), v...)
}
