// Package jsonfile is the synced tier: a single JSON document on disk with
// browser-sync style quotas. The file is meant to live in a directory that
// a sync tool (Syncthing, a cloud drive) propagates between machines.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/logging"
)

const (
	filePerm = 0o600
	dirPerm  = 0o750
)

// Store reads and rewrites the whole document on every call so that
// changes made by the sync tool are picked up without a watcher.
type Store struct {
	path           string
	quotaBytes     int
	itemQuotaBytes int
	mu             sync.Mutex
}

var _ repository.KeyValueStore = (*Store)(nil)

// New returns a store backed by path. Zero quotas disable enforcement.
func New(path string, quotaBytes, itemQuotaBytes int) *Store {
	return &Store{path: path, quotaBytes: quotaBytes, itemQuotaBytes: itemQuotaBytes}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read synced store: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode synced store: %w", err)
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode synced store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("create synced store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".omni-sync-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write synced store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync synced store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close synced store: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod synced store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace synced store: %w", err)
	}

	logging.FromContext(ctx).Debug().Str("path", s.path).Int("bytes", len(data)).Msg("synced store written")
	return nil
}

// Get reads the document and returns the requested keys, or all of them.
func (s *Store) Get(_ context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return doc, nil
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set merges entries into the document. Quotas are checked on the result
// before anything is written.
func (s *Store) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for k, v := range entries {
		if !json.Valid(v) {
			return fmt.Errorf("synced store: value for %q is not valid JSON", k)
		}
		if size := len(k) + len(v); s.itemQuotaBytes > 0 && size > s.itemQuotaBytes {
			return fmt.Errorf("synced store: item %q is %d bytes: %w", k, size, entity.ErrQuotaExceeded)
		}
		doc[k] = v
	}
	if total := usage(doc, nil); s.quotaBytes > 0 && total > s.quotaBytes {
		return fmt.Errorf("synced store: %d bytes: %w", total, entity.ErrQuotaExceeded)
	}
	return s.save(ctx, doc)
}

// Remove deletes keys. The file is only rewritten when something changed.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			delete(doc, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(ctx, doc)
}

// Clear replaces the document with an empty object.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, map[string]json.RawMessage{})
}

// BytesInUse reports the document size as key plus value lengths.
func (s *Store) BytesInUse(_ context.Context, keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	return usage(doc, keys), nil
}

func usage(doc map[string]json.RawMessage, keys []string) int {
	total := 0
	if len(keys) == 0 {
		for k, v := range doc {
			total += len(k) + len(v)
		}
		return total
	}
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			total += len(k) + len(v)
		}
	}
	return total
}
