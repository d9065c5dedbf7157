// Package logtest captures structured log events for assertions in tests.
package logtest

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/omni/internal/logging"
)

// Recorder collects JSON log lines written by a zerolog logger.
type Recorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Context returns a context carrying a debug-level JSON logger that writes to a new Recorder.
func Context() (context.Context, *Recorder) {
	rec := &Recorder{}
	logger := zerolog.New(rec).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logging.WithContext(context.Background(), logger), rec
}

// Entries returns every decoded log line.
func (r *Recorder) Entries() []map[string]any {
	r.mu.Lock()
	raw := r.buf.String()
	r.mu.Unlock()

	var entries []map[string]any
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Find returns the first entry with the given event name.
func (r *Recorder) Find(event string) (map[string]any, bool) {
	for _, entry := range r.Entries() {
		if entry[logging.FieldEvent] == event {
			return entry, true
		}
	}
	return nil, false
}

// Has reports whether an entry with the given event name was logged.
func (r *Recorder) Has(event string) bool {
	_, ok := r.Find(event)
	return ok
}

// Count returns how many entries carry the given event name.
func (r *Recorder) Count(event string) int {
	n := 0
	for _, entry := range r.Entries() {
		if entry[logging.FieldEvent] == event {
			n++
		}
	}
	return n
}
