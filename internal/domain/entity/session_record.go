package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StoredSession is a session as found in storage or an import document.
// It is either a LegacySession (flat tab list) or a WindowedSession.
type StoredSession interface {
	storedSession()
}

// LegacySession is the pre-window shape: a flat tab list only.
type LegacySession struct {
	ID           SessionID
	Name         string
	Tabs         []TabSnapshot
	Created      Timestamp
	LastAccessed Timestamp
}

// WindowedSession carries explicit window groups.
type WindowedSession struct {
	ID           SessionID
	Name         string
	Windows      []WindowGroup
	Created      Timestamp
	LastAccessed Timestamp
}

func (LegacySession) storedSession()   {}
func (WindowedSession) storedSession() {}

// storedWindow accepts both the current windowId key and the older id key.
type storedWindow struct {
	WindowID *int          `json:"windowId"`
	ID       *int          `json:"id"`
	Tabs     []TabSnapshot `json:"tabs"`
}

type storedRecord struct {
	ID           SessionID      `json:"id"`
	Name         string         `json:"name"`
	Windows      []storedWindow `json:"windows"`
	Tabs         []TabSnapshot  `json:"tabs"`
	Created      Timestamp      `json:"created"`
	LastAccessed Timestamp      `json:"lastAccessed"`
}

// DecodeStoredSession classifies a raw record. Counts in the record are ignored.
func DecodeStoredSession(data []byte) (StoredSession, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: session record is not an object", ErrInvalidFormat)
	}
	var rec storedRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(rec.Windows) > 0 {
		windows := make([]WindowGroup, 0, len(rec.Windows))
		for _, w := range rec.Windows {
			group := WindowGroup{Tabs: w.Tabs}
			switch {
			case w.WindowID != nil:
				group.WindowID = *w.WindowID
			case w.ID != nil:
				group.WindowID = *w.ID
			}
			windows = append(windows, group)
		}
		return WindowedSession{
			ID:           rec.ID,
			Name:         rec.Name,
			Windows:      windows,
			Created:      rec.Created,
			LastAccessed: rec.LastAccessed,
		}, nil
	}

	return LegacySession{
		ID:           rec.ID,
		Name:         rec.Name,
		Tabs:         rec.Tabs,
		Created:      rec.Created,
		LastAccessed: rec.LastAccessed,
	}, nil
}

// Normalize converts any stored shape into the canonical window-based Session.
func Normalize(stored StoredSession) Session {
	var s Session
	switch v := stored.(type) {
	case WindowedSession:
		s = Session{
			ID:           v.ID,
			Name:         v.Name,
			Windows:      compactWindows(v.Windows),
			Created:      v.Created,
			LastAccessed: v.LastAccessed,
		}
	case LegacySession:
		s = Session{
			ID:           v.ID,
			Name:         v.Name,
			Windows:      GroupTabsByWindow(v.Tabs),
			Created:      v.Created,
			LastAccessed: v.LastAccessed,
		}
	}
	if s.LastAccessed.IsZero() {
		s.LastAccessed = s.Created
	}
	s.Recount()
	return s
}

// UnmarshalJSON decodes either stored shape and normalizes it.
func (s *Session) UnmarshalJSON(data []byte) error {
	stored, err := DecodeStoredSession(data)
	if err != nil {
		return err
	}
	*s = Normalize(stored)
	return nil
}

// DecodeSessions decodes a JSON array of stored sessions into canonical form.
// A null or empty payload yields an empty list.
func DecodeSessions(data []byte) ([]Session, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Session{}, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("%w: sessions must be an array: %v", ErrInvalidFormat, err)
	}
	sessions := make([]Session, 0, len(raws))
	for i, raw := range raws {
		stored, err := DecodeStoredSession(raw)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		sessions = append(sessions, Normalize(stored))
	}
	return sessions, nil
}
