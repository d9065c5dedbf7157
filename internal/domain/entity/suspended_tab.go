package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// UniqueID is the durable identity of a suspended tab.
type UniqueID string

// BrowserTabID is the browser's own tab id. It is recycled and does not survive restarts.
type BrowserTabID int

// SuspendedTab is the pre-suspension state of a tab, keyed by UniqueID.
type SuspendedTab struct {
	UniqueID     UniqueID     `json:"uniqueId"`
	BrowserTabID BrowserTabID `json:"tabId"`
	URL          string       `json:"url"`
	Title        string       `json:"title"`
	FaviconURL   string       `json:"favIconUrl,omitempty"`
	WindowID     int          `json:"windowId"`
	Index        int          `json:"index"`
	SuspendedAt  Timestamp    `json:"suspendedAt"`
}

// OlderThan reports whether the record was suspended more than maxAge before now.
func (t SuspendedTab) OlderThan(now time.Time, maxAge time.Duration) bool {
	return now.Sub(t.SuspendedAt.Time) > maxAge
}

// legacySuspendedTab is the record written before uniqueId existed:
// keyed by the browser tab id, with the time under "suspended".
type legacySuspendedTab struct {
	UniqueID    UniqueID     `json:"uniqueId"`
	ID          BrowserTabID `json:"id"`
	TabID       BrowserTabID `json:"tabId"`
	URL         string       `json:"url"`
	Title       string       `json:"title"`
	FaviconURL  string       `json:"favIconUrl"`
	WindowID    int          `json:"windowId"`
	Index       int          `json:"index"`
	SuspendedAt Timestamp    `json:"suspendedAt"`
	Suspended   Timestamp    `json:"suspended"`
}

// DecodeSuspendedTabs reads persisted records, accepting the legacy shape.
// Records with an empty UniqueID are returned as-is for the caller to assign one.
func DecodeSuspendedTabs(data []byte) ([]SuspendedTab, error) {
	if len(data) == 0 || string(data) == "null" {
		return []SuspendedTab{}, nil
	}
	var raws []legacySuspendedTab
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: suspended tabs: %v", ErrInvalidFormat, err)
	}
	out := make([]SuspendedTab, 0, len(raws))
	for _, r := range raws {
		tabID := r.TabID
		if tabID == 0 {
			tabID = r.ID
		}
		at := r.SuspendedAt
		if at.IsZero() {
			at = r.Suspended
		}
		out = append(out, SuspendedTab{
			UniqueID:     r.UniqueID,
			BrowserTabID: tabID,
			URL:          r.URL,
			Title:        r.Title,
			FaviconURL:   r.FaviconURL,
			WindowID:     r.WindowID,
			Index:        r.Index,
			SuspendedAt:  at,
		})
	}
	return out, nil
}
