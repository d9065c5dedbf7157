package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportFormatVersion is written into every export document.
const ExportFormatVersion = "1.0.0"

// ExportDocument is the single-file export/import format.
type ExportDocument struct {
	Version    string    `json:"version" yaml:"version" jsonschema:"required,description=Export format version"`
	ExportDate string    `json:"exportDate" yaml:"exportDate" jsonschema:"required,format=date-time"`
	Sessions   []Session `json:"sessions" yaml:"sessions" jsonschema:"required"`
}

// NewExportDocument wraps sessions with the current format version and time.
func NewExportDocument(sessions []Session, now time.Time) ExportDocument {
	return ExportDocument{
		Version:    ExportFormatVersion,
		ExportDate: now.UTC().Format(time.RFC3339Nano),
		Sessions:   sessions,
	}
}

// ParseExportDocument validates the document shape and normalizes its sessions.
// A missing version, or a missing or non-array sessions field, yields ErrInvalidFormat.
func ParseExportDocument(data []byte) (ExportDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return ExportDocument{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var version string
	if raw, ok := top["version"]; ok {
		_ = json.Unmarshal(raw, &version)
	}
	if version == "" {
		return ExportDocument{}, fmt.Errorf("%w: missing version", ErrInvalidFormat)
	}

	raw, ok := top["sessions"]
	if !ok {
		return ExportDocument{}, fmt.Errorf("%w: missing sessions", ErrInvalidFormat)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return ExportDocument{}, fmt.Errorf("%w: sessions is not an array", ErrInvalidFormat)
	}
	sessions, err := DecodeSessions(raw)
	if err != nil {
		return ExportDocument{}, err
	}

	doc := ExportDocument{Version: version, Sessions: sessions}
	if rawDate, ok := top["exportDate"]; ok {
		_ = json.Unmarshal(rawDate, &doc.ExportDate)
	}
	return doc, nil
}
