package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExportDocument_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `nope`},
		{name: "missing version", doc: `{"sessions":[]}`},
		{name: "empty version", doc: `{"version":"","sessions":[]}`},
		{name: "missing sessions", doc: `{"version":"1.0.0"}`},
		{name: "sessions not array", doc: `{"version":"1.0.0","sessions":{"id":"a"}}`},
		{name: "sessions null", doc: `{"version":"1.0.0","sessions":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entity.ParseExportDocument([]byte(tt.doc))
			require.ErrorIs(t, err, entity.ErrInvalidFormat)
		})
	}
}

func TestExportDocument_RoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	sessions := []entity.Session{
		entity.NewSession("a", "A", []entity.WindowGroup{{WindowID: 1, Tabs: tabs(1, "https://a", "https://b")}}, now),
		entity.NewSession("b", "B", []entity.WindowGroup{{WindowID: 2, Tabs: tabs(2, "https://c")}}, now),
	}

	data, err := json.Marshal(entity.NewExportDocument(sessions, now))
	require.NoError(t, err)

	doc, err := entity.ParseExportDocument(data)
	require.NoError(t, err)
	assert.Equal(t, entity.ExportFormatVersion, doc.Version)
	assert.Equal(t, "2025-05-04T10:00:00Z", doc.ExportDate)
	assert.Equal(t, sessions, doc.Sessions)
}
