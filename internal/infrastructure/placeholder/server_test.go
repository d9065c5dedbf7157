package placeholder_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/infrastructure/placeholder"
)

type fakeTracker struct {
	records    map[entity.UniqueID]entity.SuspendedTab
	restoreErr error
	restored   []entity.UniqueID
}

func (f *fakeTracker) Lookup(_ context.Context, id entity.UniqueID) (entity.SuspendedTab, bool, error) {
	rec, ok := f.records[id]
	return rec, ok, nil
}

func (f *fakeTracker) Restore(_ context.Context, id entity.UniqueID) (usecase.RestoredTab, error) {
	if f.restoreErr != nil {
		return usecase.RestoredTab{}, f.restoreErr
	}
	rec, ok := f.records[id]
	if !ok {
		return usecase.RestoredTab{}, entity.ErrNotFound
	}
	f.restored = append(f.restored, id)
	return usecase.RestoredTab{Record: rec, Tab: entity.BrowserTab{ID: rec.BrowserTabID, URL: rec.URL}}, nil
}

func newMux(tracker placeholder.Tracker) *http.ServeMux {
	mux := http.NewServeMux()
	placeholder.NewServer(tracker, zerolog.Nop()).Register(mux, "/suspended")
	return mux
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func sampleTracker() *fakeTracker {
	return &fakeTracker{records: map[entity.UniqueID]entity.SuspendedTab{
		"u-1": {
			UniqueID:     "u-1",
			BrowserTabID: 7,
			URL:          "https://go.dev/doc",
			Title:        "Docs <Go>",
			FaviconURL:   "https://go.dev/favicon.ico",
			SuspendedAt:  entity.NewTimestamp(time.Now().Add(-2 * time.Hour)),
		},
	}}
}

func TestServer_PageShowsSuspendedTab(t *testing.T) {
	rr := serve(newMux(sampleTracker()), http.MethodGet, "/suspended?uniqueId=u-1")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Docs &lt;Go&gt;</title>")
	assert.Contains(t, body, `href="https://go.dev/favicon.ico"`)
	assert.Contains(t, body, "https://go.dev/doc")
	assert.Contains(t, body, "2h")
	assert.Contains(t, body, "location.href = target")
}

func TestServer_PageUnknownOrMissingID(t *testing.T) {
	mux := newMux(sampleTracker())

	rr := serve(mux, http.MethodGet, "/suspended?uniqueId=gone")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Tab Not Found")
	assert.NotContains(t, rr.Body.String(), "<script>")

	rr = serve(mux, http.MethodGet, "/suspended?id=42")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid Tab")
}

func TestServer_Restore(t *testing.T) {
	tracker := sampleTracker()
	rr := serve(newMux(tracker), http.MethodPost, "/restore?uniqueId=u-1")

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["restored"])
	assert.Equal(t, "https://go.dev/doc", body["url"])
	assert.Equal(t, []entity.UniqueID{"u-1"}, tracker.restored)
}

func TestServer_RestoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{name: "unknown id", target: "/restore?uniqueId=gone", want: http.StatusNotFound},
		{name: "missing id", target: "/restore", want: http.StatusBadRequest},
		{name: "browser timeout", target: "/restore?uniqueId=u-1", err: entity.ErrTimeout, want: http.StatusGatewayTimeout},
		{name: "browser failure", target: "/restore?uniqueId=u-1", err: errors.New("cdp closed"), want: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := sampleTracker()
			tracker.restoreErr = tt.err
			rr := serve(newMux(tracker), http.MethodPost, tt.target)
			assert.Equal(t, tt.want, rr.Code)
			assert.Empty(t, tracker.restored)
		})
	}
}

func TestServer_RestoreRequiresPost(t *testing.T) {
	rr := serve(newMux(sampleTracker()), http.MethodGet, "/restore?uniqueId=u-1")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPagePath(t *testing.T) {
	p, err := url.NewPlaceholder("http://127.0.0.1:7717/suspended")
	require.NoError(t, err)
	path, ok := placeholder.PagePath(p)
	assert.True(t, ok)
	assert.Equal(t, "/suspended", path)

	p, err = url.NewPlaceholder("omni://suspended")
	require.NoError(t, err)
	_, ok = placeholder.PagePath(p)
	assert.False(t, ok)
}

func TestAgo(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", placeholder.Ago(now, now.Add(-30*time.Second)))
	assert.Equal(t, "5m", placeholder.Ago(now, now.Add(-5*time.Minute)))
	assert.Equal(t, "3h", placeholder.Ago(now, now.Add(-3*time.Hour)))
	assert.Equal(t, "2d", placeholder.Ago(now, now.Add(-50*time.Hour)))
	assert.Empty(t, placeholder.Ago(now, time.Time{}))
}
