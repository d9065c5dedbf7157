// Package placeholder serves the page a suspended tab shows and the restore
// endpoint that page calls.
package placeholder

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/logging"
)

// RestorePath receives POST /restore?uniqueId=<id>.
const RestorePath = "/restore"

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("suspended").Parse(pageHTML))

// Tracker is the part of the suspension tracker the page drives.
type Tracker interface {
	Lookup(ctx context.Context, id entity.UniqueID) (entity.SuspendedTab, bool, error)
	Restore(ctx context.Context, id entity.UniqueID) (usecase.RestoredTab, error)
}

// Server renders placeholder pages and restores tabs on request.
type Server struct {
	tracker Tracker
	logger  zerolog.Logger
	now     func() time.Time
}

// NewServer creates a server. Handlers log through logger.
func NewServer(tracker Tracker, logger zerolog.Logger) *Server {
	return &Server{tracker: tracker, logger: logger, now: time.Now}
}

// Register mounts the page at pagePath and the restore endpoint on mux.
func (s *Server) Register(mux *http.ServeMux, pagePath string) {
	mux.HandleFunc("GET "+pagePath, s.handlePage)
	mux.HandleFunc("POST "+RestorePath, s.handleRestore)
}

// PagePath returns the path to serve when the placeholder URL points at an
// http(s) address, and false for any other scheme.
func PagePath(p url.Placeholder) (string, bool) {
	scheme, path := p.SchemeAndPath()
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	if path == "" {
		path = "/"
	}
	return path, true
}

type pageData struct {
	ID          string
	Found       bool
	Title       string
	URL         string
	FaviconURL  string
	SuspendedAt string
	Message     string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithContext(r.Context(), s.logger)
	id := r.URL.Query().Get(url.UniqueIDParam)

	data := pageData{ID: id, Title: "Tab Not Found", Message: "This suspended tab may have been cleaned up or restored"}
	status := http.StatusNotFound
	switch {
	case id == "":
		data.Title, data.Message = "Invalid Tab", "No valid tab identifier found"
		status = http.StatusBadRequest
	default:
		rec, ok, err := s.tracker.Lookup(ctx, entity.UniqueID(id))
		if err != nil {
			s.logger.Warn().Err(err).Str(logging.FieldEvent, "placeholder_lookup_failed").Str("unique_id", id).
				Msg("could not read suspended tab")
			data.Title, data.Message = "Error Loading Tab", "Please try refreshing"
			status = http.StatusInternalServerError
		} else if ok {
			data.Found = true
			data.Title = rec.Title
			if data.Title == "" {
				data.Title = rec.URL
			}
			data.URL = rec.URL
			data.FaviconURL = rec.FaviconURL
			data.SuspendedAt = Ago(s.now(), rec.SuspendedAt.Time)
			data.Message = ""
			status = http.StatusOK
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Debug().Err(err).Msg("placeholder page write failed")
	}
}

type restoreResponse struct {
	Restored bool   `json:"restored"`
	Reopened bool   `json:"reopened,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithContext(r.Context(), s.logger)
	id := r.URL.Query().Get(url.UniqueIDParam)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, restoreResponse{Error: "missing " + url.UniqueIDParam})
		return
	}

	res, err := s.tracker.Restore(ctx, entity.UniqueID(id))
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, entity.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, entity.ErrTimeout):
			status = http.StatusGatewayTimeout
		}
		s.logger.Warn().Err(err).Str(logging.FieldEvent, "placeholder_restore_failed").Str("unique_id", id).
			Int("status", status).Msg("restore from placeholder failed")
		writeJSON(w, status, restoreResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, restoreResponse{Restored: true, Reopened: res.Reopened, URL: res.Record.URL})
}

func writeJSON(w http.ResponseWriter, status int, body restoreResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Ago formats the time since a suspension the way the page shows it.
func Ago(now, at time.Time) string {
	if at.IsZero() {
		return ""
	}
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}
