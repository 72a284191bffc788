// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/podium/internal/adapters/storage"
	"github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Tables lists the configured table ids.
	Tables() []string

	// List returns the current leaderboard for table.
	List(ctx context.Context, table string) ([]model.Entry, error)

	// Submit runs the admission flow and returns the resulting board.
	Submit(ctx context.Context, table string, cand model.Entry, proof string) ([]model.Entry, bool, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	tablesHandler    *TablesHandler
	highscoreHandler *HighscoreHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		tablesHandler:    NewTablesHandler(deps),
		highscoreHandler: NewHighscoreHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/tables", RequestIDMiddleware(MetricsMiddleware(s.tablesHandler.HandleListTables, "tables")))
	mux.HandleFunc("/highscore/", RequestIDMiddleware(MetricsMiddleware(s.highscoreHandler.Handle, "highscore")))
}

// highscoresResponse mirrors the wire shape for leaderboard reads and
// submissions: the table name plus its ranked rows.
type highscoresResponse struct {
	Name       string        `json:"name"`
	Highscores []model.Entry `json:"highscores"`
}

func newHighscoresResponse(table string, entries []model.Entry) highscoresResponse {
	if entries == nil {
		entries = []model.Entry{}
	}
	return highscoresResponse{Name: table, Highscores: entries}
}

// submitRequest mirrors the wire shape for POST /highscore/save/{table}.
// Score is a pointer so a missing field is distinguishable from zero.
type submitRequest struct {
	Name  string `json:"name"`
	Score *int64 `json:"score"`
	Proof string `json:"proof,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEngineError translates engine and storage error kinds to HTTP
// responses: unknown table and bad proof are client faults, corrupt or
// unavailable storage are server faults.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownTable):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrProofMismatch):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, app.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, storage.ErrCorruptTable):
		writeError(w, http.StatusInternalServerError, "corrupt_table", err)
	case errors.Is(err, storage.ErrStorageUnavailable):
		writeError(w, http.StatusInternalServerError, "storage_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
