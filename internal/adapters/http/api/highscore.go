// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

const savePrefix = "save/"

// HighscoreHandler serves leaderboard reads and score submissions:
//
//	GET  /highscore/{table}       current leaderboard
//	POST /highscore/save/{table}  submit a score, returns the new board
type HighscoreHandler struct {
	deps Dependencies
}

// NewHighscoreHandler creates a new highscore handler.
func NewHighscoreHandler(deps Dependencies) *HighscoreHandler {
	return &HighscoreHandler{deps: deps}
}

// Handle routes requests under /highscore/.
func (h *HighscoreHandler) Handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/highscore/")
	if strings.HasPrefix(path, savePrefix) {
		h.handleSubmit(w, r, strings.TrimPrefix(path, savePrefix))
		return
	}
	h.handleGet(w, r, path)
}

func (h *HighscoreHandler) handleGet(w http.ResponseWriter, r *http.Request, table string) {
	const op = "api.get_highscore"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	table = strings.ToLower(strings.TrimSpace(table))
	if table == "" || strings.Contains(table, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New(op+": missing table name"))
		return
	}
	entries, err := h.deps.List(r.Context(), table)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newHighscoresResponse(table, entries))
}

func (h *HighscoreHandler) handleSubmit(w http.ResponseWriter, r *http.Request, table string) {
	const op = "api.save_highscore"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	table = strings.ToLower(strings.TrimSpace(table))
	if table == "" || strings.Contains(table, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New(op+": missing table name"))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	cand := model.Entry{Name: req.Name, Score: *req.Score}
	entries, _, err := h.deps.Submit(r.Context(), table, cand, req.Proof)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	// A candidate that did not qualify is still a successful request;
	// the unchanged board tells the client everything it needs.
	writeJSON(w, http.StatusOK, newHighscoresResponse(table, entries))
}

func (r submitRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("missing name")
	case r.Score == nil:
		return errors.New("missing score")
	}
	return nil
}
