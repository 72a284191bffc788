// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// TablesDependencies defines the interface for table listing.
type TablesDependencies interface {
	Tables() []string
}

// TablesHandler handles table listing requests.
type TablesHandler struct {
	deps TablesDependencies
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TablesDependencies) *TablesHandler {
	return &TablesHandler{deps: deps}
}

type tablesResponse struct {
	Tables []string `json:"tables"`
}

// HandleListTables handles GET /tables requests.
func (h *TablesHandler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{Tables: h.deps.Tables()})
}
