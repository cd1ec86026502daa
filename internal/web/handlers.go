package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// handleHealth reports liveness and import capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.Limiter().Status(),
	})
}

// handleListKinds returns the registered record kinds with their headers.
func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Kinds())
}

// handleListFacilities returns the read-only facility lookup.
func (s *Server) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := s.service.Facilities(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if facilities == nil {
		facilities = []core.Facility{}
	}
	writeJSON(w, http.StatusOK, facilities)
}

// handleRefreshFacilities drops the cached lookup and returns a fresh one.
func (s *Server) handleRefreshFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := s.service.RefreshFacilities(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if facilities == nil {
		facilities = []core.Facility{}
	}
	writeJSON(w, http.StatusOK, facilities)
}

// handleStockSummary returns the result of the last stock sweep, running
// one on demand if none has happened yet.
func (s *Server) handleStockSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.service.StockSummary()
	if !ok {
		var err error
		summary, err = s.service.CheckStock(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListChecklists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Checklists())
}

func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	c, err := core.GetChecklist(chi.URLParam(r, "checklist"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListMaintenanceLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.service.MaintenanceLogs(r.Context(), chi.URLParam(r, "checklist"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if logs == nil {
		logs = []core.MaintenanceLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleSubmitMaintenanceLog stores a completed checklist. The checklist
// in the URL wins over any value in the body.
func (s *Server) handleSubmitMaintenanceLog(w http.ResponseWriter, r *http.Request) {
	var log core.MaintenanceLog
	if err := decodeJSON(w, r, &log); err != nil {
		respondError(w, r, err)
		return
	}
	log.Checklist = chi.URLParam(r, "checklist")

	saved, err := s.service.SubmitMaintenanceLog(r.Context(), log)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
