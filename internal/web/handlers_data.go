package web

import (
	"net/http"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// handleList returns every record of a kind matching the filter parameters.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	def, err := kindDef(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, err := s.service.List(r.Context(), def.Info.Key, parsePredicates(r, def))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handlePage returns one page of filtered, classified records.
// Pages past the end come back empty rather than clamped.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	def, err := kindDef(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page := parseIntParam(r, "page", 1)
	size := parseIntParam(r, "page_size", core.DefaultPageSize)

	result, err := s.service.Page(r.Context(), def.Info.Key, parsePredicates(r, def), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGet returns one record.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Get(r.Context(), kindParam(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleExport streams the filtered records as CSV (default) or xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	def, err := kindDef(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	format := core.FormatCSV
	if raw := r.URL.Query().Get("format"); raw != "" {
		if format, err = core.ParseFormat(raw); err != nil {
			respondError(w, r, err)
			return
		}
	}

	file, err := s.service.Export(r.Context(), def.Info.Key, format, parsePredicates(r, def))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeFile(w, file)
}

// handleTemplate returns a header-only CSV for the kind.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	file, err := s.service.Template(kindParam(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeFile(w, file)
}
