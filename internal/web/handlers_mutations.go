package web

import (
	"fmt"
	"net/http"
)

// handleCreate creates one record from a JSON object. Keys may be
// canonical names, header labels or known aliases.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Create(r.Context(), kindParam(r), body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleBulkCreate creates every record of a JSON array or none of them.
func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var bodies []map[string]any
	if err := decodeJSON(w, r, &bodies); err != nil {
		respondError(w, r, err)
		return
	}
	if len(bodies) == 0 {
		respondError(w, r, fmt.Errorf("%w: expected a non-empty array of records", errBadRequest))
		return
	}

	created, err := s.service.BulkCreate(r.Context(), kindParam(r), bodies)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdate applies a partial or whole update to one record.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var fields map[string]any
	if err := decodeJSON(w, r, &fields); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Update(r.Context(), kindParam(r), id, fields)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleBulkDelete deletes the records listed in {"ids": [...]}.
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, r, fmt.Errorf("%w: ids must not be empty", errBadRequest))
		return
	}

	deleted, err := s.service.BulkDelete(r.Context(), kindParam(r), req.IDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
