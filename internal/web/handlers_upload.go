package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// handleImport accepts a .csv or .xlsx file in the "file" form field and
// bulk-creates its valid rows. Rows that fail validation are reported back
// with their line numbers.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name, data, err := readFormFile(w, r, "file", s.cfg.Import.MaxFileSize)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.Import(r.Context(), kindParam(r), name, data)
	if err != nil {
		if errors.Is(err, core.ErrTooManyImports) {
			w.Header().Set("Retry-After", "30")
		}
		var rejected []core.RejectedRow
		if result != nil {
			rejected = result.Rejected
		}
		writeErrorResponse(w, r, err, statusFor(err), rejected)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleAttachImage stores a photo from the "image" form field and points
// the record's image_url at it.
func (s *Server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Leave headroom for the multipart envelope; the service enforces the
	// exact image limit.
	name, data, err := readFormFile(w, r, "image", s.cfg.Import.MaxImageSize+1<<20)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.AttachImage(r.Context(), kindParam(r), id, name, data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
