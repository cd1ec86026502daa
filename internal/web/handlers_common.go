// This file contains shared request parsing helpers used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// maxJSONBody bounds JSON request bodies (bulk create included).
const maxJSONBody = 4 << 20

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parsePredicates reads category, facility, facility_mode and q from the
// query string. The facility mode falls back to the kind's own.
func parsePredicates(r *http.Request, def core.KindDefinition) core.Predicates {
	q := r.URL.Query()
	return core.Predicates{
		Category:     strings.TrimSpace(q.Get("category")),
		Facility:     strings.TrimSpace(q.Get("facility")),
		FacilityMode: core.ParseFacilityMode(q.Get("facility_mode"), def.FacilityMode),
		Query:        strings.TrimSpace(q.Get("q")),
	}
}

// kindParam returns the {kind} URL parameter. requireKind has already
// rejected unknown kinds.
func kindParam(r *http.Request) string {
	return chi.URLParam(r, "kind")
}

// kindDef resolves the {kind} URL parameter to its definition.
func kindDef(r *http.Request) (core.KindDefinition, error) {
	return core.MustGet(kindParam(r))
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id %q", errBadRequest, raw)
	}
	return id, nil
}

// decodeJSON decodes a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errFileTooLarge
		}
		return fmt.Errorf("%w: body is not valid JSON", errBadRequest)
	}
	return nil
}

// readFormFile reads one multipart file field, bounded by maxSize.
func readFormFile(w http.ResponseWriter, r *http.Request, field string, maxSize int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, errFileTooLarge
		}
		return "", nil, fmt.Errorf("%w: expected a multipart form", errBadRequest)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}

// writeFile sends a generated file as an attachment.
func writeFile(w http.ResponseWriter, f *core.ExportFile) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}
