package web

// errors.go provides unified error response handling for the web layer.
//
// Every failure is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned as JSON {detail, action, code}, where detail is the message
//     API clients show to users verbatim
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status is chosen from the error's kind
//  4. core.MapError turns the error into a user message and code
//  5. Technical error + context is logged with request ID for correlation

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/facilitydesk/internal/core"
	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errBadRequest   = errors.New("invalid request")
	errFileTooLarge = errors.New("file too large")
	errNoFile       = errors.New("no file provided")
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`

	// Rejected carries per-row reasons when an import had no valid rows.
	Rejected []core.RejectedRow `json:"rejected,omitempty"`
}

// respondError writes err with the status implied by its kind.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorStatus(w, r, err, statusFor(err))
}

// respondErrorStatus writes err with an explicit status.
func respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	writeErrorResponse(w, r, err, status, nil)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error, status int, rejected []core.RejectedRow) {
	msg := userMessage(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Detail:   msg.Message,
		Action:   msg.Action,
		Code:     msg.Code,
		Rejected: rejected,
	})
}

// userMessage maps err to its user-facing message. Validation errors keep
// their field list so clients can point at the offending inputs.
func userMessage(err error) core.UserMessage {
	var verr core.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := core.MapError(err)
		msg.Message = verr.Error()
		return msg
	case errors.Is(err, errBadRequest):
		return core.UserMessage{Message: err.Error(), Action: "Check the request and try again", Code: "VAL002"}
	}
	return core.MapError(err)
}

// statusFor picks the HTTP status for an error.
func statusFor(err error) int {
	var verr core.ValidationError
	switch {
	case errors.Is(err, core.ErrUnknownKind),
		errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrChecklistNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr),
		errors.Is(err, core.ErrNoValidRows),
		errors.Is(err, core.ErrInvalidChecklist):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrMalformedInput),
		errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrInvalidImage),
		errors.Is(err, errBadRequest),
		errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
