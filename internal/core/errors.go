package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput matches any *MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")

	// ErrNoValidRows is returned by an import when every parsed row failed validation.
	ErrNoValidRows = errors.New("no valid rows to import")

	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownKind is returned for a record kind that is not registered.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrUnsupportedFormat is returned for import/export formats other than csv and xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidImage is returned when an uploaded image fails validation.
	ErrInvalidImage = errors.New("invalid image")
)

// MalformedInputError is returned by Parse when the input lacks a header row
// followed by at least one data row.
type MalformedInputError struct {
	Lines  int    // Non-blank lines found
	Reason string // Human-readable detail
}

func (e *MalformedInputError) Error() string {
	if e.Reason != "" {
		return "malformed input: " + e.Reason
	}
	return fmt.Sprintf("malformed input: need a header and at least one data row, found %d non-blank line(s)", e.Lines)
}

// Is lets errors.Is(err, ErrMalformedInput) match.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// ValidationError represents required-field failures for a single record.
type ValidationError struct {
	Fields  []string // Canonical keys that failed
	Message string   // Human-readable error message
}

func (e ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Message)
	}
	return e.Message
}
