package core

// error_messages.go maps technical errors to user-facing messages with codes
// that staff can quote to support.
//
// # Error Codes Reference
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate: A record with this value already exists
//	        Patterns: "duplicate key", "unique constraint", "violates unique"
//
//	DB002 - Unknown facility: The referenced facility does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB003 - Unavailable: Unable to reach the database
//	        Patterns: "connection refused", "connection reset"
//
//	DB004 - Busy: The database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: A required field is empty
//	         Patterns: "missing required field"
//
//	VAL002 - Invalid value: A field has an invalid value
//	         Patterns: "invalid value"
//
//	VAL003 - Invalid checklist: The maintenance log does not match its checklist
//	         Patterns: "invalid checklist"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size
//	          Patterns: "file too large"
//
//	FILE002 - Malformed file: The file has no header row or no data rows
//	          Patterns: "malformed input"
//
//	FILE003 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE004 - Unsupported format: Only .csv and .xlsx files are accepted
//	          Patterns: "unsupported file format"
//
//	FILE005 - Invalid image: The image is not an accepted type or size
//	          Patterns: "invalid image"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - No valid rows: Every row failed validation
//	         Patterns: "no valid rows"
//
//	IMP002 - System busy: Too many imports in progress
//	         Patterns: "too many concurrent imports"
//
//	IMP003 - Request cancelled
//	         Patterns: "context canceled"
//
//	IMP004 - Request timeout
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Resource Errors (RES001-RES099)
//
//	RES001 - Not found: The record does not exist
//	         Patterns: "record not found", "checklist not found"
//
//	RES002 - Unknown kind: The record type is not configured
//	         Patterns: "unknown kind"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What went wrong
	Action  string `json:"action"`  // What the user can do about it
	Code    string `json:"code"`    // Reference code for support
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database
	{"duplicate key", UserMessage{"A record with this value already exists", "Check for duplicate entries and try again", "DB001"}},
	{"unique constraint", UserMessage{"A record with this value already exists", "Check for duplicate entries and try again", "DB001"}},
	{"violates unique", UserMessage{"A record with this value already exists", "Check for duplicate entries and try again", "DB001"}},
	{"foreign key constraint", UserMessage{"The referenced facility does not exist", "Pick a facility from the facility list", "DB002"}},
	{"violates foreign key", UserMessage{"The referenced facility does not exist", "Pick a facility from the facility list", "DB002"}},
	{"connection refused", UserMessage{"Unable to connect to the database", "Please try again in a few moments", "DB003"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB003"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB004"}},

	// Validation
	{"missing required field", UserMessage{"A required field is empty", "Fill in every required field", "VAL001"}},
	{"invalid checklist", UserMessage{"The maintenance log does not match its checklist", "Answer every checklist item with ok, needs_attention, or not_applicable", "VAL003"}},
	{"invalid value", UserMessage{"A field has an invalid value", "Check the highlighted fields", "VAL002"}},

	// File
	{"file too large", UserMessage{"File exceeds the maximum size", "Split the file into smaller files", "FILE001"}},
	{"malformed input", UserMessage{"The file needs a header row and at least one data row", "Download the template and fill in your rows below the header", "FILE002"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a file to upload", "FILE003"}},
	{"unsupported file format", UserMessage{"Unsupported file format", "Upload a .csv or .xlsx file", "FILE004"}},
	{"invalid image", UserMessage{"The image is not an accepted type or is too large", "Upload a jpg, jpeg, png, gif, or webp image", "FILE005"}},

	// Import
	{"no valid rows", UserMessage{"No valid rows found in the file", "Make sure every row has the required fields filled in", "IMP001"}},
	{"too many concurrent imports", UserMessage{"System is busy processing other imports", "Please wait a moment and try again", "IMP002"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "IMP003"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or check your connection", "IMP004"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "IMP004"}},

	// Resources
	{"record not found", UserMessage{"Record not found", "It may have been deleted. Refresh the list", "RES001"}},
	{"checklist not found", UserMessage{"Checklist not found", "Verify the checklist name is correct", "RES001"}},
	{"unknown kind", UserMessage{"Unknown record type", "Use equipments or supplies", "RES002"}},

	// Rate limiting
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern (not ERR000).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
