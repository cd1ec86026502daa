package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"unknown facility", errors.New("insert or update on table \"supplies\" violates foreign key constraint"), "DB002"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "DB003"},
		{"malformed file", &MalformedInputError{Lines: 1}, "FILE002"},
		{"wrapped malformed file", fmt.Errorf("import supplies.csv: %w", &MalformedInputError{}), "FILE002"},
		{"required field", ValidationError{Fields: []string{"name"}, Message: "missing required field"}, "VAL001"},
		{"no valid rows", ErrNoValidRows, "IMP001"},
		{"busy", ErrTooManyImports, "IMP002"},
		{"not found", fmt.Errorf("supplies 42: %w", ErrNotFound), "RES001"},
		{"unknown kind", fmt.Errorf("%w: widgets", ErrUnknownKind), "RES002"},
		{"unsupported format", ErrUnsupportedFormat, "FILE004"},
		{"invalid image", fmt.Errorf("%w: .bmp not allowed", ErrInvalidImage), "FILE005"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"case insensitive", errors.New("DEADLOCK detected"), "DB004"},
		{"unknown error", errors.New("something odd happened"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Action == "" {
				t.Errorf("MapError(%v) has no action", tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrNoValidRows)
	want := "No valid rows found in the file (Code: IMP001). Make sure every row has the required fields filled in"
	if got != want {
		t.Errorf("FormatUserError = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(ErrNotFound) {
		t.Error("ErrNotFound should be user facing")
	}
	if IsUserFacing(errors.New("nil pointer dereference")) {
		t.Error("unknown errors should not be user facing")
	}
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
}
