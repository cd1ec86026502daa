package core_test

import (
	"math"
	"testing"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

func TestRecord_Int(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int64
		wantOK bool
	}{
		{"int64", int64(7), 7, true},
		{"int", 7, 7, true},
		{"int32", int32(-3), -3, true},
		{"whole float from json", float64(12), 12, true},
		{"negative whole float", float64(-4), -4, true},
		{"fractional float", 2.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"infinity", math.Inf(1), 0, false},
		{"beyond int64", 1e30, 0, false},
		{"string", "7", 0, false},
		{"missing", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := core.Record{}
			if tt.value != nil {
				rec["quantity"] = tt.value
			}
			got, ok := rec.Int("quantity")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Int = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if id := (core.Record{core.FieldID: float64(42)}).ID(); id != 42 {
		t.Errorf("ID() = %d, want 42", id)
	}
}
