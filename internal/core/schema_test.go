package core_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/JonMunkholm/facilitydesk/internal/core"
	_ "github.com/JonMunkholm/facilitydesk/internal/core/tables"
)

func TestNormalizeHeader_Variants(t *testing.T) {
	tests := []struct {
		kind   string
		raw    string
		want   string
		wantOK bool
	}{
		{"equipments", "Date Acquired", "date_acquired", true},
		{"equipments", "date_acquired", "date_acquired", true},
		{"equipments", "dateacquired", "date_acquired", true},
		{"equipments", "  DATE ACQUIRED ", "date_acquired", true},
		{"equipments", "po number", "po_number", true},
		{"equipments", "PO_Number", "po_number", true},
		{"equipments", "ponumber", "po_number", true},
		{"equipments", "Purchase Order", "po_number", true},
		{"supplies", "Qty", "quantity", true},
		{"supplies", "Stocking Point", "stocking_point", true},
		{"supplies", "Facility ID", "facility_id", true},
		{"supplies", "totally_unknown_field", "", false},
		{"supplies", "", "", false},
		{"widgets", "name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.raw, func(t *testing.T) {
			got, ok := core.NormalizeHeader(tt.kind, tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeHeader(%q, %q) = (%q, %v), want (%q, %v)",
					tt.kind, tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeHeader_AliasIdempotence(t *testing.T) {
	for _, def := range core.All() {
		kind := def.Info.Key
		for alias, key := range core.Aliases(kind) {
			fromAlias, ok := core.NormalizeHeader(kind, alias)
			if !ok {
				t.Errorf("%s: alias %q does not resolve", kind, alias)
				continue
			}
			fromKey, _ := core.NormalizeHeader(kind, key)
			if fromAlias != fromKey || fromAlias != key {
				t.Errorf("%s: alias %q -> %q, key %q -> %q", kind, alias, fromAlias, key, fromKey)
			}
		}

		// Every canonical key and every label is its own alias.
		for _, spec := range def.FieldSpecs {
			for _, name := range []string{spec.Key, spec.Label} {
				if got, ok := core.NormalizeHeader(kind, name); !ok || got != spec.Key {
					t.Errorf("%s: NormalizeHeader(%q) = (%q, %v), want %q", kind, name, got, ok, spec.Key)
				}
			}
		}
	}
}

func TestCanonicalHeaders(t *testing.T) {
	got := core.CanonicalHeaders("supplies")
	want := []string{"Name", "Category", "Description", "Quantity", "Stock Unit",
		"Stocking Point", "Facility ID", "Remarks", "Image URL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CanonicalHeaders(supplies) = %v, want %v", got, want)
	}

	got[0] = "changed"
	if core.CanonicalHeaders("supplies")[0] != "Name" {
		t.Error("CanonicalHeaders returned a shared slice")
	}

	if core.CanonicalHeaders("widgets") != nil {
		t.Error("unknown kind should have no headers")
	}
}

func TestSanitize(t *testing.T) {
	def, _ := core.Get("supplies")

	body := map[string]any{
		"Name":           "Gloves",
		"qty":            float64(12),
		"stocking_point": "3",
		"facility_id":    "not a number",
		"id":             float64(99),
		"facility_name":  "Main",
		"bogus":          "x",
		"remarks":        nil,
	}
	got := core.Sanitize(def, body)
	want := core.Record{
		"name":           "Gloves",
		"quantity":       int64(12),
		"stocking_point": int64(3),
		"remarks":        "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize = %#v, want %#v", got, want)
	}
}

func TestSanitize_UnusableNumbers(t *testing.T) {
	def, _ := core.Get("supplies")

	got := core.Sanitize(def, map[string]any{
		"name":           "Gloves",
		"quantity":       1e30,
		"stocking_point": math.Inf(-1),
		"facility_id":    math.NaN(),
	})
	want := core.Record{"name": "Gloves", "quantity": int64(0), "stocking_point": int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize = %#v, want %#v", got, want)
	}
}
