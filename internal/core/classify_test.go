package core_test

import (
	"testing"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		quantity, stockingPoint int64
		wantLabel               string
		wantColor               core.ColorKey
	}{
		{0, 5, "Out of Stock", core.ColorRed},
		{5, 5, "Low Stock", core.ColorYellow},
		{1, 5, "Low Stock", core.ColorYellow},
		{6, 5, "In Stock", core.ColorGreen},
		{-1, 5, "Low Stock", core.ColorYellow},
		{0, 0, "Out of Stock", core.ColorRed},
		{1, 0, "In Stock", core.ColorGreen},
	}

	for _, tt := range tests {
		got := core.ClassifyStock(tt.quantity, tt.stockingPoint)
		if got.Label != tt.wantLabel || got.Color != tt.wantColor {
			t.Errorf("ClassifyStock(%d, %d) = %+v, want {%s %s}",
				tt.quantity, tt.stockingPoint, got, tt.wantLabel, tt.wantColor)
		}
	}
}

func TestClassifyEquipmentStatus(t *testing.T) {
	tests := []struct {
		status string
		want   core.ColorKey
	}{
		{"working", core.ColorGreen},
		{"Working", core.ColorGreen},
		{"For Repair", core.ColorRed},
		{"for_repair", core.ColorRed},
		{"IN USE", core.ColorYellow},
		{"in_use", core.ColorYellow},
		{"", core.ColorGray},
		{"condemned", core.ColorGray},
	}

	for _, tt := range tests {
		if got := core.ClassifyEquipmentStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyEquipmentStatus(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestDecorate(t *testing.T) {
	supply := mustKind(t, "supplies")
	rec := core.Record{"name": "Gloves", "quantity": int64(2), "stocking_point": int64(5)}

	got := core.Decorate(rec, supply)
	if got["stock_status"] != "Low Stock" || got["stock_color"] != "yellow" {
		t.Errorf("Decorate(supply) = %v", got)
	}
	if _, ok := rec["stock_status"]; ok {
		t.Error("Decorate modified its input")
	}

	equipment := mustKind(t, "equipments")
	got = core.Decorate(core.Record{"status": "for repair"}, equipment)
	if got["status_color"] != "red" {
		t.Errorf("status_color = %v, want red", got["status_color"])
	}
	if _, ok := got["stock_status"]; ok {
		t.Error("equipment should not carry stock_status")
	}
}
