package core

import "strings"

// ColorKey names a display color for status badges.
type ColorKey string

const (
	ColorRed    ColorKey = "red"
	ColorYellow ColorKey = "yellow"
	ColorGreen  ColorKey = "green"
	ColorGray   ColorKey = "gray"
)

// Stock labels.
const (
	LabelOutOfStock = "Out of Stock"
	LabelLowStock   = "Low Stock"
	LabelInStock    = "In Stock"
)

// StockStatus is the derived stock badge for a supply.
type StockStatus struct {
	Label string   `json:"label"`
	Color ColorKey `json:"color"`
}

// ClassifyStock derives the stock badge. Negative quantities are not
// special-cased; against a non-negative stocking point they are Low Stock.
func ClassifyStock(quantity, stockingPoint int64) StockStatus {
	switch {
	case quantity == 0:
		return StockStatus{Label: LabelOutOfStock, Color: ColorRed}
	case quantity <= stockingPoint:
		return StockStatus{Label: LabelLowStock, Color: ColorYellow}
	default:
		return StockStatus{Label: LabelInStock, Color: ColorGreen}
	}
}

var equipmentStatusColors = map[string]ColorKey{
	"working":    ColorGreen,
	"for_repair": ColorRed,
	"in_use":     ColorYellow,
}

// ClassifyEquipmentStatus maps an equipment status to a badge color.
// Unknown or empty statuses are gray.
func ClassifyEquipmentStatus(status string) ColorKey {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "_")
	if c, ok := equipmentStatusColors[key]; ok {
		return c
	}
	return ColorGray
}

// Decorate returns a copy of rec with derived view fields for the kind:
// stock_status and stock_color for stock kinds, status_color for kinds with
// a status field. The stored record is not modified.
func Decorate(rec Record, def KindDefinition) Record {
	out := rec.Clone()
	if def.HasStock() {
		q, _ := rec.Int(def.QuantityField)
		sp, _ := rec.Int(def.StockingPointField)
		st := ClassifyStock(q, sp)
		out["stock_status"] = st.Label
		out["stock_color"] = string(st.Color)
	}
	if def.StatusField != "" {
		out["status_color"] = string(ClassifyEquipmentStatus(rec.Text(def.StatusField)))
	}
	return out
}
