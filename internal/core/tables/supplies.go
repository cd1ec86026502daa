package tables

import "github.com/JonMunkholm/facilitydesk/internal/core"

func init() {
	registerSupplies()
}

func registerSupplies() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:   "supplies",
			Label: "Supplies",
		},
		FieldSpecs: []core.FieldSpec{
			{Key: "name", Label: "Name", Validate: "required", Width: 30, Aliases: []string{"supply name", "item name", "item"}},
			{Key: "category", Label: "Category", Validate: "required", Width: 18},
			{Key: "description", Label: "Description", Width: 40},
			{Key: "quantity", Label: "Quantity", Type: core.FieldInt, Width: 10, Aliases: []string{"qty"}},
			{Key: "stock_unit", Label: "Stock Unit", Validate: "required", Width: 12, Aliases: []string{"unit", "uom"}},
			{Key: "stocking_point", Label: "Stocking Point", Type: core.FieldInt, Width: 14, Aliases: []string{"reorder point", "reorder level"}},
			{Key: "facility_id", Label: "Facility ID", Type: core.FieldOptionalInt, Width: 12, Aliases: []string{"facility"}},
			{Key: "remarks", Label: "Remarks", Width: 30, Aliases: []string{"notes"}},
			{Key: "image_url", Label: "Image URL", Width: 30, Aliases: []string{"image", "photo"}},
		},
		NameField:          "name",
		CategoryField:      "category",
		QuantityField:      "quantity",
		StockingPointField: "stocking_point",
		FacilityMode:       core.FacilityByID,
	})
}
