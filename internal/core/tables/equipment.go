package tables

import "github.com/JonMunkholm/facilitydesk/internal/core"

func init() {
	registerEquipments()
}

func registerEquipments() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:   "equipments",
			Label: "Equipment",
		},
		FieldSpecs: []core.FieldSpec{
			{Key: "name", Label: "Name", Validate: "required", Width: 30, Aliases: []string{"equipment name", "item name"}},
			{Key: "category", Label: "Category", Width: 18},
			{Key: "status", Label: "Status", Width: 14},
			{Key: "po_number", Label: "PO Number", Width: 16, Aliases: []string{"p.o. number", "p.o. no.", "purchase order"}},
			{Key: "unit_number", Label: "Unit Number", Width: 14, Aliases: []string{"unit no", "unit no."}},
			{Key: "brand_name", Label: "Brand Name", Width: 18, Aliases: []string{"brand"}},
			{Key: "serial_number", Label: "Serial Number", Width: 20, Aliases: []string{"serial no", "serial no.", "sn"}},
			{Key: "property_number", Label: "Property Number", Width: 20, Aliases: []string{"property no", "property no."}},
			{Key: "control_number", Label: "Control Number", Width: 18, Aliases: []string{"control no", "control no."}},
			{Key: "date_acquired", Label: "Date Acquired", Width: 14, Aliases: []string{"acquired", "acquisition date"}},
			{Key: "supplier", Label: "Supplier", Width: 22, Aliases: []string{"vendor"}},
			{Key: "amount", Label: "Amount", Width: 12, Aliases: []string{"cost", "price"}},
			{Key: "estimated_life", Label: "Estimated Life", Width: 14, Aliases: []string{"useful life"}},
			{Key: "person_liable", Label: "Person Liable", Width: 22, Aliases: []string{"custodian", "accountable person"}},
			{Key: "description", Label: "Description", Width: 40},
			{Key: "remarks", Label: "Remarks", Width: 30, Aliases: []string{"notes"}},
			{Key: "image_url", Label: "Image URL", Width: 30, Aliases: []string{"image", "photo"}},
			{Key: "facility_id", Label: "Facility ID", Type: core.FieldOptionalInt, Width: 12, Aliases: []string{"facility"}},
		},
		NameField:     "name",
		CategoryField: "category",
		StatusField:   "status",
		FacilityMode:  core.FacilityByName,
	})
}
