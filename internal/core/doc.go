// Package core provides the tabular pipeline behind the inventory dashboards.
//
// The package has no HTTP dependencies. It can be used by web handlers,
// the CLI, or tests without modification.
//
// # Architecture
//
//   - Kind Definitions: equipment and supplies are registered via the
//     registry, each with field specs, header aliases and validation rules.
//   - Schema: [NormalizeHeader] and [CanonicalHeaders] translate between
//     human-entered headers and canonical field keys.
//   - Codec: [Parse], [Serialize], [SerializeWorkbook] and [ParseWorkbook].
//   - Query: [Filter], [Paginate] and [TotalPages] over in-memory records.
//   - Classifier: [ClassifyStock] and [ClassifyEquipmentStatus].
//   - Service: the entry point that joins the pipeline to a [Store].
//
// # Kind Registry
//
// Kinds are registered at init time using [Register]:
//
//	core.Register(core.KindDefinition{
//	    Info: core.KindInfo{Key: "supplies", Label: "Supplies"},
//	    FieldSpecs: []core.FieldSpec{
//	        {Key: "name", Label: "Name", Validate: "required"},
//	        {Key: "quantity", Label: "Quantity", Type: core.FieldInt, Aliases: []string{"qty"}},
//	    },
//	    NameField: "name",
//	})
//
// # Import Flow
//
//  1. The file is parsed into partial records; unknown columns are dropped.
//  2. Each record is checked against its kind's rules; failures are rejected
//     individually with their line number.
//  3. The remaining records are inserted in one transaction.
//
// # Delimited Text
//
// The text codec splits on newlines and commas. Quoted values containing
// commas are not supported, and exported values are quoted without escaping
// inner quotes.
package core
