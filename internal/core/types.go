package core

import (
	"context"
	"math"
	"time"
)

// Keys the record store adds to every row. They are not part of any
// kind's FieldSpecs and are never read from an import file.
const (
	FieldID           = "id"
	FieldCreatedAt    = "created_at"
	FieldFacilityName = "facility_name"
)

// FieldType represents how a raw cell is coerced into a record value.
type FieldType int

const (
	// FieldText passes the cell through unchanged, including "".
	FieldText FieldType = iota
	// FieldInt parses an integer and falls back to 0 on failure.
	FieldInt
	// FieldOptionalInt parses an integer and leaves the key absent on failure.
	FieldOptionalInt
)

// FieldSpec describes one canonical column of a record kind.
type FieldSpec struct {
	Key      string   // Canonical field key and database column
	Label    string   // Export column header
	Type     FieldType
	Aliases  []string // Extra accepted header spellings (the key and label are always accepted)
	Validate string   // validator/v10 rule for import and create, e.g. "required"
	Width    float64  // Workbook column width hint
}

// KindInfo contains display information about a record kind.
type KindInfo struct {
	Key     string   `json:"key"`     // URL segment and table name: "equipments"
	Label   string   `json:"label"`   // Display name: "Equipment"
	Headers []string `json:"headers"` // Export headers, filled by Register

	// Aliases maps every accepted normalized header spelling to its key.
	// Filled by Service.Kinds.
	Aliases map[string]string `json:"aliases,omitempty"`
}

// KindDefinition contains everything the pipeline needs to handle a record kind.
type KindDefinition struct {
	Info       KindInfo
	FieldSpecs []FieldSpec

	// Fields the query engine reads.
	NameField     string
	CategoryField string

	// Supplies carry stock fields; empty for kinds without stock.
	QuantityField      string
	StockingPointField string

	// Equipment carries a health status; empty for kinds without one.
	StatusField string

	// FacilityMode is the facility predicate mode the dashboard uses by default.
	FacilityMode FacilityMode
}

// Spec returns the FieldSpec for a canonical key.
func (d KindDefinition) Spec(key string) (FieldSpec, bool) {
	for _, spec := range d.FieldSpecs {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// HasStock reports whether the kind carries quantity and stocking point fields.
func (d KindDefinition) HasStock() bool {
	return d.QuantityField != "" && d.StockingPointField != ""
}

// Record is a single inventory row keyed by canonical field keys.
// Values are string, int64, or absent; rows read from the store also carry
// id, created_at and facility_name.
type Record map[string]any

// Text returns the string value of key, or "" when absent or not text.
func (r Record) Text(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the integer value of key and whether it was present.
// Whole float64 values count, since JSON numbers decode that way.
func (r Record) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return floatToInt(v)
	}
	return 0, false
}

// ID returns the store-assigned identifier, or 0 for unsaved records.
func (r Record) ID() int64 {
	id, _ := r.Int(FieldID)
	return id
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Facility is a read-only lookup row referenced by facility_id.
type Facility struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store persists records. Implemented by internal/store against PostgreSQL;
// tests use in-memory fakes.
type Store interface {
	List(ctx context.Context, def KindDefinition) ([]Record, error)
	Get(ctx context.Context, def KindDefinition, id int64) (Record, error)
	Insert(ctx context.Context, def KindDefinition, rec Record) (Record, error)
	// InsertMany inserts all records or none.
	InsertMany(ctx context.Context, def KindDefinition, recs []Record) ([]Record, error)
	Update(ctx context.Context, def KindDefinition, id int64, fields Record) (Record, error)
	DeleteMany(ctx context.Context, def KindDefinition, ids []int64) (int64, error)

	Facilities(ctx context.Context) ([]Facility, error)

	InsertMaintenanceLog(ctx context.Context, log MaintenanceLog) (MaintenanceLog, error)
	ListMaintenanceLogs(ctx context.Context, checklist string) ([]MaintenanceLog, error)
}

// FacilityCache holds the facility lookup between page loads.
type FacilityCache interface {
	GetFacilities(ctx context.Context) ([]Facility, bool)
	SetFacilities(ctx context.Context, facilities []Facility) error
	Invalidate(ctx context.Context) error
}

// ImportPhase indicates where an import stopped.
type ImportPhase string

const (
	PhaseParsing    ImportPhase = "parsing"
	PhaseValidating ImportPhase = "validating"
	PhaseInserting  ImportPhase = "inserting"
	PhaseComplete   ImportPhase = "complete"
)

// RejectedRow describes an imported row that failed validation.
type RejectedRow struct {
	Line   int      `json:"line"` // 1-based line (or sheet row) in the source file
	Reason string   `json:"reason"`
	Fields []string `json:"fields,omitempty"`
}

// ImportResult contains the final result of an import.
type ImportResult struct {
	ImportID string        `json:"import_id"`
	Kind     string        `json:"kind"`
	FileName string        `json:"file_name"`
	Phase    ImportPhase   `json:"phase"`
	Parsed   int           `json:"parsed"`
	Inserted int           `json:"inserted"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}
