package core

// query.go filters and pages an in-memory record collection. Nothing here
// sorts, clamps, or fails: an out-of-range page is simply empty.

import (
	"strconv"
	"strings"
)

// FacilityMode selects how the facility predicate is matched.
type FacilityMode int

const (
	// FacilityByID matches facility_id exactly against a numeric predicate.
	FacilityByID FacilityMode = iota
	// FacilityByName matches facility_name by case-insensitive substring.
	FacilityByName
)

// ParseFacilityMode maps "id" / "name" to a mode. Anything else returns fallback.
func ParseFacilityMode(s string, fallback FacilityMode) FacilityMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return FacilityByID
	case "name":
		return FacilityByName
	default:
		return fallback
	}
}

func (m FacilityMode) String() string {
	if m == FacilityByName {
		return "name"
	}
	return "id"
}

// Predicates are ANDed by Filter. Empty fields match everything.
type Predicates struct {
	Category     string
	Facility     string
	FacilityMode FacilityMode
	Query        string // matched against the kind's name field only
}

// IsZero reports whether no predicate is set.
func (p Predicates) IsZero() bool {
	return p.Category == "" && p.Facility == "" && p.Query == ""
}

// Filter returns the records matching every predicate, in input order.
func Filter(records []Record, def KindDefinition, p Predicates) []Record {
	if p.IsZero() {
		return records
	}

	category := strings.ToLower(p.Category)
	query := strings.ToLower(p.Query)
	facility := strings.TrimSpace(p.Facility)

	var facilityID int64
	facilityIDOK := false
	if facility != "" && p.FacilityMode == FacilityByID {
		if n, err := strconv.ParseInt(facility, 10, 64); err == nil {
			facilityID, facilityIDOK = n, true
		}
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if category != "" && !containsFold(rec.Text(def.CategoryField), category) {
			continue
		}
		if query != "" && !containsFold(rec.Text(def.NameField), query) {
			continue
		}
		if facility != "" {
			switch p.FacilityMode {
			case FacilityByName:
				if !containsFold(rec.Text(FieldFacilityName), strings.ToLower(facility)) {
					continue
				}
			default:
				// A non-numeric predicate in id mode matches nothing.
				id, ok := rec.Int("facility_id")
				if !facilityIDOK || !ok || id != facilityID {
					continue
				}
			}
		}
		out = append(out, rec)
	}
	return out
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

// Paginate returns the 1-based page of the given size. A page past the end,
// a page below 1, or a non-positive size yields an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	// Compare pages before multiplying so huge page numbers cannot wrap.
	if page < 1 || size <= 0 || page > TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end]
}

// TotalPages returns ceil(count/size), with TotalPages(0, size) == 0.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}
