package store

import (
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// columns returns the canonical keys of a kind in declaration order.
func columns(def core.KindDefinition) []string {
	cols := make([]string, 0, len(def.FieldSpecs))
	for _, spec := range def.FieldSpecs {
		cols = append(cols, spec.Key)
	}
	return cols
}

func selectRecords(def core.KindDefinition) sq.SelectBuilder {
	cols := []string{"t." + core.FieldID, "t." + core.FieldCreatedAt}
	for _, c := range columns(def) {
		cols = append(cols, "t."+c)
	}
	cols = append(cols, "f.name AS "+core.FieldFacilityName)

	return psql.Select(cols...).
		From(def.Info.Key + " t").
		LeftJoin("facilities f ON f.id = t.facility_id").
		OrderBy("t.id")
}

// setMap keeps only the kind's columns that are present in rec.
func setMap(def core.KindDefinition, rec core.Record) map[string]any {
	m := make(map[string]any, len(def.FieldSpecs))
	for _, c := range columns(def) {
		if v, ok := rec[c]; ok {
			m[c] = v
		}
	}
	return m
}

func insertQuery(def core.KindDefinition, rec core.Record) sq.InsertBuilder {
	m := setMap(def, rec)
	if len(m) == 0 {
		return psql.Insert(def.Info.Key).Columns(core.FieldID).Values(sq.Expr("DEFAULT")).Suffix("RETURNING id")
	}
	return psql.Insert(def.Info.Key).SetMap(m).Suffix("RETURNING id")
}

// updateRecord builds the update for the present columns; ok is false when
// nothing would change.
func updateRecord(def core.KindDefinition, id int64, fields core.Record) (sq.UpdateBuilder, bool) {
	m := setMap(def, fields)
	if len(m) == 0 {
		return sq.UpdateBuilder{}, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := psql.Update(def.Info.Key)
	for _, k := range keys {
		b = b.Set(k, m[k])
	}
	return b.Where(sq.Eq{core.FieldID: id}).Suffix("RETURNING id"), true
}

func deleteRecords(def core.KindDefinition, ids []int64) sq.DeleteBuilder {
	return psql.Delete(def.Info.Key).Where("id = ANY(?)", ids)
}
