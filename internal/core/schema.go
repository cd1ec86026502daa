package core

// schema.go maps between human-entered column headers and canonical field keys.
//
// Header matching ignores case, surrounding whitespace, and the difference
// between spaces and underscores, so "Date Acquired", "date_acquired" and
// "dateacquired" all resolve to date_acquired. A header that matches nothing
// is ignored: its column is dropped without an error.

import (
	"fmt"
	"strings"
)

// aliasTables maps kind key -> normalized alias -> canonical key.
// Guarded by registryMu.
var aliasTables = make(map[string]map[string]string)

// normalizeKey reduces a header to its comparison form.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "\t", "").Replace(s)
}

// buildAliasTable builds the lookup for one kind. Every canonical key and
// every export label is an alias of itself.
func buildAliasTable(specs []FieldSpec) (map[string]string, error) {
	table := make(map[string]string)
	for _, spec := range specs {
		names := append([]string{spec.Key, spec.Label}, spec.Aliases...)
		for _, name := range names {
			n := normalizeKey(name)
			if n == "" {
				continue
			}
			if existing, ok := table[n]; ok && existing != spec.Key {
				return nil, fmt.Errorf("alias %q maps to both %s and %s", name, existing, spec.Key)
			}
			table[n] = spec.Key
		}
	}
	return table, nil
}

// NormalizeHeader resolves a raw header to a canonical field key for kind.
// Returns false when the header is not recognized; callers drop that column.
func NormalizeHeader(kind, raw string) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	table, ok := aliasTables[kind]
	if !ok {
		return "", false
	}
	key, ok := table[normalizeKey(raw)]
	return key, ok
}

// CanonicalHeaders returns the ordered export column labels for kind.
// Returns nil for an unknown kind.
func CanonicalHeaders(kind string) []string {
	def, ok := Get(kind)
	if !ok {
		return nil
	}
	headers := make([]string, len(def.Info.Headers))
	copy(headers, def.Info.Headers)
	return headers
}

// Aliases returns every accepted header spelling for kind in normalized form,
// mapped to its canonical key. Served on /api/kinds so clients can check a
// file's headers before uploading it.
func Aliases(kind string) map[string]string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]string, len(aliasTables[kind]))
	for alias, key := range aliasTables[kind] {
		out[alias] = key
	}
	return out
}

// Sanitize converts a loosely-typed body (decoded JSON, form values) into a
// Record holding only canonical keys with coerced values. Unknown keys are
// dropped. Store-managed keys (id, created_at, facility_name) are never kept.
func Sanitize(def KindDefinition, body map[string]any) Record {
	rec := make(Record, len(body))
	for rawKey, val := range body {
		key, ok := NormalizeHeader(def.Info.Key, rawKey)
		if !ok {
			continue
		}
		spec, _ := def.Spec(key)
		if v, ok := coerceAny(spec, val); ok {
			rec[key] = v
		}
	}
	return rec
}

// intFallback is what an unusable integer becomes: 0 for FieldInt, absent
// for FieldOptionalInt.
func intFallback(spec FieldSpec) (any, bool) {
	if spec.Type == FieldInt {
		return int64(0), true
	}
	return nil, false
}

// coerceAny applies a FieldSpec's coercion to a value of unknown dynamic type.
func coerceAny(spec FieldSpec, val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		if spec.Type == FieldText {
			return "", true
		}
		return intFallback(spec)
	case string:
		return coerceCell(spec, v)
	case float64:
		if spec.Type == FieldText {
			return formatValue(v), true
		}
		n, ok := floatToInt(v)
		if !ok {
			return intFallback(spec)
		}
		return n, true
	case int:
		if spec.Type == FieldText {
			return formatValue(v), true
		}
		return int64(v), true
	case int64:
		if spec.Type == FieldText {
			return formatValue(v), true
		}
		return v, true
	default:
		return coerceCell(spec, fmt.Sprint(v))
	}
}
