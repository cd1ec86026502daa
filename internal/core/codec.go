package core

// codec.go converts between delimited text and records.
//
// The splitter is naive: it splits on newlines and commas and
// does not understand commas embedded inside quoted values. Files exported by
// Serialize round-trip as long as no value contains a comma or a newline.

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParsedRow is a record together with the source line it came from.
type ParsedRow struct {
	Line   int // 1-based line number in the input
	Record Record
}

// Parse converts raw delimited text into partial records of kind def.
// Required fields are not checked here; see ValidateBatch.
func Parse(raw string, def KindDefinition) ([]Record, error) {
	rows, err := ParseRows(raw, def)
	if err != nil {
		return nil, err
	}
	return recordsOf(rows), nil
}

// ParseRows is Parse with source line numbers kept for error reporting.
func ParseRows(raw string, def KindDefinition) ([]ParsedRow, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")

	type line struct {
		num  int
		text string
	}
	var lines []line
	for i, text := range strings.Split(raw, "\n") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, line{num: i + 1, text: text})
	}

	if len(lines) < 2 {
		return nil, &MalformedInputError{Lines: len(lines)}
	}

	keys := resolveHeader(def, splitLine(lines[0].text))

	rows := make([]ParsedRow, 0, len(lines)-1)
	for _, l := range lines[1:] {
		rows = append(rows, ParsedRow{
			Line:   l.num,
			Record: buildRecord(def, keys, splitLine(l.text)),
		})
	}
	return rows, nil
}

// Serialize renders records as delimited text: the canonical headers, then
// one line per record with every value wrapped in double quotes.
// There is no trailing newline.
func Serialize(records []Record, def KindDefinition) string {
	var b strings.Builder
	b.WriteString(strings.Join(def.Info.Headers, ","))

	cells := make([]string, len(def.FieldSpecs))
	for _, rec := range records {
		for i, spec := range def.FieldSpecs {
			cells[i] = `"` + formatValue(rec[spec.Key]) + `"`
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(cells, ","))
	}
	return b.String()
}

// Template returns the header line alone, for blank import templates.
func Template(def KindDefinition) string {
	return strings.Join(def.Info.Headers, ",") + "\n"
}

// splitLine splits one line on commas, trimming each cell and removing one
// layer of surrounding double quotes.
func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = stripQuotes(strings.TrimSpace(p))
	}
	return parts
}

// stripQuotes removes exactly one pair of surrounding double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// resolveHeader maps header cells to canonical keys; "" marks a dropped column.
func resolveHeader(def KindDefinition, header []string) []string {
	keys := make([]string, len(header))
	for i, h := range header {
		if key, ok := NormalizeHeader(def.Info.Key, h); ok {
			keys[i] = key
		}
	}
	return keys
}

// buildRecord zips cells against resolved header keys. Missing trailing cells
// are treated as "". When two headers resolve to the same key the rightmost wins.
func buildRecord(def KindDefinition, keys []string, cells []string) Record {
	rec := make(Record, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		spec, _ := def.Spec(key)
		if v, ok := coerceCell(spec, cell); ok {
			rec[key] = v
		} else {
			delete(rec, key)
		}
	}
	return rec
}

// coerceCell converts a raw cell according to the field type. The second
// return value is false when the key should be left absent.
func coerceCell(spec FieldSpec, cell string) (any, bool) {
	switch spec.Type {
	case FieldInt:
		n, ok := parseInt(cell)
		if !ok {
			return int64(0), true
		}
		return n, true
	case FieldOptionalInt:
		n, ok := parseInt(cell)
		if !ok {
			return nil, false
		}
		return n, true
	default:
		return cell, true
	}
}

// parseInt accepts plain integers and spreadsheet-style whole floats ("5.0"),
// truncating any fraction.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatToInt(f)
	}
	return 0, false
}

// floatToInt truncates f toward zero. NaN, infinities and values outside
// the int64 range are rejected rather than wrapped.
func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// formatValue renders a record value as export text; absent values become "".
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func recordsOf(rows []ParsedRow) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record
	}
	return out
}
