package core

// validation.go checks parsed or submitted records against their kind's
// field rules before anything reaches the store.
//
// Rules live on FieldSpec.Validate as validator tags ("required", "max=255")
// and are run with validator.ValidateMap, so records never need a struct type.
// A parsed import row that fails is rejected on its own; the batch only fails
// when no row survives.

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rulesFor builds the ValidateMap rule set for a kind.
func rulesFor(def KindDefinition) map[string]any {
	rules := make(map[string]any)
	for _, spec := range def.FieldSpecs {
		if spec.Validate != "" {
			rules[spec.Key] = spec.Validate
		}
	}
	return rules
}

// RequiredFields returns the canonical keys whose rule includes "required".
func RequiredFields(def KindDefinition) []string {
	var out []string
	for _, spec := range def.FieldSpecs {
		for _, tag := range strings.Split(spec.Validate, ",") {
			if tag == "required" {
				out = append(out, spec.Key)
				break
			}
		}
	}
	return out
}

// ValidateRecord checks rec against the kind's rules. It returns a
// ValidationError naming every failed field, or nil.
func ValidateRecord(def KindDefinition, rec Record) error {
	rules := rulesFor(def)
	if len(rules) == 0 {
		return nil
	}

	data := make(map[string]any, len(rules))
	for key := range rules {
		data[key] = rec[key]
	}

	failed := validate.ValidateMap(data, rules)
	if len(failed) == 0 {
		return nil
	}

	fields := make([]string, 0, len(failed))
	for key := range failed {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	return ValidationError{
		Fields:  fields,
		Message: describeFailures(failed, fields),
	}
}

// describeFailures turns validator output into a short message.
func describeFailures(failed map[string]any, fields []string) string {
	allRequired := true
	for _, key := range fields {
		var verrs validator.ValidationErrors
		err, _ := failed[key].(error)
		if !errors.As(err, &verrs) {
			allRequired = false
			continue
		}
		for _, fe := range verrs {
			if fe.Tag() != "required" {
				allRequired = false
			}
		}
	}
	if allRequired {
		return "missing required field"
	}
	return "invalid value"
}

// ValidateBatch splits parsed rows into valid records and rejected rows.
// It never fails; the caller decides what an empty valid set means.
func ValidateBatch(def KindDefinition, rows []ParsedRow) ([]Record, []RejectedRow) {
	valid := make([]Record, 0, len(rows))
	var rejected []RejectedRow

	for _, row := range rows {
		err := ValidateRecord(def, row.Record)
		if err == nil {
			valid = append(valid, row.Record)
			continue
		}
		rr := RejectedRow{Line: row.Line, Reason: err.Error()}
		var ve ValidationError
		if errors.As(err, &ve) {
			rr.Fields = ve.Fields
		}
		rejected = append(rejected, rr)
	}
	return valid, rejected
}
