package engine

import (
	"fmt"
	"regexp"

	"admin-backend/internal/metadata"
)

// Validate applies a schema's constraints to a candidate record and returns a
// field-keyed error map. An empty map means the record is fully valid.
//
// Constraints run in a fixed order per field: required → pattern/format →
// length bounds → enum membership → numeric minimum → business rules. The
// first failing rule determines the field's message and the remaining rules
// for that field are skipped; fields are validated independently of each
// other. Invalidity is a normal result — Validate never fails.
func Validate(schema *metadata.Schema, record map[string]any) ErrorMap {
	errs := make(ErrorMap)

	for i := range schema.Fields {
		f := &schema.Fields[i]
		if f.IsAuto() {
			continue
		}
		if detail := validateField(f, record); detail != nil {
			errs[f.Name] = detail.Message
		}
	}

	// Business rules run last and never override a constraint error.
	for _, rule := range schema.Rules {
		if _, taken := errs[rule.Field]; taken {
			continue
		}
		if detail := EvaluateRule(rule, record); detail != nil {
			errs[rule.Field] = detail.Message
		}
	}

	return errs
}

func validateField(f *metadata.Field, record map[string]any) *ErrorDetail {
	val, exists := record[f.Name]
	absent := !exists || val == nil
	s, isString := val.(string)
	if isString && s == "" {
		absent = true
	}

	if absent {
		if f.Required {
			return fail(f, "required", "%s is required", f.Name)
		}
		return nil
	}

	switch f.Type {
	case "string", "enum":
		if !isString {
			return fail(f, "type", "%s must be a string", f.Name)
		}
	case "int":
		if _, ok := toFloat64(val); !ok {
			return fail(f, "type", "%s must be a number", f.Name)
		}
	}

	if f.Pattern != "" && isString {
		matched, err := regexp.MatchString(f.Pattern, s)
		if err != nil || !matched {
			return fail(f, "pattern", "%s has an invalid format", f.Name)
		}
	}

	if f.MinLength > 0 && isString && len(s) < f.MinLength {
		return fail(f, "min_length", "%s must be at least %d characters", f.Name, f.MinLength)
	}
	if f.MaxLength > 0 && isString && len(s) > f.MaxLength {
		return fail(f, "max_length", "%s must be at most %d characters", f.Name, f.MaxLength)
	}

	if len(f.Enum) > 0 && isString && !contains(f.Enum, s) {
		return fail(f, "enum", "%s must be one of the allowed values", f.Name)
	}

	if f.Min != nil {
		if num, ok := toFloat64(val); ok && num < *f.Min {
			return fail(f, "min", "%s must be at least %v", f.Name, *f.Min)
		}
	}

	return nil
}

func fail(f *metadata.Field, rule string, format string, args ...any) *ErrorDetail {
	msg := f.Message(rule)
	if msg == "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &ErrorDetail{Field: f.Name, Message: msg}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// toFloat64 converts numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
