package params

import (
	"fmt"
	"time"

	"github.com/andrewcho-dev/opsconductor-flow/internal/analyzers"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// ValidateValue type-checks value against p and returns its normalized form
// (numbers widened to float64, string slices canonicalized to []string).
// A nil value fails with MISSING_REQUIRED_PARAMETER when p is required and
// declares no default; otherwise nil is accepted as "unset".
func ValidateValue(p *schema.ParameterSchema, value any) (any, error) {
	if IsEmpty(p, value) {
		if p.Required && p.Default == nil {
			return nil, schema.NewErrorf(schema.ErrCodeMissingParameter,
				"required parameter %q has no value", p.ID)
		}
		return value, nil
	}

	switch p.Type {
	case schema.ParamText, schema.ParamPassword:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(p, "string", value)
		}
		if p.Syntax != "" {
			if err := analyzers.Check(p.Syntax, s); err != nil {
				return nil, err
			}
		}
		return s, nil

	case schema.ParamCode:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(p, "string", value)
		}
		if p.Syntax != "" {
			if err := analyzers.Check(p.Syntax, s); err != nil {
				return nil, err
			}
		}
		return s, nil

	case schema.ParamNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, typeError(p, "number", value)
		}
		if p.Min != nil && f < *p.Min {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: %v is below minimum %v", p.ID, f, *p.Min)
		}
		if p.Max != nil && f > *p.Max {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: %v is above maximum %v", p.ID, f, *p.Max)
		}
		return f, nil

	case schema.ParamBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, typeError(p, "boolean", value)
		}
		return b, nil

	case schema.ParamSelect:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(p, "string", value)
		}
		if !p.HasOption(s) {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: %q is not one of the declared options", p.ID, s)
		}
		return s, nil

	case schema.ParamMultiSelect:
		items, err := toStringSlice(p, value)
		if err != nil {
			return nil, err
		}
		for _, s := range items {
			if !p.HasOption(s) {
				return nil, schema.NewErrorf(schema.ErrCodeValidation,
					"parameter %q: %q is not one of the declared options", p.ID, s)
			}
		}
		return items, nil

	case schema.ParamTextList:
		return toStringSlice(p, value)

	case schema.ParamTimeList:
		items, err := toStringSlice(p, value)
		if err != nil {
			return nil, err
		}
		for _, s := range items {
			if !validClock(s) {
				return nil, schema.NewErrorf(schema.ErrCodeValidation,
					"parameter %q: %q is not a valid HH:MM time", p.ID, s)
			}
		}
		return items, nil

	case schema.ParamDateList:
		items, err := toStringSlice(p, value)
		if err != nil {
			return nil, err
		}
		for _, s := range items {
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return nil, schema.NewErrorf(schema.ErrCodeValidation,
					"parameter %q: %q is not a valid YYYY-MM-DD date", p.ID, s)
			}
		}
		return items, nil

	case schema.ParamKeyValueList:
		return validateEntryList(p, value, "key", "value", "")

	case schema.ParamExtractionList:
		return validateEntryList(p, value, "name", "expression", p.Syntax)

	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"parameter %q: unknown type %q", p.ID, p.Type)
	}
}

// IsEmpty reports whether value counts as unset for required-field purposes.
// Empty strings and empty lists are unset; false and 0 are real values.
func IsEmpty(p *schema.ParameterSchema, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// Defaults returns the seed parameter values for a new instance of def:
// every parameter with a declared default, keyed by parameter ID.
func Defaults(def *schema.NodeTypeDefinition) map[string]any {
	values := make(map[string]any, len(def.Parameters))
	for _, p := range def.Parameters {
		if p.Default != nil {
			values[p.ID] = p.Default
		}
	}
	return values
}

func typeError(p *schema.ParameterSchema, want string, got any) error {
	return schema.NewErrorf(schema.ErrCodeValidation,
		"parameter %q: expected %s, got %T", p.ID, want, got)
}

func toStringSlice(p *schema.ParameterSchema, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, schema.NewErrorf(schema.ErrCodeValidation,
					"parameter %q: list item %d is %T, expected string", p.ID, i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, typeError(p, "list of strings", value)
	}
}

// validateEntryList checks a list of {nameKey, exprKey} objects. When syntax
// is non-empty, each exprKey value is additionally syntax-checked.
func validateEntryList(p *schema.ParameterSchema, value any, nameKey, exprKey, syntax string) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, typeError(p, fmt.Sprintf("list of {%s, %s} objects", nameKey, exprKey), value)
	}
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: entry %d is %T, expected object", p.ID, i, item)
		}
		name, _ := entry[nameKey].(string)
		if name == "" {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: entry %d has no %q", p.ID, i, nameKey)
		}
		expr, ok := entry[exprKey].(string)
		if !ok {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"parameter %q: entry %d has no %q", p.ID, i, exprKey)
		}
		if syntax != "" && expr != "" {
			if err := analyzers.Check(syntax, expr); err != nil {
				return nil, err
			}
		}
	}
	return items, nil
}

// validClock accepts HH:MM and HH:MM:SS wall-clock strings.
func validClock(s string) bool {
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}
