// Package params implements the pure functions over (parameter schema,
// current value map) that drive conditional field visibility and value
// validation. The same logic runs in the editor for live feedback and in the
// save-time validator, so the two can never disagree.
package params

import (
	"encoding/json"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

type visState int

const (
	visUnknown visState = iota
	visPending
	visShown
	visHidden
)

// IsVisible evaluates the visibility rules of the parameter paramID within
// its sibling set. A parameter with no rules is always visible. Multiple
// rules are ANDed. Visibility is transitive: a parameter gated on a hidden
// sibling is itself hidden, so a field can never show while its controlling
// field is off screen. A rule referencing an unknown sibling, or a dependency
// cycle between rules, resolves to hidden.
func IsVisible(parameters []schema.ParameterSchema, paramID string, values map[string]any) bool {
	byID := make(map[string]*schema.ParameterSchema, len(parameters))
	for i := range parameters {
		byID[parameters[i].ID] = &parameters[i]
	}
	memo := make(map[string]visState, len(parameters))
	return resolveVisible(byID, paramID, values, memo) == visShown
}

// Visible returns the parameters currently visible, in declaration order.
func Visible(parameters []schema.ParameterSchema, values map[string]any) []schema.ParameterSchema {
	var out []schema.ParameterSchema
	for _, p := range parameters {
		if IsVisible(parameters, p.ID, values) {
			out = append(out, p)
		}
	}
	return out
}

func resolveVisible(byID map[string]*schema.ParameterSchema, id string, values map[string]any, memo map[string]visState) visState {
	if st, ok := memo[id]; ok && st != visUnknown {
		if st == visPending {
			return visHidden // rule cycle
		}
		return st
	}

	p, ok := byID[id]
	if !ok {
		memo[id] = visHidden
		return visHidden
	}

	if len(p.VisibleWhen) == 0 {
		memo[id] = visShown
		return visShown
	}

	memo[id] = visPending
	st := visShown
	for _, rule := range p.VisibleWhen {
		sibling, ok := byID[rule.Field]
		if !ok {
			st = visHidden
			break
		}
		if resolveVisible(byID, rule.Field, values, memo) != visShown {
			st = visHidden
			break
		}
		if !ruleMatches(rule, currentValue(sibling, values)) {
			st = visHidden
			break
		}
	}
	memo[id] = st
	return st
}

// currentValue returns the sibling's edited value, falling back to its
// declared default, matching what the builder renders in the control.
func currentValue(p *schema.ParameterSchema, values map[string]any) any {
	if v, ok := values[p.ID]; ok {
		return v
	}
	return p.Default
}

// ruleMatches checks equality, or membership if the rule value is a list.
func ruleMatches(rule schema.VisibilityRule, current any) bool {
	switch want := rule.Value.(type) {
	case []any:
		for _, w := range want {
			if scalarEqual(w, current) {
				return true
			}
		}
		return false
	case []string:
		for _, w := range want {
			if scalarEqual(w, current) {
				return true
			}
		}
		return false
	default:
		return scalarEqual(rule.Value, current)
	}
}

// scalarEqual compares two scalars with numeric widening, so a rule written
// as 5 matches a value deserialized as 5.0 or json.Number("5").
func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
