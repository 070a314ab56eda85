package engine

import (
	"fmt"
	"strings"

	"upsell-engine/internal/models"
)

// Compare evaluates one comparison between a resolved runtime value and
// the expected value from configuration. An unknown operator returns
// false rather than an error; callers rely on that safe default, so it
// is preserved for compatibility.
func Compare(actual interface{}, op models.Operator, expected interface{}) bool {
	switch op {
	case models.OpEquals:
		return valuesEqual(actual, expected)
	case models.OpNotEquals:
		return !valuesEqual(actual, expected)
	case models.OpGreaterThan:
		a, okA := toFloat(actual)
		b, okB := toFloat(expected)
		return okA && okB && a > b
	case models.OpLessThan:
		a, okA := toFloat(actual)
		b, okB := toFloat(expected)
		return okA && okB && a < b
	case models.OpIn:
		for _, candidate := range toSlice(expected) {
			if valuesEqual(actual, candidate) {
				return true
			}
		}
		return false
	case models.OpBetween:
		bounds := toSlice(expected)
		if len(bounds) != 2 {
			return false
		}
		a, okA := toFloat(actual)
		lo, okLo := toFloat(bounds[0])
		hi, okHi := toFloat(bounds[1])
		return okA && okLo && okHi && a >= lo && a <= hi
	case models.OpContains:
		return strings.Contains(toString(actual), toString(expected))
	}
	return false
}

// EvaluateConditions reports whether every condition matches the
// resolved guest context (logical AND). An empty condition list always
// passes.
func EvaluateConditions(conditions []models.Condition, gctx *models.GuestContext) bool {
	for _, cond := range conditions {
		if !Compare(gctx.Value(cond.Attribute), cond.Operator, cond.Value) {
			return false
		}
	}
	return true
}

// valuesEqual compares numerically when both sides coerce to numbers,
// otherwise by string form. JSON-decoded configuration values arrive as
// float64 while resolved attributes may be int, so numeric coercion
// comes first.
func valuesEqual(a, b interface{}) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	return toString(a) == toString(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

func toSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []int:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []float64:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	}
	return nil
}
