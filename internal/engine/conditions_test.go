package engine

import (
	"testing"

	"upsell-engine/internal/models"
)

func TestCompare_Operators(t *testing.T) {
	tests := []struct {
		name     string
		actual   interface{}
		op       models.Operator
		expected interface{}
		want     bool
	}{
		{"equals strings", "deluxe", models.OpEquals, "deluxe", true},
		{"equals mismatched strings", "deluxe", models.OpEquals, "suite", false},
		{"equals int vs float", 3, models.OpEquals, 3.0, true},
		{"not_equals", "gold", models.OpNotEquals, "silver", true},
		{"not_equals same", "gold", models.OpNotEquals, "gold", false},
		{"greater_than true", 750.0, models.OpGreaterThan, 500, true},
		{"greater_than equal is false", 500.0, models.OpGreaterThan, 500, false},
		{"greater_than non-numeric", "abc", models.OpGreaterThan, 500, false},
		{"less_than true", 2, models.OpLessThan, 5, true},
		{"in matches member", "platinum", models.OpIn, []interface{}{"gold", "platinum"}, true},
		{"in no member", "silver", models.OpIn, []interface{}{"gold", "platinum"}, false},
		{"in string slice", "gold", models.OpIn, []string{"gold", "platinum"}, true},
		{"in numeric member", 3, models.OpIn, []interface{}{1.0, 3.0}, true},
		{"between inclusive low", 2, models.OpBetween, []interface{}{2.0, 7.0}, true},
		{"between inclusive high", 7, models.OpBetween, []interface{}{2.0, 7.0}, true},
		{"between outside", 8, models.OpBetween, []interface{}{2.0, 7.0}, false},
		{"between malformed pair", 5, models.OpBetween, []interface{}{2.0}, false},
		{"contains substring", "deluxe-king", models.OpContains, "deluxe", true},
		{"contains missing", "standard", models.OpContains, "deluxe", false},
		{"contains numeric actual", 12345, models.OpContains, "234", true},
		{"unknown operator returns false", "anything", models.Operator("regex_match"), "any", false},
		{"empty operator returns false", "anything", models.Operator(""), "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.actual, tt.op, tt.expected); got != tt.want {
				t.Errorf("Compare(%v, %q, %v) = %v, want %v", tt.actual, tt.op, tt.expected, got, tt.want)
			}
		})
	}
}

func TestEvaluateConditions_AllMustMatch(t *testing.T) {
	gctx := &models.GuestContext{
		LoyaltyTier:  "gold",
		BookingValue: 700,
		PartySize:    2,
	}

	all := []models.Condition{
		{Attribute: models.AttrLoyaltyTier, Operator: models.OpIn, Value: []interface{}{"gold", "platinum"}},
		{Attribute: models.AttrBookingValue, Operator: models.OpGreaterThan, Value: 500},
	}
	if !EvaluateConditions(all, gctx) {
		t.Error("Expected all conditions to match")
	}

	withFailing := append(all, models.Condition{
		Attribute: models.AttrPartySize, Operator: models.OpGreaterThan, Value: 4,
	})
	if EvaluateConditions(withFailing, gctx) {
		t.Error("Expected AND semantics: one failing condition fails the set")
	}
}

func TestEvaluateConditions_EmptyAlwaysPasses(t *testing.T) {
	if !EvaluateConditions(nil, &models.GuestContext{}) {
		t.Error("Expected empty condition set to pass")
	}
}
