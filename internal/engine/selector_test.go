package engine

import (
	"testing"

	"upsell-engine/internal/models"
)

func selectorConfig() *models.Configuration {
	return &models.Configuration{
		PropertyID: "prop-1",
		Enabled:    true,
		Strategies: []models.Strategy{
			{ID: "upgrade", Category: models.CategoryRoomUpgrade, Priority: 100, Active: true},
			{ID: "spa", Category: models.CategorySpa, Priority: 50, Active: true},
			{ID: "dining", Category: models.CategoryDining, Priority: 50, Active: true},
			{ID: "paused", Category: models.CategoryActivities, Priority: 90, Active: false},
		},
		Triggers: []models.Trigger{
			{
				ID:          "on-booking",
				Event:       models.EventBookingCreated,
				StrategyIDs: []string{"upgrade", "spa", "dining", "paused"},
				Active:      true,
			},
			{
				ID:          "on-checkin",
				Event:       models.EventCheckIn,
				StrategyIDs: []string{"dining"},
				Active:      true,
			},
		},
	}
}

func bookingRequest(event models.TriggerEvent) *models.UpsellRequest {
	return &models.UpsellRequest{
		GuestID:    "guest-1",
		BookingID:  "booking-1",
		PropertyID: "prop-1",
		Context:    models.RequestContext{Event: event, Device: "desktop"},
	}
}

func TestSelectStrategies_EventFiltersTriggers(t *testing.T) {
	cfg := selectorConfig()
	gctx := &models.GuestContext{}

	selected := SelectStrategies(bookingRequest(models.EventCheckIn), cfg, gctx)
	if len(selected) != 1 || selected[0].ID != "dining" {
		t.Fatalf("Expected only dining for check_in, got %+v", selected)
	}

	if got := SelectStrategies(bookingRequest(models.EventPostStay), cfg, gctx); len(got) != 0 {
		t.Errorf("Expected no strategies for unmatched event, got %d", len(got))
	}
}

func TestSelectStrategies_InactiveExcluded(t *testing.T) {
	cfg := selectorConfig()
	selected := SelectStrategies(bookingRequest(models.EventBookingCreated), cfg, &models.GuestContext{})

	for _, strategy := range selected {
		if strategy.ID == "paused" {
			t.Error("Inactive strategy must not be selected")
		}
	}
}

func TestSelectStrategies_PriorityDescendingStable(t *testing.T) {
	cfg := selectorConfig()
	selected := SelectStrategies(bookingRequest(models.EventBookingCreated), cfg, &models.GuestContext{})

	if len(selected) != 3 {
		t.Fatalf("Expected 3 strategies, got %d", len(selected))
	}
	if selected[0].ID != "upgrade" {
		t.Errorf("Expected highest priority first, got %s", selected[0].ID)
	}
	// spa and dining share priority 50; configuration order breaks the tie.
	if selected[1].ID != "spa" || selected[2].ID != "dining" {
		t.Errorf("Expected stable tie-break (spa, dining), got (%s, %s)", selected[1].ID, selected[2].ID)
	}
}

func TestSelectStrategies_ConditionsAreANDed(t *testing.T) {
	cfg := selectorConfig()
	cfg.Strategies[0].Conditions = []models.Condition{
		{Attribute: models.AttrLoyaltyTier, Operator: models.OpIn, Value: []interface{}{"gold", "platinum"}},
		{Attribute: models.AttrBookingValue, Operator: models.OpGreaterThan, Value: 500},
	}

	gctx := &models.GuestContext{LoyaltyTier: "gold", BookingValue: 200}
	for _, strategy := range SelectStrategies(bookingRequest(models.EventBookingCreated), cfg, gctx) {
		if strategy.ID == "upgrade" {
			t.Error("Strategy with one failing condition must not survive")
		}
	}
}

func TestSelectStrategies_LoyaltyExclusion(t *testing.T) {
	cfg := selectorConfig()
	cfg.Strategies[0].Conditions = []models.Condition{
		{Attribute: models.AttrLoyaltyTier, Operator: models.OpIn, Value: []interface{}{"gold", "platinum"}},
	}

	gctx := &models.GuestContext{LoyaltyTier: "silver"}
	for _, strategy := range SelectStrategies(bookingRequest(models.EventBookingCreated), cfg, gctx) {
		if strategy.ID == "upgrade" {
			t.Error("Silver guest must never receive a gold/platinum-gated strategy")
		}
	}
}

func TestSelectStrategies_TriggerConditions(t *testing.T) {
	cfg := selectorConfig()
	cfg.Triggers[0].Conditions = []models.Condition{
		{Attribute: models.AttrLeadTime, Operator: models.OpGreaterThan, Value: 7},
	}

	gctx := &models.GuestContext{LeadTimeDays: 2}
	if got := SelectStrategies(bookingRequest(models.EventBookingCreated), cfg, gctx); len(got) != 0 {
		t.Errorf("Expected trigger-level condition to gate activation, got %d strategies", len(got))
	}
}
