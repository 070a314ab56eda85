package validation

import (
	"fmt"
	"strings"
	"unicode"

	"upsell-engine/internal/models"
)

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidateRequest rejects an upsell request before pipeline entry.
// Identity fields are required; everything else is optional and
// degrades to defaults downstream.
func ValidateRequest(req *models.UpsellRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Message: "is required"}
	}
	if err := requireID(req.GuestID, "guest_id"); err != nil {
		return err
	}
	if err := requireID(req.BookingID, "booking_id"); err != nil {
		return err
	}
	if err := requireID(req.PropertyID, "property_id"); err != nil {
		return err
	}
	if req.Context.Event == "" {
		return &ValidationError{Field: "context.event", Message: "is required"}
	}
	return nil
}

// ValidateConfiguration rejects a structurally broken configuration.
// Condition operators are deliberately not validated: unknown operators
// evaluate to false at runtime, and rejecting them here would break
// configurations written for newer engine versions.
func ValidateConfiguration(cfg *models.Configuration) error {
	if cfg == nil {
		return &ValidationError{Field: "configuration", Message: "is required"}
	}

	seen := make(map[string]bool)
	for i, strategy := range cfg.Strategies {
		if strategy.ID == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("strategies[%d].id", i),
				Message: "is required",
			}
		}
		if seen[strategy.ID] {
			return &ValidationError{
				Field:   "strategies",
				Message: fmt.Sprintf("duplicate strategy id: %s", strategy.ID),
			}
		}
		seen[strategy.ID] = true

		if strategy.Priority < 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("strategies[%d].priority", i),
				Message: "must be non-negative",
			}
		}
		for j, offer := range strategy.Offers {
			if offer.ID == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("strategies[%d].offers[%d].id", i, j),
					Message: "is required",
				}
			}
			if offer.DiscountPercent < 0 || offer.DiscountPercent > 100 {
				return &ValidationError{
					Field:   fmt.Sprintf("strategies[%d].offers[%d].discount_percent", i, j),
					Message: "must be between 0 and 100",
				}
			}
			if offer.MaxQuantity < 0 {
				return &ValidationError{
					Field:   fmt.Sprintf("strategies[%d].offers[%d].max_quantity", i, j),
					Message: "must be non-negative",
				}
			}
		}
	}

	for i, trigger := range cfg.Triggers {
		if trigger.ID == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("triggers[%d].id", i),
				Message: "is required",
			}
		}
		if trigger.Event == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("triggers[%d].event", i),
				Message: "is required",
			}
		}
		for _, id := range trigger.StrategyIDs {
			if !seen[id] {
				return &ValidationError{
					Field:   fmt.Sprintf("triggers[%d].strategy_ids", i),
					Message: fmt.Sprintf("references unknown strategy: %s", id),
				}
			}
		}
	}

	if h := cfg.Timing.QuietHoursStart; h < 0 || h > 23 {
		return &ValidationError{Field: "timing.quiet_hours_start", Message: "must be between 0 and 23"}
	}
	if h := cfg.Timing.QuietHoursEnd; h < 0 || h > 23 {
		return &ValidationError{Field: "timing.quiet_hours_end", Message: "must be between 0 and 23"}
	}

	return nil
}

// ValidateInteraction rejects an incomplete interaction record.
func ValidateInteraction(in models.Interaction) error {
	if in.OfferID == "" {
		return &ValidationError{Field: "offer_id", Message: "is required"}
	}
	switch in.Type {
	case "view", "click", "dismiss":
		return nil
	case "":
		return &ValidationError{Field: "type", Message: "is required"}
	default:
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown interaction type: %s", in.Type)}
	}
}

// ValidateConversion rejects an incomplete conversion record.
func ValidateConversion(cv models.Conversion) error {
	if cv.OfferID == "" {
		return &ValidationError{Field: "offer_id", Message: "is required"}
	}
	if cv.PropertyID == "" {
		return &ValidationError{Field: "property_id", Message: "is required"}
	}
	if cv.Value < 0 {
		return &ValidationError{Field: "value", Message: "must be non-negative"}
	}
	return nil
}

// SanitizeString strips control characters and trims whitespace.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

func requireID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
