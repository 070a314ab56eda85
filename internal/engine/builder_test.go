package engine

import (
	"strings"
	"testing"
	"time"

	"upsell-engine/internal/models"
)

func builderConfig() *models.Configuration {
	return &models.Configuration{
		PropertyID: "prop-1",
		Enabled:    true,
		Channels: []models.Channel{
			{
				Type:     models.ChannelEmail,
				Enabled:  true,
				Priority: 80,
				Templates: []models.Template{
					{ID: "t1", Name: "room_upgrade email", Subject: "Upgrade, {{guest_name}}?", Body: "{{offer_title}} for {{sale_price}} {{currency}}"},
					{ID: "t2", Name: "generic email", Subject: "An offer", Body: "{{offer_title}}"},
				},
			},
			{Type: models.ChannelWeb, Enabled: true, Priority: 60, Templates: []models.Template{
				{ID: "t3", Name: "generic card", Body: "{{offer_title}} — save {{savings}} {{currency}}"},
			}},
			{Type: models.ChannelMobileApp, Enabled: true, Priority: 70, Templates: []models.Template{
				{ID: "t4", Name: "generic card", Body: "{{offer_title}}"},
			}},
		},
		Content: models.ContentPolicy{DefaultCurrency: "USD"},
	}
}

func upgradeStrategy() models.Strategy {
	return models.Strategy{
		ID:       "upgrade",
		Category: models.CategoryRoomUpgrade,
		Priority: 100,
		Active:   true,
		Offers:   []models.Offer{upgradeOffer()},
	}
}

func upgradeOffer() models.Offer {
	return models.Offer{
		ID:            "deluxe-upgrade",
		Title:         "Deluxe Room Upgrade",
		Description:   "Upgrade to a deluxe room",
		OriginalPrice: 150,
		SalePrice:     90,
		Currency:      "USD",
	}
}

func builderRequest(device string) *models.UpsellRequest {
	return &models.UpsellRequest{
		GuestID:    "guest-1",
		BookingID:  "booking-1",
		PropertyID: "prop-1",
		SessionID:  "session-1",
		Context:    models.RequestContext{Event: models.EventBookingCreated, Device: device},
	}
}

func TestBuildRecommendation_MobileDevicePrefersMobileApp(t *testing.T) {
	rec := BuildRecommendation(upgradeStrategy(), upgradeOffer(), builderRequest("mobile"), builderConfig(), &models.GuestContext{GuestName: "Ana"}, nil, time.Now())

	if rec.Presentation.Channel != models.ChannelMobileApp {
		t.Errorf("Expected mobile_app channel for mobile device, got %s", rec.Presentation.Channel)
	}
}

func TestBuildRecommendation_DesktopDevicePrefersWeb(t *testing.T) {
	rec := BuildRecommendation(upgradeStrategy(), upgradeOffer(), builderRequest("desktop"), builderConfig(), &models.GuestContext{GuestName: "Ana"}, nil, time.Now())

	if rec.Presentation.Channel != models.ChannelWeb {
		t.Errorf("Expected web channel for desktop device, got %s", rec.Presentation.Channel)
	}
}

func TestBuildRecommendation_UnknownDeviceUsesHighestPriority(t *testing.T) {
	rec := BuildRecommendation(upgradeStrategy(), upgradeOffer(), builderRequest("kiosk"), builderConfig(), &models.GuestContext{GuestName: "Ana"}, nil, time.Now())

	if rec.Presentation.Channel != models.ChannelEmail {
		t.Errorf("Expected highest-priority enabled channel (email), got %s", rec.Presentation.Channel)
	}
}

func TestBuildRecommendation_TemplateMatchesCategory(t *testing.T) {
	rec := BuildRecommendation(upgradeStrategy(), upgradeOffer(), builderRequest("kiosk"), builderConfig(), &models.GuestContext{GuestName: "Ana"}, nil, time.Now())

	email, ok := rec.Presentation.Content.(models.EmailContent)
	if !ok {
		t.Fatalf("Expected EmailContent, got %T", rec.Presentation.Content)
	}
	if email.Subject != "Upgrade, Ana?" {
		t.Errorf("Expected category template with substituted guest name, got %q", email.Subject)
	}
	if !strings.Contains(email.HTMLBody, "Deluxe Room Upgrade for 90.00 USD") {
		t.Errorf("Expected rendered body, got %q", email.HTMLBody)
	}
}

func TestBuildRecommendation_CallToActionByCategory(t *testing.T) {
	tests := []struct {
		category models.StrategyCategory
		want     string
	}{
		{models.CategoryRoomUpgrade, "Upgrade Now"},
		{models.CategoryServiceAddon, "Add Service"},
		{models.CategoryDining, "Book Table"},
		{models.CategorySpa, "Book Spa"},
		{models.CategoryActivities, "Book Activity"},
		{models.CategoryTransportation, "Book Transfer"},
		{models.CategoryPackage, "Get Package"},
		{models.StrategyCategory("unmapped"), "Get Offer"},
	}

	for _, tt := range tests {
		strategy := upgradeStrategy()
		strategy.Category = tt.category
		rec := BuildRecommendation(strategy, upgradeOffer(), builderRequest("desktop"), builderConfig(), &models.GuestContext{}, nil, time.Now())
		if rec.Presentation.CallToAction != tt.want {
			t.Errorf("Category %s: expected CTA %q, got %q", tt.category, tt.want, rec.Presentation.CallToAction)
		}
	}
}

func TestBuildUrgency_ExpiringOffer(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	validUntil := now.Add(30*time.Hour + 30*time.Minute)

	offer := upgradeOffer()
	offer.ValidUntil = &validUntil

	urgency := buildUrgency(offer, now)
	if urgency.Type != models.UrgencyTime {
		t.Fatalf("Expected time urgency, got %s", urgency.Type)
	}
	// 30.5 hours rounds up to 31.
	if !strings.Contains(urgency.Message, "31 hours") {
		t.Errorf("Expected hours-remaining message, got %q", urgency.Message)
	}
	if urgency.Countdown == nil || urgency.Countdown.HoursRemaining != 31 {
		t.Errorf("Expected countdown block with 31 hours, got %+v", urgency.Countdown)
	}
}

func TestBuildUrgency_LowStock(t *testing.T) {
	offer := upgradeOffer()
	offer.MaxQuantity = 3

	urgency := buildUrgency(offer, time.Now())
	if urgency.Type != models.UrgencyDemand {
		t.Fatalf("Expected demand urgency, got %s", urgency.Type)
	}
	if !strings.Contains(urgency.Message, "Only 3 left") {
		t.Errorf("Expected remaining-count message, got %q", urgency.Message)
	}
}

func TestBuildUrgency_DefaultPopularity(t *testing.T) {
	offer := upgradeOffer()
	offer.MaxQuantity = 20

	urgency := buildUrgency(offer, time.Now())
	if urgency.Type != models.UrgencyPopularity {
		t.Errorf("Expected popularity urgency, got %s", urgency.Type)
	}
}

func TestRelevanceScore_PlatinumHighValue(t *testing.T) {
	gctx := &models.GuestContext{LoyaltyTier: "platinum", BookingValue: 800}
	score := relevanceScore(upgradeStrategy(), gctx, nil)

	// 0.5 base + 0.1 platinum + 0.1 high booking value.
	if score < 0.69 || score > 0.71 {
		t.Errorf("Expected score 0.7, got %f", score)
	}
}

func TestRelevanceScore_BonusesAreCapped(t *testing.T) {
	history := &models.GuestHistory{}
	for i := 0; i < 10; i++ {
		history.Interactions = append(history.Interactions, models.Interaction{OfferID: "room_upgrade-offer"})
		history.Conversions = append(history.Conversions, models.Conversion{OfferID: "x", Category: models.CategoryRoomUpgrade})
	}

	gctx := &models.GuestContext{LoyaltyTier: "platinum", BookingValue: 800}
	score := relevanceScore(upgradeStrategy(), gctx, history)

	// 0.5 + 0.3 (capped) + 0.2 (capped) + 0.1 + 0.1 clamps to 1.0.
	if score != 1.0 {
		t.Errorf("Expected clamped score 1.0, got %f", score)
	}
}

func TestRelevanceScore_WithinBounds(t *testing.T) {
	tiers := []string{"standard", "silver", "gold", "platinum"}
	for _, tier := range tiers {
		gctx := &models.GuestContext{LoyaltyTier: tier, BookingValue: 1000}
		score := relevanceScore(upgradeStrategy(), gctx, nil)
		if score < 0.0 || score > 1.0 {
			t.Errorf("Tier %s: score %f out of [0,1]", tier, score)
		}
	}
}

func TestPersonalMessage_SpecialCases(t *testing.T) {
	offer := upgradeOffer()

	platinum := personalMessage(upgradeStrategy(), offer, &models.GuestContext{GuestName: "Ana", LoyaltyTier: "platinum"})
	if !strings.Contains(platinum, "Platinum") {
		t.Errorf("Expected platinum-specific message, got %q", platinum)
	}

	upgrade := personalMessage(upgradeStrategy(), offer, &models.GuestContext{GuestName: "Ana", LoyaltyTier: "gold"})
	if !strings.Contains(upgrade, "extra special") {
		t.Errorf("Expected room-upgrade message, got %q", upgrade)
	}

	spa := upgradeStrategy()
	spa.Category = models.CategorySpa
	generic := personalMessage(spa, offer, &models.GuestContext{GuestName: "Ana", LoyaltyTier: "gold"})
	if !strings.Contains(generic, "picked") {
		t.Errorf("Expected generic message, got %q", generic)
	}
}
