package engine

import (
	"math"
	"testing"

	"upsell-engine/internal/models"
)

func TestEstimateAnalytics_EmptyRecommendations(t *testing.T) {
	analytics := EstimateAnalytics(nil, 0, 0, models.DefaultAnalyticsPolicy())

	if math.IsNaN(analytics.ConversionProbability) {
		t.Fatal("Empty recommendation list must not produce NaN")
	}
	if analytics.ConversionProbability != 0 {
		t.Errorf("Expected probability 0 with no history and no recommendations, got %f", analytics.ConversionProbability)
	}
	if len(analytics.Insights) == 0 {
		t.Error("Expected insight strings")
	}
}

func TestEstimateAnalytics_Blend(t *testing.T) {
	recs := []models.UpsellRecommendation{
		{Personalization: models.Personalization{RelevanceScore: 0.6}},
		{Personalization: models.Personalization{RelevanceScore: 0.8}},
	}

	// 10 offers shown, 2 conversions: baseline 0.2; avg relevance 0.7.
	analytics := EstimateAnalytics(recs, 10, 2, models.DefaultAnalyticsPolicy())

	want := 0.7*0.2 + 0.3*0.7
	if math.Abs(analytics.ConversionProbability-want) > 1e-9 {
		t.Errorf("Expected probability %f, got %f", want, analytics.ConversionProbability)
	}
}

func TestEstimateAnalytics_PlaceholderScoresFromPolicy(t *testing.T) {
	policy := models.AnalyticsPolicy{ValueScore: 0.9, EngagementScore: 0.4, RiskScore: 0.1}
	analytics := EstimateAnalytics(nil, 0, 0, policy)

	if analytics.ValueScore != 0.9 || analytics.EngagementScore != 0.4 || analytics.RiskScore != 0.1 {
		t.Errorf("Expected policy scores passed through, got %+v", analytics)
	}
}

func TestPlanNextActions(t *testing.T) {
	req := bookingRequest(models.EventBookingCreated)

	if got := PlanNextActions(req, nil); len(got) != 0 {
		t.Errorf("Expected no actions for empty recommendations, got %d", len(got))
	}

	recs := []models.UpsellRecommendation{{ID: "rec-1"}}
	actions := PlanNextActions(req, recs)
	if len(actions) != 2 {
		t.Fatalf("Expected exactly 2 actions, got %d", len(actions))
	}
	if actions[0].Type != "follow_up" || actions[0].AfterHours != 24 || actions[0].Condition != "no_interaction" {
		t.Errorf("Unexpected follow_up action: %+v", actions[0])
	}
	if actions[1].Type != "retarget" || actions[1].AfterHours != 72 || actions[1].Condition != "viewed_but_not_converted" {
		t.Errorf("Unexpected retarget action: %+v", actions[1])
	}
}
