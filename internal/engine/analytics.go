package engine

import (
	"fmt"

	"upsell-engine/internal/models"
)

// Blend weights between the guest's historical conversion rate and the
// current recommendation relevance.
const (
	historyWeight   = 0.7
	relevanceWeight = 0.3
)

// EstimateAnalytics blends the guest's historical conversion rate with
// the average relevance of the generated set into a conversion
// probability estimate, and produces short human-readable insights.
// offersShown and conversions are the guest's historical totals.
func EstimateAnalytics(recommendations []models.UpsellRecommendation, offersShown, conversions int, policy models.AnalyticsPolicy) models.ResponseAnalytics {
	baseline := 0.0
	if offersShown > 0 {
		baseline = float64(conversions) / float64(offersShown)
	}

	// An empty set has average relevance 0 by definition; dividing by
	// zero here would leak NaN into the response.
	avgRelevance := 0.0
	if len(recommendations) > 0 {
		total := 0.0
		for _, rec := range recommendations {
			total += rec.Personalization.RelevanceScore
		}
		avgRelevance = total / float64(len(recommendations))
	}

	probability := historyWeight*baseline + relevanceWeight*avgRelevance

	insights := []string{
		fmt.Sprintf("Generated %d recommendations", len(recommendations)),
		fmt.Sprintf("Estimated conversion probability %.0f%%", probability*100),
	}
	if len(recommendations) > 0 {
		insights = append(insights, fmt.Sprintf("Average relevance score %.2f", avgRelevance))
	}

	return models.ResponseAnalytics{
		ConversionProbability: probability,
		ValueScore:            policy.ValueScore,
		EngagementScore:       policy.EngagementScore,
		RiskScore:             policy.RiskScore,
		Insights:              insights,
	}
}
