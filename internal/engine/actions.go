package engine

import "upsell-engine/internal/models"

// PlanNextActions derives the scheduled follow-up actions for a
// response: a 24-hour follow-up and a 72-hour retarget whenever
// anything was recommended, nothing otherwise. These are declarative
// descriptors; executing the sends is the delivery collaborator's job.
func PlanNextActions(req *models.UpsellRequest, recommendations []models.UpsellRecommendation) []models.NextAction {
	if len(recommendations) == 0 {
		return []models.NextAction{}
	}
	return []models.NextAction{
		{Type: "follow_up", AfterHours: 24, Condition: "no_interaction"},
		{Type: "retarget", AfterHours: 72, Condition: "viewed_but_not_converted"},
	}
}
