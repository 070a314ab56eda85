package engine

import (
	"sort"

	"upsell-engine/internal/models"
)

// SelectStrategies returns the active strategies activated by a trigger
// matching the request event and whose conditions all hold, ordered by
// priority descending. Ties keep configuration order (stable sort).
func SelectStrategies(req *models.UpsellRequest, cfg *models.Configuration, gctx *models.GuestContext) []models.Strategy {
	activated := make(map[string]bool)
	for _, trigger := range cfg.Triggers {
		if !trigger.Active || trigger.Event != req.Context.Event {
			continue
		}
		if !EvaluateConditions(trigger.Conditions, gctx) {
			continue
		}
		for _, id := range trigger.StrategyIDs {
			activated[id] = true
		}
	}

	var survivors []models.Strategy
	for _, strategy := range cfg.Strategies {
		if !strategy.Active || !activated[strategy.ID] {
			continue
		}
		if !EvaluateConditions(strategy.Conditions, gctx) {
			continue
		}
		survivors = append(survivors, strategy)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Priority > survivors[j].Priority
	})
	return survivors
}
