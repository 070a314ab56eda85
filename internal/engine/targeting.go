package engine

import (
	"fmt"

	"upsell-engine/internal/models"
)

// criterionScore is the score added for every matching segment
// criterion.
const criterionScore = 10

// EvaluateTargeting scores every configured segment against the
// resolved guest context and returns the best match. A strictly higher
// score replaces the current best; ties keep the earliest segment. When
// no criterion matches anywhere, the result is the "default" segment
// with the configured default behavior.
func EvaluateTargeting(cfg *models.Configuration, gctx *models.GuestContext) models.TargetingResult {
	best := models.TargetingResult{Segment: "default", Score: 0}

	for _, segment := range cfg.Targeting.Segments {
		score := 0
		var matched []string
		for _, criterion := range segment.Criteria {
			if Compare(gctx.Value(criterion.Attribute), criterion.Operator, criterion.Value) {
				score += criterionScore
				matched = append(matched, fmt.Sprintf("%s %s %v", criterion.Attribute, criterion.Operator, criterion.Value))
			}
		}
		if score > best.Score {
			best = models.TargetingResult{
				Segment:      segment.Name,
				MatchedRules: matched,
				Score:        score,
				Reasons:      []string{fmt.Sprintf("segment %q matched %d of %d criteria", segment.Name, len(matched), len(segment.Criteria))},
			}
		}
	}

	if best.Score == 0 {
		behavior := cfg.Targeting.DefaultBehavior
		if behavior == "" {
			behavior = "show_general_offers"
		}
		best.Reasons = []string{fmt.Sprintf("no segment criteria matched, falling back to %s", behavior)}
	}
	return best
}
