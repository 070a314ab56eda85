// Package engine implements the upsell decision core: trigger and
// condition matching, audience targeting, recommendation assembly,
// follow-up planning, and conversion estimation, orchestrated behind a
// single facade.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"upsell-engine/internal/events"
	"upsell-engine/internal/models"
	"upsell-engine/internal/resolver"
	"upsell-engine/internal/store"
	"upsell-engine/internal/validation"
)

// maxStrategiesPerResponse caps how many surviving strategies
// contribute offers to one response.
const maxStrategiesPerResponse = 3

// Engine is the upsell recommendation facade. Construct it with New;
// it holds no global state.
type Engine struct {
	store    *store.Store
	resolver *resolver.Resolver
	events   *events.Manager
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// New creates an engine. events may be nil to disable event hooks.
func New(st *store.Store, res *resolver.Resolver, ev *events.Manager, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    st,
		resolver: res,
		events:   ev,
		logger:   logger,
		tracer:   otel.Tracer("upsell-engine"),
		now:      time.Now,
	}
}

// GenerateUpsells runs the full decision pipeline for one request and
// records the generated recommendations. The caller's context bounds
// the whole call; on deadline expiry nothing partial is returned or
// recorded. A missing or disabled configuration is not an error: the
// response is empty with a reason attached.
func (e *Engine) GenerateUpsells(ctx context.Context, req *models.UpsellRequest) (*models.UpsellResponse, error) {
	if err := validation.ValidateRequest(req); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "engine.generate",
		trace.WithAttributes(
			attribute.String("property_id", req.PropertyID),
			attribute.String("event", string(req.Context.Event)),
		))
	defer span.End()

	now := e.now().UTC()
	resp := &models.UpsellResponse{
		RequestID:       uuid.NewString(),
		PropertyID:      req.PropertyID,
		GuestID:         req.GuestID,
		Recommendations: []models.UpsellRecommendation{},
		NextActions:     []models.NextAction{},
		GeneratedAt:     now,
	}

	cfg, ok := e.store.Configuration(req.PropertyID)
	if !ok {
		resp.Targeting = models.TargetingResult{Segment: "none"}
		resp.Reasons = []string{"no configuration loaded for property"}
		resp.Analytics = EstimateAnalytics(nil, 0, 0, models.DefaultAnalyticsPolicy())
		return resp, nil
	}
	if !cfg.Enabled {
		resp.Targeting = models.TargetingResult{Segment: "none"}
		resp.Reasons = []string{"upsells disabled for property"}
		resp.Analytics = EstimateAnalytics(nil, 0, 0, cfg.Analytics)
		return resp, nil
	}

	gctx := e.resolver.ResolveContext(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, selectSpan := e.tracer.Start(ctx, "engine.select")
	strategies := SelectStrategies(req, cfg, gctx)
	selectSpan.SetAttributes(attribute.Int("strategies", len(strategies)))
	selectSpan.End()

	_, targetSpan := e.tracer.Start(ctx, "engine.target")
	resp.Targeting = EvaluateTargeting(cfg, gctx)
	targetSpan.SetAttributes(attribute.String("segment", resp.Targeting.Segment))
	targetSpan.End()

	history := e.historyFor(req)

	_, buildSpan := e.tracer.Start(ctx, "engine.build")
	if len(strategies) > maxStrategiesPerResponse {
		strategies = strategies[:maxStrategiesPerResponse]
	}
	var recs []models.UpsellRecommendation
	for _, strategy := range strategies {
		for _, offer := range strategy.Offers {
			recs = append(recs, BuildRecommendation(strategy, offer, req, cfg, gctx, history, now))
		}
	}
	buildSpan.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Personalization.RelevanceScore > recs[j].Personalization.RelevanceScore
	})
	if recs != nil {
		resp.Recommendations = recs
	}

	resp.NextActions = PlanNextActions(req, resp.Recommendations)

	offersShown := len(e.store.RecommendationsForGuest(req.GuestID))
	conversions := 0
	if history != nil {
		conversions = len(history.Conversions)
	}
	resp.Analytics = EstimateAnalytics(resp.Recommendations, offersShown, conversions, cfg.Analytics)

	if len(resp.Recommendations) == 0 {
		resp.Reasons = append(resp.Reasons, "no strategy matched the request")
	} else {
		e.store.AppendRecommendations(req.PropertyID, req.GuestID, resp.Recommendations)
	}

	e.events.PublishUpsellGenerated(ctx, req.PropertyID, req.GuestID, resp.Targeting.Segment, resp.Recommendations)

	e.logger.Debug("generated upsells",
		zap.String("property_id", req.PropertyID),
		zap.String("guest_id", req.GuestID),
		zap.Int("recommendations", len(resp.Recommendations)),
		zap.String("segment", resp.Targeting.Segment))

	return resp, nil
}

// historyFor returns the activity history to score against: the
// request's snapshot when supplied, otherwise the tracking store's.
func (e *Engine) historyFor(req *models.UpsellRequest) *models.GuestHistory {
	if req.History != nil {
		return req.History
	}
	return &models.GuestHistory{
		Interactions: e.store.InteractionsForGuest(req.GuestID),
		Conversions:  e.store.ConversionsForGuest(req.GuestID),
	}
}

// UpdateConfiguration atomically replaces a property's configuration.
// In-flight requests holding the previous configuration finish against
// it; only subsequent requests see the replacement.
func (e *Engine) UpdateConfiguration(ctx context.Context, propertyID string, cfg *models.Configuration) error {
	if propertyID == "" {
		return &validation.ValidationError{Field: "property_id", Message: "is required"}
	}
	if err := validation.ValidateConfiguration(cfg); err != nil {
		return err
	}

	next := *cfg
	next.PropertyID = propertyID
	e.store.SetConfiguration(propertyID, &next)
	e.events.PublishConfigUpdated(ctx, propertyID)

	e.logger.Info("configuration updated",
		zap.String("property_id", propertyID),
		zap.Int("strategies", len(next.Strategies)),
		zap.Bool("enabled", next.Enabled))
	return nil
}

// GetConfiguration returns the current configuration for a property.
func (e *Engine) GetConfiguration(propertyID string) (*models.Configuration, bool) {
	return e.store.Configuration(propertyID)
}

// PauseStrategy deactivates every strategy with the given id across all
// loaded configurations and returns how many were paused. The global
// effect matches the observed reference behavior.
func (e *Engine) PauseStrategy(strategyID string) int {
	paused := e.store.SetStrategyActive(strategyID, false)
	e.logger.Info("strategy paused", zap.String("strategy_id", strategyID), zap.Int("affected", paused))
	return paused
}

// ResumeStrategy reactivates every strategy with the given id across
// all loaded configurations and returns how many were resumed.
func (e *Engine) ResumeStrategy(strategyID string) int {
	resumed := e.store.SetStrategyActive(strategyID, true)
	e.logger.Info("strategy resumed", zap.String("strategy_id", strategyID), zap.Int("affected", resumed))
	return resumed
}

// TrackInteraction appends one interaction to the guest's history.
func (e *Engine) TrackInteraction(ctx context.Context, guestID string, in models.Interaction) error {
	if guestID == "" {
		return &validation.ValidationError{Field: "guest_id", Message: "is required"}
	}
	if err := validation.ValidateInteraction(in); err != nil {
		return err
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = e.now().UTC()
	}

	e.store.AppendInteraction(guestID, in)
	e.events.PublishInteractionTracked(ctx, guestID, in)
	return nil
}

// TrackConversion appends one conversion to the guest's history.
func (e *Engine) TrackConversion(ctx context.Context, guestID string, cv models.Conversion) error {
	if guestID == "" {
		return &validation.ValidationError{Field: "guest_id", Message: "is required"}
	}
	if err := validation.ValidateConversion(cv); err != nil {
		return err
	}
	if cv.ConvertedAt.IsZero() {
		cv.ConvertedAt = e.now().UTC()
	}

	e.store.AppendConversion(guestID, cv)
	e.events.PublishConversionTracked(ctx, guestID, cv)
	return nil
}

// GetMetrics aggregates recommendation and conversion totals for a
// property over [start, end].
func (e *Engine) GetMetrics(propertyID string, start, end time.Time) models.UpsellMetrics {
	recs := e.store.RecommendationsInWindow(propertyID, start, end)
	convs := e.store.ConversionsInWindow(propertyID, start, end)

	metrics := models.UpsellMetrics{
		PropertyID:           propertyID,
		Start:                start,
		End:                  end,
		TotalRecommendations: len(recs),
		TotalConversions:     len(convs),
	}
	for _, cv := range convs {
		metrics.TotalRevenue += cv.Value
	}
	if metrics.TotalRecommendations > 0 {
		metrics.ConversionRate = float64(metrics.TotalConversions) / float64(metrics.TotalRecommendations)
	}
	if metrics.TotalConversions > 0 {
		metrics.AvgOrderValue = metrics.TotalRevenue / float64(metrics.TotalConversions)
	}
	return metrics
}
