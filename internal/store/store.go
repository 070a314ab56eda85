// Package store holds the engine's shared state: per-property
// configurations and the append-only per-guest recommendation,
// interaction, and conversion history. All access is concurrency-safe;
// external lookups never happen under a store lock.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"upsell-engine/internal/models"
)

// RecommendationRecord ties a stored recommendation to the property and
// guest it was generated for.
type RecommendationRecord struct {
	PropertyID     string                      `json:"property_id"`
	GuestID        string                      `json:"guest_id"`
	Recommendation models.UpsellRecommendation `json:"recommendation"`
}

// ConversionRecord ties a stored conversion to the guest it belongs to.
type ConversionRecord struct {
	GuestID    string            `json:"guest_id"`
	Conversion models.Conversion `json:"conversion"`
}

// AuditLog receives a durable copy of every append. Implementations
// must tolerate being called concurrently.
type AuditLog interface {
	AppendRecommendation(rec RecommendationRecord) error
	AppendInteraction(guestID string, in models.Interaction) error
	AppendConversion(guestID string, cv models.Conversion) error
}

// Store is the engine's tracking store. Construct it explicitly with
// NewStore; there is no package-level state.
type Store struct {
	mu              sync.RWMutex
	configs         map[string]*models.Configuration
	recommendations []RecommendationRecord
	interactions    map[string][]models.Interaction
	conversions     []ConversionRecord

	audit  AuditLog
	logger *zap.Logger
}

// NewStore creates an empty store. audit may be nil to disable the
// durable log.
func NewStore(audit AuditLog, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		configs:      make(map[string]*models.Configuration),
		interactions: make(map[string][]models.Interaction),
		audit:        audit,
		logger:       logger,
	}
}

// SetConfiguration atomically replaces the property's configuration.
// Past recommendations are never rewritten.
func (s *Store) SetConfiguration(propertyID string, cfg *models.Configuration) {
	s.mu.Lock()
	s.configs[propertyID] = cfg
	s.mu.Unlock()
}

// Configuration returns the current configuration for a property.
// Callers must treat the returned configuration as read-only; the store
// replaces it wholesale on mutation, so a held pointer stays coherent.
func (s *Store) Configuration(propertyID string) (*models.Configuration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[propertyID]
	return cfg, ok
}

// SetStrategyActive toggles the active flag on every strategy with the
// given id across all loaded configurations and returns how many
// strategies changed. Configurations are replaced copy-on-write so
// readers holding the previous pointer never observe a partial update.
func (s *Store) SetStrategyActive(strategyID string, active bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for propertyID, cfg := range s.configs {
		touched := false
		for _, st := range cfg.Strategies {
			if st.ID == strategyID && st.Active != active {
				touched = true
			}
		}
		if !touched {
			continue
		}

		next := *cfg
		next.Strategies = make([]models.Strategy, len(cfg.Strategies))
		copy(next.Strategies, cfg.Strategies)
		for i := range next.Strategies {
			if next.Strategies[i].ID == strategyID {
				next.Strategies[i].Active = active
				changed++
			}
		}
		s.configs[propertyID] = &next
	}
	return changed
}

// AppendRecommendations records generated recommendations for a guest.
// Appends are always preserved; concurrent callers interleave in
// arbitrary order.
func (s *Store) AppendRecommendations(propertyID, guestID string, recs []models.UpsellRecommendation) {
	records := make([]RecommendationRecord, 0, len(recs))
	for _, rec := range recs {
		records = append(records, RecommendationRecord{
			PropertyID:     propertyID,
			GuestID:        guestID,
			Recommendation: rec,
		})
	}

	s.mu.Lock()
	s.recommendations = append(s.recommendations, records...)
	s.mu.Unlock()

	if s.audit != nil {
		for _, record := range records {
			if err := s.audit.AppendRecommendation(record); err != nil {
				s.logger.Warn("failed to persist recommendation", zap.Error(err))
			}
		}
	}
}

// RecommendationsForGuest returns the guest's recommendation history.
func (s *Store) RecommendationsForGuest(guestID string) []models.UpsellRecommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.UpsellRecommendation
	for _, record := range s.recommendations {
		if record.GuestID == guestID {
			out = append(out, record.Recommendation)
		}
	}
	return out
}

// RecommendationsInWindow returns the property's recommendations whose
// generation time falls within [start, end].
func (s *Store) RecommendationsInWindow(propertyID string, start, end time.Time) []RecommendationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RecommendationRecord
	for _, record := range s.recommendations {
		at := record.Recommendation.Tracking.GeneratedAt
		if record.PropertyID == propertyID && !at.Before(start) && !at.After(end) {
			out = append(out, record)
		}
	}
	return out
}

// AppendInteraction records one guest interaction.
func (s *Store) AppendInteraction(guestID string, in models.Interaction) {
	s.mu.Lock()
	s.interactions[guestID] = append(s.interactions[guestID], in)
	s.mu.Unlock()

	if s.audit != nil {
		if err := s.audit.AppendInteraction(guestID, in); err != nil {
			s.logger.Warn("failed to persist interaction", zap.Error(err))
		}
	}
}

// InteractionsForGuest returns the guest's interaction history.
func (s *Store) InteractionsForGuest(guestID string) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.interactions[guestID]
	out := make([]models.Interaction, len(history))
	copy(out, history)
	return out
}

// AppendConversion records one guest conversion.
func (s *Store) AppendConversion(guestID string, cv models.Conversion) {
	s.mu.Lock()
	s.conversions = append(s.conversions, ConversionRecord{GuestID: guestID, Conversion: cv})
	s.mu.Unlock()

	if s.audit != nil {
		if err := s.audit.AppendConversion(guestID, cv); err != nil {
			s.logger.Warn("failed to persist conversion", zap.Error(err))
		}
	}
}

// ConversionsForGuest returns the guest's conversion history.
func (s *Store) ConversionsForGuest(guestID string) []models.Conversion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Conversion
	for _, record := range s.conversions {
		if record.GuestID == guestID {
			out = append(out, record.Conversion)
		}
	}
	return out
}

// ConversionsInWindow returns the property's conversions whose
// conversion time falls within [start, end].
func (s *Store) ConversionsInWindow(propertyID string, start, end time.Time) []models.Conversion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Conversion
	for _, record := range s.conversions {
		cv := record.Conversion
		if cv.PropertyID == propertyID && !cv.ConvertedAt.Before(start) && !cv.ConvertedAt.After(end) {
			out = append(out, cv)
		}
	}
	return out
}

// Restore preloads history, typically replayed from the audit log at
// startup. Restored entries bypass the audit log.
func (s *Store) Restore(recs []RecommendationRecord, interactions map[string][]models.Interaction, conversions []ConversionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recommendations = append(s.recommendations, recs...)
	for guestID, history := range interactions {
		s.interactions[guestID] = append(s.interactions[guestID], history...)
	}
	s.conversions = append(s.conversions, conversions...)
}
