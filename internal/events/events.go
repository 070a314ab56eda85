package events

import (
	"context"
	"sync"
	"time"

	"upsell-engine/internal/models"
)

// EventType represents the type of event.
type EventType string

const (
	// EventUpsellGenerated is emitted after a GenerateUpsells call
	// produced (and recorded) its response.
	EventUpsellGenerated EventType = "upsell.generated"
	// EventInteractionTracked is emitted when a guest interaction is
	// recorded.
	EventInteractionTracked EventType = "interaction.tracked"
	// EventConversionTracked is emitted when a conversion is recorded.
	EventConversionTracked EventType = "conversion.tracked"
	// EventConfigUpdated is emitted when a property configuration is
	// replaced.
	EventConfigUpdated EventType = "config.updated"
)

// Event represents an event in the system.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// UpsellGeneratedData contains data for upsell generated events.
type UpsellGeneratedData struct {
	PropertyID      string
	GuestID         string
	Recommendations []models.UpsellRecommendation
	Segment         string
}

// InteractionTrackedData contains data for interaction tracked events.
type InteractionTrackedData struct {
	GuestID     string
	Interaction models.Interaction
}

// ConversionTrackedData contains data for conversion tracked events.
type ConversionTrackedData struct {
	GuestID    string
	Conversion models.Conversion
}

// ConfigUpdatedData contains data for configuration updated events.
type ConfigUpdatedData struct {
	PropertyID string
}

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Manager manages event handlers and event publishing.
type Manager struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	enabled  bool
}

// NewManager creates a new event manager.
func NewManager(enabled bool) *Manager {
	return &Manager{
		handlers: make(map[EventType][]Handler),
		enabled:  enabled,
	}
}

// Subscribe subscribes a handler to a specific event type.
func (m *Manager) Subscribe(eventType EventType, handler Handler) {
	if !m.enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Publish publishes an event to all subscribed handlers. Handlers run
// asynchronously so publishing never blocks the decision path.
func (m *Manager) Publish(ctx context.Context, eventType EventType, data interface{}) {
	if m == nil || !m.enabled {
		return
	}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	for _, handler := range handlers {
		go func(h Handler) {
			_ = h(ctx, event)
		}(handler)
	}
}

// PublishUpsellGenerated publishes an upsell generated event.
func (m *Manager) PublishUpsellGenerated(ctx context.Context, propertyID, guestID, segment string, recs []models.UpsellRecommendation) {
	m.Publish(ctx, EventUpsellGenerated, UpsellGeneratedData{
		PropertyID:      propertyID,
		GuestID:         guestID,
		Recommendations: recs,
		Segment:         segment,
	})
}

// PublishInteractionTracked publishes an interaction tracked event.
func (m *Manager) PublishInteractionTracked(ctx context.Context, guestID string, in models.Interaction) {
	m.Publish(ctx, EventInteractionTracked, InteractionTrackedData{GuestID: guestID, Interaction: in})
}

// PublishConversionTracked publishes a conversion tracked event.
func (m *Manager) PublishConversionTracked(ctx context.Context, guestID string, cv models.Conversion) {
	m.Publish(ctx, EventConversionTracked, ConversionTrackedData{GuestID: guestID, Conversion: cv})
}

// PublishConfigUpdated publishes a configuration updated event.
func (m *Manager) PublishConfigUpdated(ctx context.Context, propertyID string) {
	m.Publish(ctx, EventConfigUpdated, ConfigUpdatedData{PropertyID: propertyID})
}

// Shutdown shuts down the event manager.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = false
	m.handlers = make(map[EventType][]Handler)
}
