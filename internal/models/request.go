package models

import "time"

// RequestContext carries the situational details of the incoming event.
type RequestContext struct {
	Event     TriggerEvent `json:"event"`
	Device    string       `json:"device"` // mobile, desktop, tablet
	Channel   string       `json:"channel,omitempty"`
	Page      string       `json:"page,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Location  string       `json:"location,omitempty"`
}

// GuestPreferences are optional preferences supplied with a request.
type GuestPreferences struct {
	Interests        []string `json:"interests,omitempty"`
	PreferredChannel string   `json:"preferred_channel,omitempty"`
}

// GuestHistory is an optional snapshot of past activity supplied with a
// request. When absent, the engine uses its own tracking store history.
type GuestHistory struct {
	Interactions []Interaction `json:"interactions,omitempty"`
	Conversions  []Conversion  `json:"conversions,omitempty"`
}

// UpsellRequest is the input to GenerateUpsells. It is ephemeral and is
// never stored.
type UpsellRequest struct {
	GuestID     string            `json:"guest_id"`
	BookingID   string            `json:"booking_id"`
	PropertyID  string            `json:"property_id"`
	SessionID   string            `json:"session_id,omitempty"`
	Context     RequestContext    `json:"context"`
	Preferences *GuestPreferences `json:"preferences,omitempty"`
	History     *GuestHistory     `json:"history,omitempty"`
}

// Interaction is one guest touch on a presented offer.
type Interaction struct {
	OfferID          string    `json:"offer_id"`
	RecommendationID string    `json:"recommendation_id,omitempty"`
	Type             string    `json:"type"` // view, click, dismiss
	OccurredAt       time.Time `json:"occurred_at"`
}

// Conversion is one completed purchase attributed to an offer.
type Conversion struct {
	OfferID          string           `json:"offer_id"`
	RecommendationID string           `json:"recommendation_id,omitempty"`
	PropertyID       string           `json:"property_id"`
	Category         StrategyCategory `json:"category"`
	Value            float64          `json:"value"`
	ConvertedAt      time.Time        `json:"converted_at"`
}

// GuestContext holds the resolved runtime attribute values for one
// request. Lookups that fail resolve to the documented defaults.
type GuestContext struct {
	BookingValue float64
	RoomType     string
	GuestType    string
	LoyaltyTier  string
	LengthOfStay int
	PartySize    int
	LeadTimeDays int
	Season       string
	DayOfWeek    string
	GuestName    string
}

// Value returns the resolved value for one attribute. The switch is
// exhaustive over the Attribute set; an unrecognized attribute yields
// nil, which no operator matches.
func (g *GuestContext) Value(attr Attribute) interface{} {
	switch attr {
	case AttrBookingValue:
		return g.BookingValue
	case AttrRoomType:
		return g.RoomType
	case AttrGuestType:
		return g.GuestType
	case AttrLoyaltyTier:
		return g.LoyaltyTier
	case AttrLengthOfStay:
		return g.LengthOfStay
	case AttrPartySize:
		return g.PartySize
	case AttrLeadTime:
		return g.LeadTimeDays
	case AttrSeason:
		return g.Season
	case AttrDayOfWeek:
		return g.DayOfWeek
	}
	return nil
}

// UrgencyType classifies the urgency framing attached to an offer.
type UrgencyType string

const (
	UrgencyTime       UrgencyType = "time"
	UrgencyDemand     UrgencyType = "demand"
	UrgencyPopularity UrgencyType = "popularity"
)

// Countdown is the countdown block attached to time-limited offers.
type Countdown struct {
	ExpiresAt      time.Time `json:"expires_at"`
	HoursRemaining int       `json:"hours_remaining"`
}

// Urgency is the urgency framing of one recommendation.
type Urgency struct {
	Type      UrgencyType `json:"type"`
	Message   string      `json:"message"`
	Countdown *Countdown  `json:"countdown,omitempty"`
	Remaining int         `json:"remaining,omitempty"`
}

// Presentation is the rendered delivery detail of one recommendation.
type Presentation struct {
	Channel      ChannelType    `json:"channel"`
	Content      MessageContent `json:"content"`
	CallToAction string         `json:"call_to_action"`
	Layout       string         `json:"layout,omitempty"`
}

// Personalization carries the guest-specific framing of one
// recommendation. RelevanceScore is always within [0.0, 1.0].
type Personalization struct {
	RelevanceScore float64  `json:"relevance_score"`
	Message        string   `json:"message"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// Tracking holds the correlation identifiers of one recommendation.
type Tracking struct {
	ImpressionID string    `json:"impression_id"`
	SessionID    string    `json:"session_id,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// UpsellRecommendation is one fully rendered, trackable offer
// presentation. It is immutable once returned and only ever appended to
// history.
type UpsellRecommendation struct {
	ID              string          `json:"id"`
	StrategyID      string          `json:"strategy_id"`
	Offer           Offer           `json:"offer"`
	Presentation    Presentation    `json:"presentation"`
	Urgency         Urgency         `json:"urgency"`
	Personalization Personalization `json:"personalization"`
	Tracking        Tracking        `json:"tracking"`
}

// TargetingResult names the best-matching audience segment and why.
type TargetingResult struct {
	Segment      string   `json:"segment"`
	MatchedRules []string `json:"matched_rules,omitempty"`
	Score        int      `json:"score"`
	Reasons      []string `json:"reasons,omitempty"`
}

// NextAction is a declarative follow-up instruction for an external
// delivery collaborator.
type NextAction struct {
	Type       string `json:"type"` // follow_up, retarget
	AfterHours int    `json:"after_hours"`
	Condition  string `json:"condition"`
}

// ResponseAnalytics estimates how the generated set will perform.
type ResponseAnalytics struct {
	ConversionProbability float64  `json:"conversion_probability"`
	ValueScore            float64  `json:"value_score"`
	EngagementScore       float64  `json:"engagement_score"`
	RiskScore             float64  `json:"risk_score"`
	Insights              []string `json:"insights,omitempty"`
}

// UpsellResponse is the output of GenerateUpsells.
type UpsellResponse struct {
	RequestID       string                 `json:"request_id"`
	PropertyID      string                 `json:"property_id"`
	GuestID         string                 `json:"guest_id"`
	Recommendations []UpsellRecommendation `json:"recommendations"`
	Targeting       TargetingResult        `json:"targeting"`
	NextActions     []NextAction           `json:"next_actions"`
	Analytics       ResponseAnalytics      `json:"analytics"`
	Reasons         []string               `json:"reasons,omitempty"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// UpsellMetrics is the aggregate report over a time window.
type UpsellMetrics struct {
	PropertyID           string    `json:"property_id"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	TotalRecommendations int       `json:"total_recommendations"`
	TotalConversions     int       `json:"total_conversions"`
	ConversionRate       float64   `json:"conversion_rate"`
	TotalRevenue         float64   `json:"total_revenue"`
	AvgOrderValue        float64   `json:"avg_order_value"`
}
