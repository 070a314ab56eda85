package models

import "time"

// StrategyCategory classifies what kind of upsell a strategy promotes.
type StrategyCategory string

const (
	CategoryRoomUpgrade    StrategyCategory = "room_upgrade"
	CategoryServiceAddon   StrategyCategory = "service_addon"
	CategoryDining         StrategyCategory = "dining"
	CategorySpa            StrategyCategory = "spa"
	CategoryActivities     StrategyCategory = "activities"
	CategoryTransportation StrategyCategory = "transportation"
	CategoryPackage        StrategyCategory = "package"
)

// Attribute is the closed set of runtime attributes conditions can test.
// The context resolver and the condition evaluator both switch over this
// set, so adding an attribute is a change in both places.
type Attribute string

const (
	AttrBookingValue Attribute = "booking_value"
	AttrRoomType     Attribute = "room_type"
	AttrGuestType    Attribute = "guest_type"
	AttrLoyaltyTier  Attribute = "loyalty_tier"
	AttrLengthOfStay Attribute = "length_of_stay"
	AttrPartySize    Attribute = "party_size"
	AttrLeadTime     Attribute = "lead_time"
	AttrSeason       Attribute = "season"
	AttrDayOfWeek    Attribute = "day_of_week"
)

// Operator is a comparison operator usable in conditions and targeting
// criteria. Unknown operators evaluate to false, never to an error.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIn          Operator = "in"
	OpBetween     Operator = "between"
	OpContains    Operator = "contains"
)

// TriggerEvent identifies the lifecycle event a trigger fires on.
type TriggerEvent string

const (
	EventBookingCreated  TriggerEvent = "booking_created"
	EventPreArrival      TriggerEvent = "pre_arrival"
	EventCheckIn         TriggerEvent = "check_in"
	EventDuringStay      TriggerEvent = "during_stay"
	EventCheckOut        TriggerEvent = "check_out"
	EventPostStay        TriggerEvent = "post_stay"
	EventBrowseStart     TriggerEvent = "browse_start"
	EventCartAbandonment TriggerEvent = "cart_abandonment"
)

// ChannelType identifies a delivery channel.
type ChannelType string

const (
	ChannelEmail     ChannelType = "email"
	ChannelSMS       ChannelType = "sms"
	ChannelPush      ChannelType = "push"
	ChannelWeb       ChannelType = "web"
	ChannelMobileApp ChannelType = "mobile_app"
	ChannelVoice     ChannelType = "voice"
	ChannelChatbot   ChannelType = "chatbot"
)

// Condition tests one runtime attribute against an expected value.
// Weight is advisory metadata and is not applied to scoring.
type Condition struct {
	Attribute Attribute   `json:"attribute"`
	Operator  Operator    `json:"operator"`
	Value     interface{} `json:"value"`
	Weight    float64     `json:"weight,omitempty"`
}

// Offer is a concrete priced proposition belonging to a strategy.
// The engine does not enforce SalePrice <= OriginalPrice; producers own
// that invariant.
type Offer struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	OriginalPrice   float64    `json:"original_price"`
	SalePrice       float64    `json:"sale_price"`
	Currency        string     `json:"currency"`
	DiscountPercent float64    `json:"discount_percent"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	MaxQuantity     int        `json:"max_quantity,omitempty"`
	Bundle          []string   `json:"bundle,omitempty"`
}

// PresentationPolicy configures how a strategy's offers are laid out.
type PresentationPolicy struct {
	Layout      string `json:"layout"`
	ShowSavings bool   `json:"show_savings"`
}

// ConversionPolicy configures conversion attribution for a strategy.
type ConversionPolicy struct {
	TrackViews             bool `json:"track_views"`
	TrackClicks            bool `json:"track_clicks"`
	AttributionWindowHours int  `json:"attribution_window_hours"`
}

// Strategy is a prioritized bundle of conditions and candidate offers
// for one upsell category. All conditions must match (logical AND) for
// the strategy to be a candidate; a strategy with zero conditions
// always passes.
type Strategy struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Category     StrategyCategory   `json:"category"`
	Priority     int                `json:"priority"`
	Active       bool               `json:"active"`
	Conditions   []Condition        `json:"conditions,omitempty"`
	Offers       []Offer            `json:"offers"`
	Presentation PresentationPolicy `json:"presentation"`
	Conversion   ConversionPolicy   `json:"conversion"`
}

// TriggerTiming controls when a fired trigger is acted on.
type TriggerTiming struct {
	Delay             int    `json:"delay"`
	Unit              string `json:"unit"` // minutes, hours, days
	RespectQuietHours bool   `json:"respect_quiet_hours"`
}

// Trigger activates a set of strategies when its event matches the
// request and all trigger-level conditions hold.
type Trigger struct {
	ID          string        `json:"id"`
	Event       TriggerEvent  `json:"event"`
	Timing      TriggerTiming `json:"timing"`
	Conditions  []Condition   `json:"conditions,omitempty"`
	StrategyIDs []string      `json:"strategy_ids"`
	Active      bool          `json:"active"`
}

// Template is a named content template attached to a channel.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// ChannelRateLimit caps deliveries through a channel.
type ChannelRateLimit struct {
	MaxPerDay  int `json:"max_per_day"`
	MaxPerStay int `json:"max_per_stay"`
}

// TrackingPolicy configures delivery tracking for a channel.
type TrackingPolicy struct {
	UTMSource   string `json:"utm_source,omitempty"`
	TrackOpens  bool   `json:"track_opens"`
	TrackClicks bool   `json:"track_clicks"`
}

// Channel is a configured delivery channel with its templates.
type Channel struct {
	Type      ChannelType      `json:"type"`
	Enabled   bool             `json:"enabled"`
	Priority  int              `json:"priority"`
	RateLimit ChannelRateLimit `json:"rate_limit"`
	Templates []Template       `json:"templates"`
	Tracking  TrackingPolicy   `json:"tracking"`
}

// Segment is an audience definition scored against a request. Criteria
// reuse the condition operator set, applied to resolved attributes.
type Segment struct {
	Name     string      `json:"name"`
	Criteria []Condition `json:"criteria"`
}

// Targeting holds the configured audience segments for a property.
type Targeting struct {
	Segments        []Segment `json:"segments"`
	DefaultBehavior string    `json:"default_behavior"`
}

// TimingPolicy holds property-wide timing rules.
type TimingPolicy struct {
	QuietHoursStart int `json:"quiet_hours_start"` // hour of day, 0-23
	QuietHoursEnd   int `json:"quiet_hours_end"`
	MaxOffersPerDay int `json:"max_offers_per_day"`
}

// ContentPolicy holds property-wide content defaults.
type ContentPolicy struct {
	BrandName       string `json:"brand_name"`
	DefaultCurrency string `json:"default_currency"`
}

// AnalyticsPolicy carries the placeholder component scores reported in
// response analytics. These are configuration constants, not values
// derived per request.
type AnalyticsPolicy struct {
	ValueScore      float64 `json:"value_score"`
	EngagementScore float64 `json:"engagement_score"`
	RiskScore       float64 `json:"risk_score"`
}

// Configuration is the per-property upsell configuration. Replacing it
// is atomic and affects subsequent requests only.
type Configuration struct {
	PropertyID string          `json:"property_id"`
	Enabled    bool            `json:"enabled"`
	Strategies []Strategy      `json:"strategies"`
	Triggers   []Trigger       `json:"triggers"`
	Channels   []Channel       `json:"channels"`
	Targeting  Targeting       `json:"targeting"`
	Timing     TimingPolicy    `json:"timing"`
	Content    ContentPolicy   `json:"content"`
	Analytics  AnalyticsPolicy `json:"analytics"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
