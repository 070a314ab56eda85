package models

// DefaultConfiguration returns the out-of-the-box configuration for a
// property: a VIP room-upgrade strategy, a spa add-on strategy, triggers
// for booking creation and pre-arrival, and email/web/mobile app
// channels with basic templates.
func DefaultConfiguration(propertyID string) *Configuration {
	return &Configuration{
		PropertyID: propertyID,
		Enabled:    true,
		Strategies: []Strategy{
			{
				ID:       "vip-room-upgrade",
				Name:     "VIP Room Upgrade",
				Category: CategoryRoomUpgrade,
				Priority: 100,
				Active:   true,
				Conditions: []Condition{
					{Attribute: AttrLoyaltyTier, Operator: OpIn, Value: []interface{}{"gold", "platinum"}, Weight: 1.0},
				},
				Offers: []Offer{
					{
						ID:              "deluxe-upgrade",
						Title:           "Deluxe Room Upgrade",
						Description:     "Complimentary upgrade to a deluxe room with a view",
						OriginalPrice:   150,
						SalePrice:       0,
						Currency:        "USD",
						DiscountPercent: 100,
					},
				},
				Presentation: PresentationPolicy{Layout: "banner", ShowSavings: true},
				Conversion:   ConversionPolicy{TrackViews: true, TrackClicks: true, AttributionWindowHours: 72},
			},
			{
				ID:       "relax-spa-addon",
				Name:     "Spa Relaxation Package",
				Category: CategorySpa,
				Priority: 60,
				Active:   true,
				Conditions: []Condition{
					{Attribute: AttrLengthOfStay, Operator: OpGreaterThan, Value: 1, Weight: 0.5},
				},
				Offers: []Offer{
					{
						ID:              "spa-couples",
						Title:           "Couples Spa Session",
						Description:     "A 60-minute couples massage in our wellness center",
						OriginalPrice:   220,
						SalePrice:       176,
						Currency:        "USD",
						DiscountPercent: 20,
						MaxQuantity:     10,
					},
				},
				Presentation: PresentationPolicy{Layout: "card", ShowSavings: true},
				Conversion:   ConversionPolicy{TrackViews: true, TrackClicks: true, AttributionWindowHours: 48},
			},
		},
		Triggers: []Trigger{
			{
				ID:          "on-booking-created",
				Event:       EventBookingCreated,
				Timing:      TriggerTiming{Delay: 30, Unit: "minutes", RespectQuietHours: true},
				StrategyIDs: []string{"vip-room-upgrade", "relax-spa-addon"},
				Active:      true,
			},
			{
				ID:          "before-arrival",
				Event:       EventPreArrival,
				Timing:      TriggerTiming{Delay: 3, Unit: "days", RespectQuietHours: true},
				StrategyIDs: []string{"relax-spa-addon"},
				Active:      true,
			},
		},
		Channels: []Channel{
			{
				Type:     ChannelEmail,
				Enabled:  true,
				Priority: 80,
				RateLimit: ChannelRateLimit{
					MaxPerDay:  1,
					MaxPerStay: 3,
				},
				Templates: []Template{
					{
						ID:      "email-room-upgrade",
						Name:    "room_upgrade offer email",
						Subject: "A special upgrade for your stay, {{guest_name}}",
						Body:    "Hi {{guest_name}}, {{offer_title}}: {{offer_description}}. Now {{sale_price}} {{currency}} (was {{original_price}} {{currency}}), you save {{savings}} {{currency}}.",
					},
					{
						ID:      "email-generic",
						Name:    "generic offer email",
						Subject: "An offer picked for you",
						Body:    "Hi {{guest_name}}, we thought you might enjoy {{offer_title}}: {{offer_description}} — {{discount_percent}}% off.",
					},
				},
				Tracking: TrackingPolicy{UTMSource: "upsell-engine", TrackOpens: true, TrackClicks: true},
			},
			{
				Type:     ChannelWeb,
				Enabled:  true,
				Priority: 60,
				Templates: []Template{
					{
						ID:   "web-generic",
						Name: "generic offer card",
						Body: "{{offer_title}} — {{offer_description}}. {{sale_price}} {{currency}}.",
					},
				},
				Tracking: TrackingPolicy{TrackClicks: true},
			},
			{
				Type:     ChannelMobileApp,
				Enabled:  true,
				Priority: 70,
				Templates: []Template{
					{
						ID:   "app-generic",
						Name: "generic offer card",
						Body: "{{offer_title}} — {{offer_description}}. {{sale_price}} {{currency}}.",
					},
				},
				Tracking: TrackingPolicy{TrackClicks: true},
			},
		},
		Targeting: Targeting{
			Segments: []Segment{
				{
					Name: "vip",
					Criteria: []Condition{
						{Attribute: AttrLoyaltyTier, Operator: OpIn, Value: []interface{}{"gold", "platinum"}},
						{Attribute: AttrBookingValue, Operator: OpGreaterThan, Value: 500},
					},
				},
				{
					Name: "family",
					Criteria: []Condition{
						{Attribute: AttrPartySize, Operator: OpGreaterThan, Value: 2},
					},
				},
			},
			DefaultBehavior: "show_general_offers",
		},
		Timing: TimingPolicy{
			QuietHoursStart: 22,
			QuietHoursEnd:   8,
			MaxOffersPerDay: 3,
		},
		Content: ContentPolicy{
			BrandName:       "Harborview Hotels",
			DefaultCurrency: "USD",
		},
		Analytics: DefaultAnalyticsPolicy(),
	}
}

// DefaultAnalyticsPolicy returns the placeholder component scores used
// until analytics are derived from data.
func DefaultAnalyticsPolicy() AnalyticsPolicy {
	return AnalyticsPolicy{
		ValueScore:      0.7,
		EngagementScore: 0.6,
		RiskScore:       0.2,
	}
}
