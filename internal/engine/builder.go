package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"upsell-engine/internal/models"
)

// callToActions maps strategy categories to their call-to-action text.
var callToActions = map[models.StrategyCategory]string{
	models.CategoryRoomUpgrade:    "Upgrade Now",
	models.CategoryServiceAddon:   "Add Service",
	models.CategoryDining:         "Book Table",
	models.CategorySpa:            "Book Spa",
	models.CategoryActivities:     "Book Activity",
	models.CategoryTransportation: "Book Transfer",
	models.CategoryPackage:        "Get Package",
}

// defaultCallToAction is used for categories without a mapped CTA.
const defaultCallToAction = "Get Offer"

// lowStockThreshold is the max quantity at or below which an offer gets
// demand urgency framing.
const lowStockThreshold = 5

// crossSellSuggestions is the fixed suggestion set attached to every
// recommendation.
var crossSellSuggestions = []string{
	"Late checkout",
	"Airport transfer",
	"Breakfast package",
}

// BuildRecommendation assembles one trackable recommendation for a
// selected strategy/offer pair: chosen channel, rendered content,
// call-to-action, urgency framing, personalization, and correlation
// ids.
func BuildRecommendation(strategy models.Strategy, offer models.Offer, req *models.UpsellRequest, cfg *models.Configuration, gctx *models.GuestContext, history *models.GuestHistory, now time.Time) models.UpsellRecommendation {
	channel := selectChannel(cfg.Channels, req.Context.Device)
	template := selectTemplate(channel, strategy.Category)

	return models.UpsellRecommendation{
		ID:         uuid.NewString(),
		StrategyID: strategy.ID,
		Offer:      offer,
		Presentation: models.Presentation{
			Channel:      channel.Type,
			Content:      renderContent(channel.Type, template, offer, gctx, cfg),
			CallToAction: callToAction(strategy.Category),
			Layout:       strategy.Presentation.Layout,
		},
		Urgency: buildUrgency(offer, now),
		Personalization: models.Personalization{
			RelevanceScore: relevanceScore(strategy, gctx, history),
			Message:        personalMessage(strategy, offer, gctx),
			Suggestions:    crossSellSuggestions,
		},
		Tracking: models.Tracking{
			ImpressionID: uuid.NewString(),
			SessionID:    req.SessionID,
			GeneratedAt:  now,
		},
	}
}

// selectChannel prefers the channel type aligned with the request
// device (mobile to mobile_app, desktop to web) among enabled channels,
// and otherwise the enabled channel with the highest priority.
func selectChannel(channels []models.Channel, device string) models.Channel {
	var preferred models.ChannelType
	switch device {
	case "mobile":
		preferred = models.ChannelMobileApp
	case "desktop":
		preferred = models.ChannelWeb
	}

	var best *models.Channel
	for i := range channels {
		ch := &channels[i]
		if !ch.Enabled {
			continue
		}
		if ch.Type == preferred {
			return *ch
		}
		if best == nil || ch.Priority > best.Priority {
			best = ch
		}
	}
	if best != nil {
		return *best
	}
	// No enabled channels configured; deliver as a plain web card.
	return models.Channel{Type: models.ChannelWeb, Enabled: true}
}

// selectTemplate picks the first template on the channel whose name
// references the strategy category, falling back to the channel's first
// template.
func selectTemplate(channel models.Channel, category models.StrategyCategory) models.Template {
	for _, tmpl := range channel.Templates {
		if strings.Contains(tmpl.Name, string(category)) {
			return tmpl
		}
	}
	if len(channel.Templates) > 0 {
		return channel.Templates[0]
	}
	return models.Template{
		Subject: "{{offer_title}}",
		Body:    "{{offer_title}} — {{offer_description}}. {{sale_price}} {{currency}}.",
	}
}

// renderContent substitutes the named placeholders into the template
// and wraps the result in the payload shape for the channel type.
func renderContent(channelType models.ChannelType, template models.Template, offer models.Offer, gctx *models.GuestContext, cfg *models.Configuration) models.MessageContent {
	currency := offer.Currency
	if currency == "" {
		currency = cfg.Content.DefaultCurrency
	}

	replacer := strings.NewReplacer(
		"{{guest_name}}", gctx.GuestName,
		"{{offer_title}}", offer.Title,
		"{{offer_description}}", offer.Description,
		"{{original_price}}", formatPrice(offer.OriginalPrice),
		"{{sale_price}}", formatPrice(offer.SalePrice),
		"{{discount_percent}}", fmt.Sprintf("%.0f", offer.DiscountPercent),
		"{{savings}}", formatPrice(offer.OriginalPrice-offer.SalePrice),
		"{{currency}}", currency,
	)

	subject := replacer.Replace(template.Subject)
	body := replacer.Replace(template.Body)

	switch channelType {
	case models.ChannelEmail:
		return models.EmailContent{Subject: subject, HTMLBody: body, Preview: offer.Title}
	case models.ChannelSMS:
		return models.SMSContent{Text: body}
	case models.ChannelPush:
		return models.PushContent{Title: offer.Title, Body: body}
	case models.ChannelWeb, models.ChannelMobileApp:
		return models.CardContent{Headline: offer.Title, Body: body}
	case models.ChannelVoice, models.ChannelChatbot:
		return models.ChatContent{Text: body}
	}
	return models.CardContent{Headline: offer.Title, Body: body}
}

func callToAction(category models.StrategyCategory) string {
	if cta, ok := callToActions[category]; ok {
		return cta
	}
	return defaultCallToAction
}

// buildUrgency derives the urgency framing: a countdown for expiring
// offers, remaining stock for scarce ones, and a generic popularity
// line otherwise.
func buildUrgency(offer models.Offer, now time.Time) models.Urgency {
	if offer.ValidUntil != nil {
		hours := int(math.Ceil(offer.ValidUntil.Sub(now).Hours()))
		return models.Urgency{
			Type:    models.UrgencyTime,
			Message: fmt.Sprintf("Offer expires in %d hours", hours),
			Countdown: &models.Countdown{
				ExpiresAt:      *offer.ValidUntil,
				HoursRemaining: hours,
			},
		}
	}
	if offer.MaxQuantity > 0 && offer.MaxQuantity <= lowStockThreshold {
		return models.Urgency{
			Type:      models.UrgencyDemand,
			Message:   fmt.Sprintf("Only %d left at this price", offer.MaxQuantity),
			Remaining: offer.MaxQuantity,
		}
	}
	return models.Urgency{
		Type:    models.UrgencyPopularity,
		Message: "Popular choice among our guests",
	}
}

// personalMessage builds the guest-facing line, special-casing platinum
// members and room upgrades.
func personalMessage(strategy models.Strategy, offer models.Offer, gctx *models.GuestContext) string {
	switch {
	case gctx.LoyaltyTier == "platinum":
		return fmt.Sprintf("%s, as one of our Platinum members you have first access to %s.", gctx.GuestName, offer.Title)
	case strategy.Category == models.CategoryRoomUpgrade:
		return fmt.Sprintf("Make your stay extra special, %s — treat yourself to %s.", gctx.GuestName, offer.Title)
	default:
		return fmt.Sprintf("%s, we picked %s just for you.", gctx.GuestName, offer.Title)
	}
}

// relevanceScore computes the 0-1 heuristic fit of a strategy for the
// guest: 0.5 base, capped bonuses for category-affine interactions and
// conversions, a loyalty bonus, and a high-value booking bonus. The
// result is clamped to 1.0; no floor is applied.
func relevanceScore(strategy models.Strategy, gctx *models.GuestContext, history *models.GuestHistory) float64 {
	score := 0.5

	if history != nil {
		interactions := 0
		for _, in := range history.Interactions {
			if strings.Contains(in.OfferID, string(strategy.Category)) {
				interactions++
			}
		}
		score += math.Min(0.1*float64(interactions), 0.3)

		conversions := 0
		for _, cv := range history.Conversions {
			if cv.Category == strategy.Category {
				conversions++
			}
		}
		score += math.Min(0.15*float64(conversions), 0.2)
	}

	switch gctx.LoyaltyTier {
	case "platinum":
		score += 0.10
	case "gold":
		score += 0.05
	}

	if gctx.BookingValue > 500 {
		score += 0.10
	}

	return math.Min(score, 1.0)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
