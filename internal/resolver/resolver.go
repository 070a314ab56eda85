// Package resolver turns an upsell request into a resolved guest
// context by querying the external booking, guest, and loyalty systems.
// Lookups are best-effort: any failure substitutes the documented
// default for that attribute and resolution continues.
package resolver

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"upsell-engine/internal/cache"
	"upsell-engine/internal/guestdata"
	"upsell-engine/internal/models"
)

// Documented attribute defaults, applied on lookup failure.
const (
	DefaultBookingValue = 0.0
	DefaultRoomType     = "standard"
	DefaultGuestType    = "individual"
	DefaultLoyaltyTier  = "standard"
	DefaultLengthOfStay = 1
	DefaultPartySize    = 1
	DefaultLeadTime     = 0
	DefaultGuestName    = "Valued Guest"
)

// Resolver resolves runtime attribute values for requests.
type Resolver struct {
	bookings guestdata.BookingService
	guests   guestdata.GuestService
	loyalty  guestdata.LoyaltyService
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// New creates a resolver. cache may be nil to disable caching.
func New(bookings guestdata.BookingService, guests guestdata.GuestService, loyalty guestdata.LoyaltyService, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		bookings: bookings,
		guests:   guests,
		loyalty:  loyalty,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ResolveContext resolves every attribute for the request. It never
// fails: attributes whose lookups error resolve to defaults. The
// caller's context bounds the underlying lookups.
func (r *Resolver) ResolveContext(ctx context.Context, req *models.UpsellRequest) *models.GuestContext {
	if cached := r.fromCache(ctx, req); cached != nil {
		return cached
	}

	at := req.Context.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}

	gctx := &models.GuestContext{
		BookingValue: DefaultBookingValue,
		RoomType:     DefaultRoomType,
		GuestType:    DefaultGuestType,
		LoyaltyTier:  DefaultLoyaltyTier,
		LengthOfStay: DefaultLengthOfStay,
		PartySize:    DefaultPartySize,
		LeadTimeDays: DefaultLeadTime,
		Season:       seasonOf(at),
		DayOfWeek:    strings.ToLower(at.Weekday().String()),
		GuestName:    DefaultGuestName,
	}

	if booking, err := r.bookings.GetBooking(ctx, req.BookingID); err != nil {
		r.logger.Warn("booking lookup failed, using defaults",
			zap.String("booking_id", req.BookingID), zap.Error(err))
	} else {
		gctx.BookingValue = booking.TotalAmount
		if booking.RoomType != "" {
			gctx.RoomType = booking.RoomType
		}
		if booking.GuestCount > 0 {
			gctx.PartySize = booking.GuestCount
		}
		if nights := nightsBetween(booking.CheckIn, booking.CheckOut); nights > 0 {
			gctx.LengthOfStay = nights
		}
		if lead := daysUntil(at, booking.CheckIn); lead > 0 {
			gctx.LeadTimeDays = lead
		}
	}

	if guest, err := r.guests.GetGuest(ctx, req.GuestID); err != nil {
		r.logger.Warn("guest lookup failed, using defaults",
			zap.String("guest_id", req.GuestID), zap.Error(err))
	} else {
		if guest.GuestType != "" {
			gctx.GuestType = guest.GuestType
		}
		if name := strings.TrimSpace(guest.FirstName + " " + guest.LastName); name != "" {
			gctx.GuestName = name
		}
	}

	if loyalty, err := r.loyalty.GetLoyalty(ctx, req.GuestID); err != nil {
		r.logger.Warn("loyalty lookup failed, using defaults",
			zap.String("guest_id", req.GuestID), zap.Error(err))
	} else if loyalty.Tier != "" {
		gctx.LoyaltyTier = strings.ToLower(loyalty.Tier)
	}

	r.toCache(ctx, req, gctx)
	return gctx
}

func (r *Resolver) fromCache(ctx context.Context, req *models.UpsellRequest) *models.GuestContext {
	if r.cache == nil {
		return nil
	}
	var gctx models.GuestContext
	if err := cache.GetJSON(ctx, r.cache, contextKey(req), &gctx); err != nil {
		return nil
	}
	return &gctx
}

func (r *Resolver) toCache(ctx context.Context, req *models.UpsellRequest, gctx *models.GuestContext) {
	if r.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, r.cache, contextKey(req), gctx, r.cacheTTL); err != nil {
		r.logger.Warn("failed to cache guest context", zap.Error(err))
	}
}

func contextKey(req *models.UpsellRequest) string {
	return fmt.Sprintf("guestctx:%s:%s:%s", req.PropertyID, req.GuestID, req.BookingID)
}

func nightsBetween(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return 0
	}
	return int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
}

func daysUntil(from, to time.Time) int {
	if to.IsZero() || !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}
