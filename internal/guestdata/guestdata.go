// Package guestdata holds the read-only clients for the external
// booking, guest, and loyalty systems. All lookups are best-effort: the
// caller substitutes documented defaults on any failure.
package guestdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Booking is the booking record the engine consumes.
type Booking struct {
	BookingID   string    `json:"booking_id"`
	TotalAmount float64   `json:"total_amount"`
	RoomType    string    `json:"room_type"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	GuestCount  int       `json:"guest_count"`
}

// Guest is the guest record the engine consumes.
type Guest struct {
	GuestID   string `json:"guest_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	GuestType string `json:"guest_type"`
}

// Loyalty is the loyalty record the engine consumes.
type Loyalty struct {
	GuestID string `json:"guest_id"`
	Tier    string `json:"tier"`
}

// BookingService looks up booking details.
type BookingService interface {
	GetBooking(ctx context.Context, bookingID string) (*Booking, error)
}

// GuestService looks up guest details.
type GuestService interface {
	GetGuest(ctx context.Context, guestID string) (*Guest, error)
}

// LoyaltyService looks up loyalty membership.
type LoyaltyService interface {
	GetLoyalty(ctx context.Context, guestID string) (*Loyalty, error)
}

// Client calls the property-management HTTP APIs for bookings, guests,
// and loyalty. One Client may implement all three service interfaces.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL with a hard request
// timeout. Lookups also honor the caller's context deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetBooking fetches one booking by id.
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	var booking Booking
	if err := c.getJSON(ctx, fmt.Sprintf("%s/bookings/%s", c.baseURL, bookingID), &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetGuest fetches one guest by id.
func (c *Client) GetGuest(ctx context.Context, guestID string) (*Guest, error) {
	var guest Guest
	if err := c.getJSON(ctx, fmt.Sprintf("%s/guests/%s", c.baseURL, guestID), &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetLoyalty fetches one loyalty record by guest id.
func (c *Client) GetLoyalty(ctx context.Context, guestID string) (*Loyalty, error) {
	var loyalty Loyalty
	if err := c.getJSON(ctx, fmt.Sprintf("%s/loyalty/%s", c.baseURL, guestID), &loyalty); err != nil {
		return nil, err
	}
	return &loyalty, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Static serves fixed records from memory. It backs tests and
// deployments with no property-management system configured.
type Static struct {
	Bookings map[string]Booking
	Guests   map[string]Guest
	Loyalty  map[string]Loyalty
}

// GetBooking returns the fixed booking for the id, if present.
func (s *Static) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	if b, ok := s.Bookings[bookingID]; ok {
		return &b, nil
	}
	return nil, fmt.Errorf("booking %s not found", bookingID)
}

// GetGuest returns the fixed guest for the id, if present.
func (s *Static) GetGuest(ctx context.Context, guestID string) (*Guest, error) {
	if g, ok := s.Guests[guestID]; ok {
		return &g, nil
	}
	return nil, fmt.Errorf("guest %s not found", guestID)
}

// GetLoyalty returns the fixed loyalty record for the id, if present.
func (s *Static) GetLoyalty(ctx context.Context, guestID string) (*Loyalty, error) {
	if l, ok := s.Loyalty[guestID]; ok {
		return &l, nil
	}
	return nil, fmt.Errorf("loyalty record for %s not found", guestID)
}
