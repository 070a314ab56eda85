package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"upsell-engine/internal/engine"
	"upsell-engine/internal/guestdata"
	"upsell-engine/internal/models"
	"upsell-engine/internal/resolver"
	"upsell-engine/internal/store"
)

func newTestRouter() (*chi.Mux, *store.Store) {
	checkIn := time.Date(2026, time.June, 10, 15, 0, 0, 0, time.UTC)
	data := &guestdata.Static{
		Bookings: map[string]guestdata.Booking{
			"booking-1": {
				BookingID:   "booking-1",
				TotalAmount: 800,
				CheckIn:     checkIn,
				CheckOut:    checkIn.AddDate(0, 0, 1),
				GuestCount:  2,
			},
		},
		Guests: map[string]guestdata.Guest{
			"guest-1": {GuestID: "guest-1", FirstName: "Ana", LastName: "Silva"},
		},
		Loyalty: map[string]guestdata.Loyalty{
			"guest-1": {GuestID: "guest-1", Tier: "platinum"},
		},
	}

	st := store.NewStore(nil, zap.NewNop())
	res := resolver.New(data, data, data, nil, 0, zap.NewNop())
	eng := engine.New(st, res, nil, zap.NewNop())
	h := NewHandler(eng)

	r := chi.NewRouter()
	r.Post("/upsells", h.GenerateUpsells)
	r.Route("/properties/{property_id}", func(r chi.Router) {
		r.Put("/configuration", h.UpdateConfiguration)
		r.Get("/configuration", h.GetConfiguration)
		r.Get("/metrics", h.GetMetrics)
	})
	r.Route("/guests/{guest_id}", func(r chi.Router) {
		r.Post("/interactions", h.TrackInteraction)
		r.Post("/conversions", h.TrackConversion)
	})
	r.Route("/strategies/{strategy_id}", func(r chi.Router) {
		r.Post("/pause", h.PauseStrategy)
		r.Post("/resume", h.ResumeStrategy)
	})
	return r, st
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateUpsells_Endpoint(t *testing.T) {
	router, st := newTestRouter()
	st.SetConfiguration("hotel-1", models.DefaultConfiguration("hotel-1"))

	w := doJSON(t, router, http.MethodPost, "/upsells", models.UpsellRequest{
		GuestID:    "guest-1",
		BookingID:  "booking-1",
		PropertyID: "hotel-1",
		Context: models.RequestContext{
			Event:  models.EventBookingCreated,
			Device: "mobile",
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RequestID       string            `json:"request_id"`
		Recommendations []json.RawMessage `json:"recommendations"`
		Targeting       struct {
			Segment string `json:"segment"`
		} `json:"targeting"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("Expected a request id")
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("Expected 1 recommendation, got %d", len(resp.Recommendations))
	}
	if resp.Targeting.Segment != "vip" {
		t.Errorf("Expected vip segment, got %s", resp.Targeting.Segment)
	}
}

func TestGenerateUpsells_MissingBody(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/upsells", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an empty body, got %d", w.Code)
	}
}

func TestGenerateUpsells_MissingFields(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/upsells", models.UpsellRequest{GuestID: "guest-1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing fields, got %d", w.Code)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error == "" {
		t.Error("Expected an error message")
	}
}

func TestConfiguration_PutThenGet(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPut, "/properties/hotel-1/configuration", models.DefaultConfiguration("hotel-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on update, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/properties/hotel-1/configuration", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on read, got %d", w.Code)
	}

	var cfg models.Configuration
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("Failed to decode configuration: %v", err)
	}
	if cfg.PropertyID != "hotel-1" {
		t.Errorf("Expected property id hotel-1, got %s", cfg.PropertyID)
	}
	if len(cfg.Strategies) != 2 {
		t.Errorf("Expected 2 strategies, got %d", len(cfg.Strategies))
	}
}

func TestGetConfiguration_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/properties/nowhere/configuration", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestUpdateConfiguration_InvalidRejected(t *testing.T) {
	router, _ := newTestRouter()

	cfg := models.DefaultConfiguration("hotel-1")
	cfg.Strategies[0].Offers[0].DiscountPercent = 150

	w := doJSON(t, router, http.MethodPut, "/properties/hotel-1/configuration", cfg)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an out-of-range discount, got %d", w.Code)
	}
}

func TestTrackInteraction_Endpoint(t *testing.T) {
	router, st := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/guests/guest-1/interactions", models.Interaction{
		OfferID: "deluxe-upgrade",
		Type:    "view",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := len(st.InteractionsForGuest("guest-1")); got != 1 {
		t.Errorf("Expected 1 stored interaction, got %d", got)
	}
}

func TestTrackInteraction_InvalidType(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/guests/guest-1/interactions", models.Interaction{
		OfferID: "deluxe-upgrade",
		Type:    "teleport",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown interaction type, got %d", w.Code)
	}
}

func TestTrackConversion_Endpoint(t *testing.T) {
	router, st := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/guests/guest-1/conversions", models.Conversion{
		OfferID:    "spa-couples",
		PropertyID: "hotel-1",
		Category:   models.CategorySpa,
		Value:      176,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := len(st.ConversionsForGuest("guest-1")); got != 1 {
		t.Errorf("Expected 1 stored conversion, got %d", got)
	}
}

func TestGetMetrics_Endpoint(t *testing.T) {
	router, st := newTestRouter()

	at := time.Now().UTC().Add(-time.Hour)
	st.AppendRecommendations("hotel-1", "guest-1", []models.UpsellRecommendation{
		{Tracking: models.Tracking{GeneratedAt: at}},
	})
	st.AppendConversion("guest-1", models.Conversion{
		OfferID: "spa-couples", PropertyID: "hotel-1", Value: 176, ConvertedAt: at,
	})

	w := doJSON(t, router, http.MethodGet, "/properties/hotel-1/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var metrics models.UpsellMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("Failed to decode metrics: %v", err)
	}
	if metrics.TotalRecommendations != 1 || metrics.TotalConversions != 1 {
		t.Errorf("Unexpected totals: %d recommendations, %d conversions",
			metrics.TotalRecommendations, metrics.TotalConversions)
	}
	if metrics.TotalRevenue != 176 {
		t.Errorf("Expected revenue 176, got %f", metrics.TotalRevenue)
	}
}

func TestGetMetrics_BadWindow(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/properties/hotel-1/metrics?start=not-a-time", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a malformed start, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet,
		"/properties/hotel-1/metrics?start=2026-06-02T00:00:00Z&end=2026-06-01T00:00:00Z", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an inverted window, got %d", w.Code)
	}
}

func TestPauseStrategy_Endpoint(t *testing.T) {
	router, st := newTestRouter()
	st.SetConfiguration("hotel-1", models.DefaultConfiguration("hotel-1"))

	w := doJSON(t, router, http.MethodPost, "/strategies/vip-room-upgrade/pause", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Status   string `json:"status"`
		Affected int    `json:"affected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "paused" || resp.Affected != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}

	w = doJSON(t, router, http.MethodPost, "/strategies/vip-room-upgrade/resume", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on resume, got %d", w.Code)
	}
}
