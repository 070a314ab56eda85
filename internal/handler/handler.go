package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"upsell-engine/internal/engine"
	"upsell-engine/internal/models"
	"upsell-engine/internal/validation"
)

// Handler provides HTTP handlers for the engine's surface.
type Handler struct {
	engine      *engine.Engine
	maxBodySize int64
}

// NewHandlerOptions holds options for creating a handler.
type NewHandlerOptions struct {
	MaxBodySize int64
}

// DefaultHandlerOptions returns default handler options.
func DefaultHandlerOptions() NewHandlerOptions {
	return NewHandlerOptions{
		MaxBodySize: 10 << 20, // 10MB default
	}
}

// NewHandler creates a new handler instance.
func NewHandler(eng *engine.Engine) *Handler {
	return NewHandlerWithOptions(eng, DefaultHandlerOptions())
}

// NewHandlerWithOptions creates a new handler instance with custom options.
func NewHandlerWithOptions(eng *engine.Engine, opts NewHandlerOptions) *Handler {
	return &Handler{
		engine:      eng,
		maxBodySize: opts.MaxBodySize,
	}
}

// GenerateUpsells handles POST /upsells
func (h *Handler) GenerateUpsells(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req models.UpsellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	req.GuestID = validation.SanitizeString(req.GuestID)
	req.BookingID = validation.SanitizeString(req.BookingID)
	req.PropertyID = validation.SanitizeString(req.PropertyID)
	req.SessionID = validation.SanitizeString(req.SessionID)

	resp, err := h.engine.GenerateUpsells(r.Context(), &req)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// UpdateConfiguration handles PUT /properties/{property_id}/configuration
func (h *Handler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	propertyID := validation.SanitizeString(chi.URLParam(r, "property_id"))
	if propertyID == "" {
		h.respondError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	var cfg models.Configuration
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	if err := h.engine.UpdateConfiguration(r.Context(), propertyID, &cfg); err != nil {
		h.respondEngineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "updated", "property_id": propertyID})
}

// GetConfiguration handles GET /properties/{property_id}/configuration
func (h *Handler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	propertyID := validation.SanitizeString(chi.URLParam(r, "property_id"))
	if propertyID == "" {
		h.respondError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	cfg, ok := h.engine.GetConfiguration(propertyID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "no configuration for property")
		return
	}

	h.respondJSON(w, http.StatusOK, cfg)
}

// TrackInteraction handles POST /guests/{guest_id}/interactions
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	guestID := validation.SanitizeString(chi.URLParam(r, "guest_id"))

	var in models.Interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	if err := h.engine.TrackInteraction(r.Context(), guestID, in); err != nil {
		h.respondEngineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{"status": "tracked"})
}

// TrackConversion handles POST /guests/{guest_id}/conversions
func (h *Handler) TrackConversion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	guestID := validation.SanitizeString(chi.URLParam(r, "guest_id"))

	var cv models.Conversion
	if err := json.NewDecoder(r.Body).Decode(&cv); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	if err := h.engine.TrackConversion(r.Context(), guestID, cv); err != nil {
		h.respondEngineError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{"status": "tracked"})
}

// GetMetrics handles GET /properties/{property_id}/metrics
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	propertyID := validation.SanitizeString(chi.URLParam(r, "property_id"))
	if propertyID == "" {
		h.respondError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if param := r.URL.Query().Get("start"); param != "" {
		parsed, err := time.Parse(time.RFC3339, param)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid 'start' parameter, must be RFC3339 format")
			return
		}
		start = parsed.UTC()
	}
	if param := r.URL.Query().Get("end"); param != "" {
		parsed, err := time.Parse(time.RFC3339, param)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid 'end' parameter, must be RFC3339 format")
			return
		}
		end = parsed.UTC()
	}
	if end.Before(start) {
		h.respondError(w, http.StatusBadRequest, "'end' must not be before 'start'")
		return
	}

	h.respondJSON(w, http.StatusOK, h.engine.GetMetrics(propertyID, start, end))
}

// PauseStrategy handles POST /strategies/{strategy_id}/pause
func (h *Handler) PauseStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID := validation.SanitizeString(chi.URLParam(r, "strategy_id"))
	if strategyID == "" {
		h.respondError(w, http.StatusBadRequest, "strategy_id is required")
		return
	}

	affected := h.engine.PauseStrategy(strategyID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "paused", "affected": affected})
}

// ResumeStrategy handles POST /strategies/{strategy_id}/resume
func (h *Handler) ResumeStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID := validation.SanitizeString(chi.URLParam(r, "strategy_id"))
	if strategyID == "" {
		h.respondError(w, http.StatusBadRequest, "strategy_id is required")
		return
	}

	affected := h.engine.ResumeStrategy(strategyID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "resumed", "affected": affected})
}

// respondEngineError maps engine errors to status codes: validation
// failures are the caller's fault, deadline expiry is a timeout,
// anything else is internal.
func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respondError(w, http.StatusGatewayTimeout, "request deadline exceeded")
	default:
		h.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON sends a JSON response with the given status code.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response with the given status code and message.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
