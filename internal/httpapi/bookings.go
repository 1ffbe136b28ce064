package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wolfman30/booking-assistant/internal/registry"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// BookingLister reads committed bookings.
type BookingLister interface {
	ListBookings(ctx context.Context, limit int) ([]registry.Booking, error)
}

// BookingsHandler serves the booking read API.
type BookingsHandler struct {
	store  BookingLister
	logger *logging.Logger
}

// NewBookingsHandler creates the bookings handler.
func NewBookingsHandler(store BookingLister, logger *logging.Logger) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{store: store, logger: logger}
}

// ListResponse wraps the booking list.
type ListResponse struct {
	Bookings []registry.Booking `json:"bookings"`
	Count    int                `json:"count"`
}

// List handles GET /bookings requests.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "booking storage is not enabled", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	bookings, err := h.store.ListBookings(r.Context(), limit)
	if err != nil {
		h.logger.Error("booking list failed", "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []registry.Booking{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Bookings: bookings, Count: len(bookings)})
}
