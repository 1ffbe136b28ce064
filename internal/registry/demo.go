package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DemoStore keeps customers and bookings in memory for deployments
// without a database. IDs are real UUIDs so downstream formatting is
// identical to the persistent store.
type DemoStore struct {
	mu        sync.RWMutex
	customers map[string]demoCustomer // keyed by email
	bookings  []Booking
}

type demoCustomer struct {
	id    string
	name  string
	phone string
}

// NewDemoStore creates an empty in-memory store.
func NewDemoStore() *DemoStore {
	return &DemoStore{customers: make(map[string]demoCustomer)}
}

func (s *DemoStore) CreateCustomer(_ context.Context, name, email, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.customers[email]; ok {
		s.customers[email] = demoCustomer{id: existing.id, name: name, phone: phone}
		return existing.id, nil
	}
	id := uuid.NewString()
	s.customers[email] = demoCustomer{id: id, name: name, phone: phone}
	return id, nil
}

func (s *DemoStore) CreateBooking(_ context.Context, customerID, bookingType, date, tm string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking := Booking{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		BookingType: bookingType,
		Date:        date,
		Time:        tm,
		Status:      "confirmed",
		CreatedAt:   time.Now().UTC(),
	}
	for email, customer := range s.customers {
		if customer.id == customerID {
			booking.CustomerName = customer.name
			booking.CustomerEmail = email
			break
		}
	}
	s.bookings = append(s.bookings, booking)
	return booking.ID, nil
}

func (s *DemoStore) ListBookings(_ context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Booking, 0, limit)
	for i := len(s.bookings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.bookings[i])
	}
	return out, nil
}
