package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Booking is a committed booking row.
type Booking struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	BookingType   string    `json:"booking_type"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostgresStore persists customers and bookings in the relational
// database.
type PostgresStore struct {
	db db
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(db db) *PostgresStore {
	if db == nil {
		panic("registry: database required")
	}
	return &PostgresStore{db: db}
}

// CreateCustomer inserts the customer or, when the email already exists,
// refreshes the row and returns the existing id.
func (s *PostgresStore) CreateCustomer(ctx context.Context, name, email, phone string) (string, error) {
	query := `
		INSERT INTO customers (id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING id
	`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, uuid.New(), name, email, phone).Scan(&id); err != nil {
		return "", fmt.Errorf("registry: customer upsert failed: %w", err)
	}
	return id.String(), nil
}

// CreateBooking inserts a confirmed booking row.
func (s *PostgresStore) CreateBooking(ctx context.Context, customerID, bookingType, date, tm string) (string, error) {
	id := uuid.New()
	query := `
		INSERT INTO bookings (id, customer_id, booking_type, booking_date, booking_time, status)
		VALUES ($1, $2, $3, $4, $5, 'confirmed')
		RETURNING created_at
	`
	var createdAt time.Time
	if err := s.db.QueryRow(ctx, query, id, customerID, bookingType, date, tm).Scan(&createdAt); err != nil {
		return "", fmt.Errorf("registry: booking insert failed: %w", err)
	}
	return id.String(), nil
}

// ListBookings returns the most recent bookings, newest first.
func (s *PostgresStore) ListBookings(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT b.id, b.customer_id, c.name, c.email,
		       b.booking_type, b.booking_date::text, b.booking_time, b.status, b.created_at
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		ORDER BY b.created_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("registry: booking list failed: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID,
			&b.CustomerID,
			&b.CustomerName,
			&b.CustomerEmail,
			&b.BookingType,
			&b.Date,
			&b.Time,
			&b.Status,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("registry: booking scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: booking rows failed: %w", err)
	}
	return out, nil
}
