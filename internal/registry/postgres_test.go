package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

func TestCreateCustomerUpsert(t *testing.T) {
	store, mock := newMockStore(t)
	existing := uuid.New()

	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(pgxmock.AnyArg(), "Anna Smith", "anna@example.com", "5551234567").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(existing))

	id, err := store.CreateCustomer(context.Background(), "Anna Smith", "anna@example.com", "5551234567")
	require.NoError(t, err)
	assert.Equal(t, existing.String(), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomerError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(pgxmock.AnyArg(), "Anna Smith", "anna@example.com", "5551234567").
		WillReturnError(errors.New("connection reset"))

	_, err := store.CreateCustomer(context.Background(), "Anna Smith", "anna@example.com", "5551234567")
	assert.Error(t, err)
}

func TestCreateBooking(t *testing.T) {
	store, mock := newMockStore(t)
	customerID := uuid.NewString()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), customerID, "hotel", "2026-09-15", "14:30").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	id, err := store.CreateBooking(context.Background(), customerID, "hotel", "2026-09-15", "14:30")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "booking id must be a uuid")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings(t *testing.T) {
	store, mock := newMockStore(t)
	bookingID := uuid.NewString()
	customerID := uuid.NewString()
	created := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "name", "email",
			"booking_type", "booking_date", "booking_time", "status", "created_at",
		}).AddRow(bookingID, customerID, "Anna Smith", "anna@example.com", "hotel", "2026-09-15", "14:30", "confirmed", created))

	bookings, err := store.ListBookings(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.Equal(t, bookingID, b.ID)
	assert.Equal(t, "Anna Smith", b.CustomerName)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, "2026-09-15", b.Date)
}

func TestDemoStoreRoundTrip(t *testing.T) {
	store := NewDemoStore()
	ctx := context.Background()

	id1, err := store.CreateCustomer(ctx, "Anna Smith", "anna@example.com", "5551234567")
	require.NoError(t, err)
	id2, err := store.CreateCustomer(ctx, "Anna S Smith", "anna@example.com", "5557654321")
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "same email must map to the same customer")

	bookingID, err := store.CreateBooking(ctx, id1, "spa", "2026-09-15", "14:30")
	require.NoError(t, err)

	bookings, err := store.ListBookings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, bookingID, bookings[0].ID)
	assert.Equal(t, "anna@example.com", bookings[0].CustomerEmail)
}
