// Package helper provides fixtures shared by the feature, store and HTTP tests.
package helper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// FixtureStore is implemented by memstore.Store and postgresengine.Store.
type FixtureStore interface {
	RegisterUser(ctx context.Context, user booking.User) (booking.User, error)
	AddItem(ctx context.Context, item booking.Item) (booking.Item, error)
	InsertReservation(ctx context.Context, reservation booking.Reservation) (booking.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, expected, next booking.Status) error
}

// FakeClock is the "now" of all feature tests.
func FakeClock() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

// At returns FakeClock shifted by the given number of hours.
func At(hours int) time.Time {
	return FakeClock().Add(time.Duration(hours) * time.Hour)
}

// GivenUniqueID returns a fresh v7 id.
func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenUser registers a user with a unique email.
func GivenUser(t testing.TB, ctx context.Context, store FixtureStore, name string) booking.User {
	t.Helper()

	id := GivenUniqueID(t)
	user, err := store.RegisterUser(ctx, booking.User{
		ID:    id,
		Name:  name,
		Email: fmt.Sprintf("%s-%s@example.com", name, id.String()[:8]),
	})
	require.NoError(t, err, "error in arranging test data")

	return user
}

// GivenItem adds an item owned by ownerID.
func GivenItem(t testing.TB, ctx context.Context, store FixtureStore, ownerID uuid.UUID, available bool) booking.Item {
	t.Helper()

	item, err := store.AddItem(ctx, booking.Item{
		OwnerID:     ownerID,
		Name:        "Cordless drill",
		Description: "18V, two batteries",
		Available:   available,
	})
	require.NoError(t, err, "error in arranging test data")

	return item
}

// GivenReservation inserts a reservation and moves it to the given status.
func GivenReservation(
	t testing.TB,
	ctx context.Context,
	store FixtureStore,
	itemID, bookerID uuid.UUID,
	start, end time.Time,
	status booking.Status,
) booking.Reservation {
	t.Helper()

	reservation, err := store.InsertReservation(ctx, booking.Reservation{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   booking.StatusWaiting,
	})
	require.NoError(t, err, "error in arranging test data")

	if status != booking.StatusWaiting {
		require.NoError(t, store.UpdateReservationStatus(ctx, reservation.ID, booking.StatusWaiting, status),
			"error in arranging test data")
		reservation.Status = status
	}

	return reservation
}
