package createbooking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/createbooking"
	. "github.com/AntonStoeckl/item-booking-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/item-booking-go/testutil/memstore"
)

func Test_CommandHandler_Handle_CreatesWaitingReservation(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)

	handler := createbooking.NewCommandHandler(store)
	command := createbooking.BuildCommand(booker.ID, item.ID, At(1), At(2))

	// act
	reservation, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, reservation.ID)
	assert.Equal(t, booking.StatusWaiting, reservation.Status)
	assert.Equal(t, item.ID, reservation.ItemID)
	assert.Equal(t, owner.ID, reservation.ItemOwnerID)
	assert.Equal(t, booker.ID, reservation.BookerID)
	assert.True(t, reservation.Start.Before(reservation.End))

	stored, getErr := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, getErr)
	assert.Equal(t, reservation, stored)
}

func Test_CommandHandler_Handle_Rejections(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	unavailableItem := GivenItem(t, ctx, store, owner.ID, false)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(10), At(12), booking.StatusApproved)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(20), At(22), booking.StatusRejected)

	handler := createbooking.NewCommandHandler(store)

	tests := []struct {
		name         string
		command      createbooking.Command
		expected     error
		expectedKind booking.ErrorKind
	}{
		{
			name:         "unknown booker",
			command:      createbooking.BuildCommand(uuid.New(), item.ID, At(1), At(2)),
			expected:     booking.ErrUserNotFound,
			expectedKind: booking.KindNotFound,
		},
		{
			name:         "unknown item",
			command:      createbooking.BuildCommand(booker.ID, uuid.New(), At(1), At(2)),
			expected:     booking.ErrItemNotFound,
			expectedKind: booking.KindNotFound,
		},
		{
			name:         "unavailable item",
			command:      createbooking.BuildCommand(booker.ID, unavailableItem.ID, At(1), At(2)),
			expected:     booking.ErrItemUnavailable,
			expectedKind: booking.KindConflict,
		},
		{
			name:         "owner books own item",
			command:      createbooking.BuildCommand(owner.ID, item.ID, At(1), At(2)),
			expected:     booking.ErrOwnerCannotBook,
			expectedKind: booking.KindForbidden,
		},
		{
			name:         "end equals start",
			command:      createbooking.BuildCommand(booker.ID, item.ID, At(1), At(1)),
			expected:     booking.ErrInvalidTimeRange,
			expectedKind: booking.KindBadRequest,
		},
		{
			name:         "overlaps an approved booking",
			command:      createbooking.BuildCommand(booker.ID, item.ID, At(11), At(13)),
			expected:     booking.ErrBookingOverlap,
			expectedKind: booking.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			_, err := handler.Handle(ctx, tt.command)

			// assert
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, tt.expectedKind, booking.KindOf(err))
		})
	}
}

func Test_CommandHandler_Handle_AcceptsAdjacentAndRejectedWindows(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(10), At(12), booking.StatusApproved)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(20), At(22), booking.StatusRejected)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(30), At(32), booking.StatusWaiting)

	handler := createbooking.NewCommandHandler(store)

	tests := []struct {
		name    string
		command createbooking.Command
	}{
		{name: "ends when the approved booking starts", command: createbooking.BuildCommand(booker.ID, item.ID, At(9), At(10))},
		{name: "starts when the approved booking ends", command: createbooking.BuildCommand(booker.ID, item.ID, At(12), At(13))},
		{name: "covers a rejected booking", command: createbooking.BuildCommand(booker.ID, item.ID, At(19), At(23))},
		{name: "covers a waiting booking", command: createbooking.BuildCommand(booker.ID, item.ID, At(31), At(33))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			reservation, err := handler.Handle(ctx, tt.command)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, booking.StatusWaiting, reservation.Status)
		})
	}
}

func Test_CommandHandler_Handle_PropagatesStoreFailure(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	dbErr := errors.New("connection reset")
	store.FailWith(dbErr)

	handler := createbooking.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, createbooking.BuildCommand(booker.ID, item.ID, At(1), At(2)))

	// assert
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, booking.KindInternal, booking.KindOf(err))
}

func Test_BuildOverlapFilter(t *testing.T) {
	// arrange
	command := createbooking.BuildCommand(uuid.New(), uuid.New(), At(1), At(2))

	// act
	filter := createbooking.BuildOverlapFilter(command)

	// assert
	assert.Equal(t, command.ItemID, filter.ItemID())
	assert.Equal(t, booking.StatusApproved, filter.Status())
	assert.Len(t, filter.Bounds(), 2)
	assert.Equal(t, 1, filter.Limit())
}
