package listbookings_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/listbookings"
	. "github.com/AntonStoeckl/item-booking-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/item-booking-go/testutil/memstore"
)

type fixture struct {
	store   *memstore.Store
	owner   booking.User
	booker  booking.User
	past    booking.Reservation
	current booking.Reservation
	future  booking.Reservation
	waiting booking.Reservation
	refused booking.Reservation
	foreign booking.Reservation
}

func givenBookings(t *testing.T) fixture {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	otherOwner := GivenUser(t, ctx, store, "other-owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	foreignItem := GivenItem(t, ctx, store, otherOwner.ID, true)

	return fixture{
		store:   store,
		owner:   owner,
		booker:  booker,
		past:    GivenReservation(t, ctx, store, item.ID, booker.ID, At(-48), At(-47), booking.StatusApproved),
		current: GivenReservation(t, ctx, store, item.ID, booker.ID, At(-1), At(1), booking.StatusApproved),
		future:  GivenReservation(t, ctx, store, item.ID, booker.ID, At(1), At(2), booking.StatusApproved),
		waiting: GivenReservation(t, ctx, store, item.ID, booker.ID, At(24), At(25), booking.StatusWaiting),
		refused: GivenReservation(t, ctx, store, item.ID, booker.ID, At(48), At(49), booking.StatusRejected),
		foreign: GivenReservation(t, ctx, store, foreignItem.ID, booker.ID, At(72), At(73), booking.StatusWaiting),
	}
}

func idsOf(reservations []booking.Reservation) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.ID)
	}

	return ids
}

func Test_QueryHandler_Handle_States(t *testing.T) {
	ctx := context.Background()
	f := givenBookings(t)
	handler := listbookings.NewQueryHandler(f.store)

	tests := []struct {
		name      string
		viewpoint booking.Viewpoint
		state     booking.State
		expected  []booking.Reservation
	}{
		{
			name:      "booker ALL",
			viewpoint: booking.AsBooker,
			state:     booking.StateAll,
			expected:  []booking.Reservation{f.foreign, f.refused, f.waiting, f.future, f.current, f.past},
		},
		{
			name:      "owner ALL excludes items of other owners",
			viewpoint: booking.AsOwner,
			state:     booking.StateAll,
			expected:  []booking.Reservation{f.refused, f.waiting, f.future, f.current, f.past},
		},
		{name: "CURRENT", viewpoint: booking.AsBooker, state: booking.StateCurrent, expected: []booking.Reservation{f.current}},
		{name: "PAST", viewpoint: booking.AsBooker, state: booking.StatePast, expected: []booking.Reservation{f.past}},
		{
			name:      "FUTURE",
			viewpoint: booking.AsOwner,
			state:     booking.StateFuture,
			expected:  []booking.Reservation{f.refused, f.waiting, f.future},
		},
		{
			name:      "WAITING",
			viewpoint: booking.AsBooker,
			state:     booking.StateWaiting,
			expected:  []booking.Reservation{f.foreign, f.waiting},
		},
		{name: "REJECTED", viewpoint: booking.AsOwner, state: booking.StateRejected, expected: []booking.Reservation{f.refused}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := listbookings.BuildQuery(f.booker.ID, tt.viewpoint, tt.state, 0, 20, FakeClock())
			if tt.viewpoint == booking.AsOwner {
				query.UserID = f.owner.ID
			}

			// act
			result, err := handler.Handle(ctx, query)

			// assert
			require.NoError(t, err)
			assert.Equal(t, idsOf(tt.expected), idsOf(result))
		})
	}
}

func Test_QueryHandler_Handle_ResultsAreSortedByStartDescending(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenBookings(t)
	handler := listbookings.NewQueryHandler(f.store)

	for _, state := range booking.States() {
		t.Run(state.Name(), func(t *testing.T) {
			// act
			result, err := handler.Handle(ctx, listbookings.BuildQuery(f.booker.ID, booking.AsBooker, state, 0, 20, FakeClock()))

			// assert
			require.NoError(t, err)
			for i := 1; i < len(result); i++ {
				assert.False(t, result[i].Start.After(result[i-1].Start), "results must be sorted by start descending")
			}
		})
	}
}

func Test_QueryHandler_Handle_CurrentIsInclusive(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenBookings(t)
	handler := listbookings.NewQueryHandler(f.store)

	tests := []struct {
		name string
		now  time.Time
	}{
		{name: "now equals start", now: f.current.Start},
		{name: "now equals end", now: f.current.End},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			result, err := handler.Handle(ctx, listbookings.BuildQuery(f.booker.ID, booking.AsBooker, booking.StateCurrent, 0, 20, tt.now))

			// assert
			require.NoError(t, err)
			assert.Contains(t, idsOf(result), f.current.ID)
		})
	}
}

func Test_QueryHandler_Handle_Pagination(t *testing.T) {
	ctx := context.Background()
	f := givenBookings(t)
	handler := listbookings.NewQueryHandler(f.store)

	tests := []struct {
		name     string
		from     int
		size     int
		expected []booking.Reservation
	}{
		{name: "first page", from: 0, size: 2, expected: []booking.Reservation{f.foreign, f.refused}},
		{name: "offset in items, not pages", from: 1, size: 2, expected: []booking.Reservation{f.refused, f.waiting}},
		{name: "last partial page", from: 5, size: 2, expected: []booking.Reservation{f.past}},
		{name: "beyond the end", from: 6, size: 2, expected: []booking.Reservation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			result, err := handler.Handle(ctx, listbookings.BuildQuery(f.booker.ID, booking.AsBooker, booking.StateAll, tt.from, tt.size, FakeClock()))

			// assert
			require.NoError(t, err)
			assert.Equal(t, idsOf(tt.expected), idsOf(result))
		})
	}
}

func Test_QueryHandler_Handle_Errors(t *testing.T) {
	ctx := context.Background()
	f := givenBookings(t)
	handler := listbookings.NewQueryHandler(f.store)

	tests := []struct {
		name     string
		query    listbookings.Query
		expected error
	}{
		{
			name:     "negative from",
			query:    listbookings.BuildQuery(f.booker.ID, booking.AsBooker, booking.StateAll, -1, 10, FakeClock()),
			expected: booking.ErrInvalidPagination,
		},
		{
			name:     "zero size",
			query:    listbookings.BuildQuery(f.booker.ID, booking.AsBooker, booking.StateAll, 0, 0, FakeClock()),
			expected: booking.ErrInvalidPagination,
		},
		{
			name:     "zero state",
			query:    listbookings.BuildQuery(f.booker.ID, booking.AsBooker, booking.State{}, 0, 10, FakeClock()),
			expected: booking.ErrUnsupportedState,
		},
		{
			name:     "unknown user",
			query:    listbookings.BuildQuery(uuid.New(), booking.AsOwner, booking.StateAll, 0, 10, FakeClock()),
			expected: booking.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			result, err := handler.Handle(ctx, tt.query)

			// assert
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, result)
		})
	}
}

func Test_QueryHandler_Handle_FutureAndPast_ScenarioF(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	reservation := GivenReservation(t, ctx, store, item.ID, booker.ID, At(1), At(2), booking.StatusWaiting)
	handler := listbookings.NewQueryHandler(store)

	// act
	future, futureErr := handler.Handle(ctx, listbookings.BuildQuery(booker.ID, booking.AsBooker, booking.StateFuture, 0, 10, FakeClock()))
	past, pastErr := handler.Handle(ctx, listbookings.BuildQuery(booker.ID, booking.AsBooker, booking.StatePast, 0, 10, FakeClock()))

	// assert
	require.NoError(t, futureErr)
	require.NoError(t, pastErr)
	assert.Equal(t, []uuid.UUID{reservation.ID}, idsOf(future))
	assert.Empty(t, past)
}
