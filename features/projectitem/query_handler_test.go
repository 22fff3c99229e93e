package projectitem_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/projectitem"
	. "github.com/AntonStoeckl/item-booking-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/item-booking-go/testutil/memstore"
)

func Test_QueryHandler_Handle_OwnerSeesLastAndNext(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)

	GivenReservation(t, ctx, store, item.ID, booker.ID, At(-72), At(-71), booking.StatusApproved)
	last := GivenReservation(t, ctx, store, item.ID, booker.ID, At(-24), At(-23), booking.StatusApproved)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(-12), At(-11), booking.StatusRejected)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(-6), At(-5), booking.StatusWaiting)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(2), At(3), booking.StatusWaiting)
	next := GivenReservation(t, ctx, store, item.ID, booker.ID, At(5), At(6), booking.StatusApproved)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(48), At(49), booking.StatusApproved)

	handler := projectitem.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, projectitem.BuildQuery(item.ID, owner.ID, FakeClock()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, item, view.Item)
	require.NotNil(t, view.LastBooking)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, &booking.BookingSummary{ReservationID: last.ID, BookerID: booker.ID}, view.LastBooking)
	assert.Equal(t, &booking.BookingSummary{ReservationID: next.ID, BookerID: booker.ID}, view.NextBooking)
}

func Test_QueryHandler_Handle_LastIncludesAStartedReservation(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	current := GivenReservation(t, ctx, store, item.ID, booker.ID, At(-1), At(1), booking.StatusApproved)
	handler := projectitem.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, projectitem.BuildQuery(item.ID, owner.ID, FakeClock()))

	// assert
	require.NoError(t, err)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, current.ID, view.LastBooking.ReservationID)
	assert.Nil(t, view.NextBooking)
}

func Test_QueryHandler_Handle_NonOwnerSeesNoBookings(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(-24), At(-23), booking.StatusApproved)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(5), At(6), booking.StatusApproved)
	_, err := store.InsertComment(ctx, booking.Comment{ItemID: item.ID, AuthorID: booker.ID, Text: "Worked fine", Created: At(-20)})
	require.NoError(t, err)

	handler := projectitem.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, projectitem.BuildQuery(item.ID, booker.ID, FakeClock()))

	// assert
	require.NoError(t, err)
	assert.Nil(t, view.LastBooking)
	assert.Nil(t, view.NextBooking)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "Worked fine", view.Comments[0].Text)
	assert.Equal(t, booker.Name, view.Comments[0].AuthorName)
}

func Test_QueryHandler_Handle_NoApprovedBookings(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)
	GivenReservation(t, ctx, store, item.ID, booker.ID, At(-24), At(-23), booking.StatusWaiting)
	handler := projectitem.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, projectitem.BuildQuery(item.ID, owner.ID, FakeClock()))

	// assert
	require.NoError(t, err)
	assert.Nil(t, view.LastBooking)
	assert.Nil(t, view.NextBooking)
	assert.Empty(t, view.Comments)
}

func Test_QueryHandler_Handle_Errors(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	item := GivenItem(t, ctx, store, owner.ID, true)
	handler := projectitem.NewQueryHandler(store)

	tests := []struct {
		name     string
		query    projectitem.Query
		expected error
	}{
		{name: "unknown viewer", query: projectitem.BuildQuery(item.ID, uuid.New(), FakeClock()), expected: booking.ErrUserNotFound},
		{name: "unknown item", query: projectitem.BuildQuery(uuid.New(), owner.ID, FakeClock()), expected: booking.ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			_, err := handler.Handle(ctx, tt.query)

			// assert
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
		})
	}
}

func Test_ProjectItemView(t *testing.T) {
	ownerID := uuid.New()
	item := booking.Item{ID: uuid.New(), OwnerID: ownerID, Available: true}
	query := projectitem.BuildQuery(item.ID, ownerID, FakeClock())
	before := booking.Reservation{ID: uuid.New(), BookerID: uuid.New(), Start: At(-1)}
	after := booking.Reservation{ID: uuid.New(), BookerID: uuid.New(), Start: At(1)}
	atNow := booking.Reservation{ID: uuid.New(), BookerID: uuid.New(), Start: FakeClock()}

	tests := []struct {
		name         string
		last         []booking.Reservation
		next         []booking.Reservation
		query        projectitem.Query
		expectedLast *booking.BookingSummary
		expectedNext *booking.BookingSummary
	}{
		{
			name:         "owner with both",
			last:         []booking.Reservation{before},
			next:         []booking.Reservation{after},
			query:        query,
			expectedLast: before.Summary(),
			expectedNext: after.Summary(),
		},
		{
			name:  "non-owner",
			last:  []booking.Reservation{before},
			next:  []booking.Reservation{after},
			query: projectitem.BuildQuery(item.ID, uuid.New(), FakeClock()),
		},
		{
			name:  "start at now is neither",
			last:  []booking.Reservation{atNow},
			next:  []booking.Reservation{atNow},
			query: query,
		},
		{
			name:  "no candidates",
			query: query,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			view := projectitem.ProjectItemView(item, nil, tt.last, tt.next, tt.query)

			// assert
			assert.Equal(t, tt.expectedLast, view.LastBooking)
			assert.Equal(t, tt.expectedNext, view.NextBooking)
		})
	}
}
