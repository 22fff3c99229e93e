package approvebooking

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/shell"
)

// Store defines the interface needed by the CommandHandler for store operations.
// UpdateReservationStatus must refuse an approval that would overlap an APPROVED reservation
// of the same item with booking.ErrBookingOverlap.
type Store interface {
	GetReservation(ctx context.Context, id uuid.UUID) (booking.Reservation, error)
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, expected, next booking.Status) error
}

// CommandHandler orchestrates the workflow Read -> Decide -> Compare-and-set with one retry.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions adds retry options, e.g. shell.WithMetrics, on top of the single retry default.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = append(h.retryOptions, opts...)
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:        store,
		retryOptions: []shell.RetryOption{shell.WithMaxAttempts(2)},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle decides on the reservation and returns it with its new status.
func (h CommandHandler) Handle(ctx context.Context, command Command) (booking.Reservation, error) {
	ctx = booking.WithStrongConsistency(ctx)

	var decided booking.Reservation

	err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		reservation, execErr := h.executeCommand(retryCtx, command)
		decided = reservation

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return booking.Reservation{}, err
	}

	return decided, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (booking.Reservation, error) {
	reservation, err := h.store.GetReservation(ctx, command.ReservationID)
	if err != nil {
		return booking.Reservation{}, err
	}

	approvedOverlaps := 0

	// Only an owner's pending approval needs the range query, Decide rejects everything else on its own.
	if command.Approved && reservation.Status == booking.StatusWaiting && reservation.ItemOwnerID == command.ActorID {
		overlapping, queryErr := h.store.QueryReservations(ctx, BuildOverlapFilter(reservation))
		if queryErr != nil {
			return booking.Reservation{}, queryErr
		}

		for _, other := range overlapping {
			if other.ID != reservation.ID {
				approvedOverlaps++
			}
		}
	}

	next, decideErr := Decide(reservation, approvedOverlaps, command)
	if decideErr != nil {
		return booking.Reservation{}, decideErr
	}

	// The store re-checks the overlap atomically with the write, an approval committed since the
	// query above surfaces as booking.ErrBookingOverlap here.
	if updateErr := h.store.UpdateReservationStatus(ctx, reservation.ID, booking.StatusWaiting, next); updateErr != nil {
		return booking.Reservation{}, updateErr
	}

	reservation.Status = next

	return reservation, nil
}

// BuildOverlapFilter selects APPROVED reservations of the same item intersecting the reservation.
// Two rows are enough to find one that is not the reservation itself.
func BuildOverlapFilter(reservation booking.Reservation) booking.Filter {
	return booking.BuildReservationFilter().
		ForItem(reservation.ItemID).
		WithStatus(booking.StatusApproved).
		OverlappingWith(reservation.Start, reservation.End).
		Paged(0, 2).
		Finalize()
}
