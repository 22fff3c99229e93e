// Package booking provides the core types of the item booking reservation engine.
//
// This package defines the domain model shared by all features and storage engines:
// reservations and their approval status, items, users and comments, the error kinds
// every operation classifies its failures into, and the reservation Filter used by
// storage engines to build range queries.
//
// A Filter is built with an immutable builder and describes:
//   - who is involved (booker, owner of the item, a single item)
//   - which status the reservation must have
//   - time bounds on the reservation start and end
//   - sort direction on the start time and paging
//
// Common usage pattern:
//
//	filter := booking.BuildReservationFilter().
//		ForItem(itemID).
//		WithStatus(booking.StatusApproved).
//		StartingBefore(now).
//		Paged(0, 1).
//		Finalize()
//
//	reservations, err := store.QueryReservations(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
// The State values (ALL, CURRENT, PAST, FUTURE, WAITING, REJECTED) carry their own
// restriction and are applied to a FilterBuilder via State.Restrict.
package booking
