// Package createbooking implements the Create Booking use case.
//
// A booker requests an item for the half-open window [Start, End). The CommandHandler loads
// the facts the decision depends on (does the booker exist, the item, approved reservations
// overlapping the window) and delegates to the pure Decide function. Accepted requests are
// stored as WAITING reservations; the owner decides on them with the approvebooking feature.
package createbooking
