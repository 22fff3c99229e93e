// Package listbookings implements the List Bookings query.
//
// Reservations are listed for one user, either as the booker or as the owner of the booked items,
// restricted by a booking.State evaluated at the query's Now, ordered by start descending and paged
// by an item offset. The read runs with eventual consistency: a reservation may flip from WAITING
// to APPROVED between the read and the response.
package listbookings
