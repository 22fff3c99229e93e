// Package getbooking implements the Get Booking query.
//
// A reservation is visible to its booker and to the owner of the booked item only.
package getbooking
