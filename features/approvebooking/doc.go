// Package approvebooking implements the Approve or Reject Booking use case.
//
// The owner of an item decides once on a WAITING reservation. The read-check-write sequence is
// made atomic by a compare-and-set in the store: the status is only written WHERE it is still
// WAITING. A lost race surfaces as booking.ErrConcurrencyConflict and the whole workflow is retried
// once; the re-read then usually fails with booking.ErrAlreadyDecided.
package approvebooking
