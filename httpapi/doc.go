// Package httpapi exposes the booking features over HTTP with gin.
//
// The acting user is identified by the X-Sharer-User-Id header. Timestamps are written as
// "2006-01-02T15:04:05" in UTC and accepted in that layout or as RFC 3339. Failures are answered
// with {"error": "<message>"} and a status derived from booking.KindOf.
package httpapi
