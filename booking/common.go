package booking

import (
	"errors"
)

// ErrorKind classifies a failure so that outer layers can map it without inspecting messages.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindBadRequest ErrorKind = "bad_request"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
	KindInternal   ErrorKind = "internal"
)

// Error is a domain failure with a kind and a human-readable message.
// Package-level values are used as sentinels and compared with errors.Is.
type Error struct {
	kind ErrorKind
	msg  string
}

// NewError creates a new domain failure.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the ErrorKind of the failure.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// KindOf classifies any error, looking through wrapped and joined errors.
// Errors that carry no domain kind are internal, nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.kind
	}

	return KindInternal
}

var (
	ErrUserNotFound          = NewError(KindNotFound, "user not found")
	ErrItemNotFound          = NewError(KindNotFound, "item not found")
	ErrReservationNotFound   = NewError(KindNotFound, "reservation not found")
	ErrItemUnavailable       = NewError(KindConflict, "item is not available for booking")
	ErrOwnerCannotBook       = NewError(KindForbidden, "owner cannot book own item")
	ErrInvalidTimeRange      = NewError(KindBadRequest, "end must be after start")
	ErrBookingOverlap        = NewError(KindConflict, "item is already booked for this period")
	ErrAlreadyDecided        = NewError(KindBadRequest, "reservation is already approved or rejected")
	ErrNotItemOwner          = NewError(KindForbidden, "only the item owner may decide on a reservation")
	ErrNotBookingParticipant = NewError(KindForbidden, "only the booker or the item owner may view a reservation")
	ErrUnsupportedState      = NewError(KindBadRequest, "unknown state")
	ErrInvalidPagination     = NewError(KindBadRequest, "from must not be negative and size must be positive")
	ErrNotEligibleToComment  = NewError(KindBadRequest, "user is not eligible to comment on this item")
	ErrEmptyCommentText      = NewError(KindBadRequest, "comment text must not be empty")
	ErrConcurrencyConflict   = NewError(KindConflict, "concurrency error, no rows were affected")
	ErrDuplicateEntity       = NewError(KindConflict, "entity already exists")
	ErrInvalidUser           = NewError(KindBadRequest, "user name and a valid email are required")
	ErrInvalidItem           = NewError(KindBadRequest, "item name must not be empty")
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyTablePrefixSupplied = errors.New("empty table prefix supplied")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryingReservationsFailed = errors.New("querying reservations failed")
var ErrQueryingDirectoryFailed = errors.New("querying the user or item directory failed")
var ErrQueryingCommentsFailed = errors.New("querying comments failed")
var ErrWritingFailed = errors.New("writing to the database failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
