package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the approval status of a Reservation.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus converts a case-insensitive status name into a Status.
func ParseStatus(name string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(name)))
	if !status.IsValid() {
		return "", NewError(KindBadRequest, "unknown status: "+name)
	}

	return status, nil
}

// IsValid reports whether s is one of the three known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DecisionStatus maps an owner's decision to the status it produces.
func DecisionStatus(approved bool) Status {
	if approved {
		return StatusApproved
	}

	return StatusRejected
}

func (s Status) String() string {
	return string(s)
}

// Reservation is a booker's hold on an item for the half-open interval [Start, End).
// ItemOwnerID is denormalized from the item directory on every read.
type Reservation struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	ItemOwnerID uuid.UUID
	BookerID    uuid.UUID
	Start       time.Time
	End         time.Time
	Status      Status
}

// InvolvesUser reports whether userID is the booker or the owner of the booked item.
func (r Reservation) InvolvesUser(userID uuid.UUID) bool {
	return r.BookerID == userID || r.ItemOwnerID == userID
}

// Overlaps reports whether [start, end) intersects the reservation's interval.
// Windows that only touch do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}

// Summary returns the short form used in item views.
func (r Reservation) Summary() *BookingSummary {
	return &BookingSummary{ReservationID: r.ID, BookerID: r.BookerID}
}

// BookingSummary identifies a reservation and its booker, e.g. as the last or next booking of an item.
type BookingSummary struct {
	ReservationID uuid.UUID
	BookerID      uuid.UUID
}

// Item is a bookable thing owned by a user.
type Item struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
}

// User is a registered user, booker and/or item owner.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Comment is a user's textual review of an item they have booked before.
type Comment struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Text       string
	Created    time.Time
}

// ItemView is an item as seen by a specific user.
// LastBooking and NextBooking are only populated for the owner.
type ItemView struct {
	Item        Item
	LastBooking *BookingSummary
	NextBooking *BookingSummary
	Comments    []Comment
}

// ToTimestamp normalizes an instant to UTC with microsecond precision, the precision PostgreSQL stores.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
