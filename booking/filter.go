package booking

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

/***** TimeBound *****/

// TimeField names the reservation timestamp a TimeBound applies to.
type TimeField string

const (
	FieldStart TimeField = "start"
	FieldEnd   TimeField = "end"
)

// Comparison is the relation between a reservation timestamp and a TimeBound instant.
type Comparison int

const (
	Before Comparison = iota
	AtOrBefore
	After
	AtOrAfter
)

// TimeBound restricts one reservation timestamp relative to an instant.
type TimeBound struct {
	field      TimeField
	comparison Comparison
	instant    time.Time
}

func (tb TimeBound) Field() TimeField {
	return tb.field
}

func (tb TimeBound) Comparison() Comparison {
	return tb.comparison
}

func (tb TimeBound) Instant() time.Time {
	return tb.instant
}

func (tb TimeBound) matches(r Reservation) bool {
	value := r.Start
	if tb.field == FieldEnd {
		value = r.End
	}

	switch tb.comparison {
	case Before:
		return value.Before(tb.instant)
	case AtOrBefore:
		return !value.After(tb.instant)
	case After:
		return value.After(tb.instant)
	case AtOrAfter:
		return !value.Before(tb.instant)
	default:
		return false
	}
}

/***** Filter *****/

// SortDirection is the order of a result set by reservation start, ties broken by reservation id.
type SortDirection int

const (
	Descending SortDirection = iota
	Ascending
)

// Filter describes a reservation range query. The zero values of its parts mean "no restriction",
// a limit of 0 means "no limit".
type Filter struct {
	bookerID  uuid.UUID
	ownerID   uuid.UUID
	itemID    uuid.UUID
	status    Status
	bounds    []TimeBound
	direction SortDirection
	offset    int
	limit     int
}

func (f Filter) BookerID() uuid.UUID {
	return f.bookerID
}

func (f Filter) OwnerID() uuid.UUID {
	return f.ownerID
}

func (f Filter) ItemID() uuid.UUID {
	return f.itemID
}

func (f Filter) Status() Status {
	return f.status
}

func (f Filter) Bounds() []TimeBound {
	return f.bounds
}

func (f Filter) Direction() SortDirection {
	return f.direction
}

func (f Filter) Offset() int {
	return f.offset
}

func (f Filter) Limit() int {
	return f.limit
}

// Matches reports whether r satisfies all restrictions of the filter, ignoring sort and paging.
func (f Filter) Matches(r Reservation) bool {
	if f.bookerID != uuid.Nil && r.BookerID != f.bookerID {
		return false
	}

	if f.ownerID != uuid.Nil && r.ItemOwnerID != f.ownerID {
		return false
	}

	if f.itemID != uuid.Nil && r.ItemID != f.itemID {
		return false
	}

	if f.status != "" && r.Status != f.status {
		return false
	}

	for _, bound := range f.bounds {
		if !bound.matches(r) {
			return false
		}
	}

	return true
}

// Apply selects, sorts and pages reservations the way a storage engine must.
// The input slice is not modified.
func (f Filter) Apply(reservations []Reservation) []Reservation {
	selected := make([]Reservation, 0, len(reservations))
	for _, r := range reservations {
		if f.Matches(r) {
			selected = append(selected, r)
		}
	}

	slices.SortFunc(selected, f.Compare)

	if f.offset >= len(selected) {
		return []Reservation{}
	}

	selected = selected[f.offset:]

	if f.limit > 0 && f.limit < len(selected) {
		selected = selected[:f.limit]
	}

	return selected
}

// Compare orders two reservations according to the filter's sort direction.
func (f Filter) Compare(a, b Reservation) int {
	c := a.Start.Compare(b.Start)
	if c == 0 {
		c = bytes.Compare(a.ID[:], b.ID[:])
	}

	if f.direction == Descending {
		return -c
	}

	return c
}

/***** FilterBuilder *****/

// FilterBuilder builds a reservation Filter. Every method returns a new builder,
// so a partially built filter can be shared and extended safely.
type FilterBuilder struct {
	filter Filter
}

// BuildReservationFilter creates a FilterBuilder which must eventually be finalized with Finalize().
func BuildReservationFilter() FilterBuilder {
	return FilterBuilder{}
}

// BookedBy restricts the filter to reservations made by the booker.
func (fb FilterBuilder) BookedBy(bookerID uuid.UUID) FilterBuilder {
	fb.filter.bookerID = bookerID

	return fb
}

// OnItemsOwnedBy restricts the filter to reservations of items owned by the owner.
func (fb FilterBuilder) OnItemsOwnedBy(ownerID uuid.UUID) FilterBuilder {
	fb.filter.ownerID = ownerID

	return fb
}

// ForItem restricts the filter to reservations of a single item.
func (fb FilterBuilder) ForItem(itemID uuid.UUID) FilterBuilder {
	fb.filter.itemID = itemID

	return fb
}

// WithStatus restricts the filter to reservations in the given status.
func (fb FilterBuilder) WithStatus(status Status) FilterBuilder {
	fb.filter.status = status

	return fb
}

func (fb FilterBuilder) StartingBefore(instant time.Time) FilterBuilder {
	return fb.withBound(FieldStart, Before, instant)
}

func (fb FilterBuilder) StartingAtOrBefore(instant time.Time) FilterBuilder {
	return fb.withBound(FieldStart, AtOrBefore, instant)
}

func (fb FilterBuilder) StartingAfter(instant time.Time) FilterBuilder {
	return fb.withBound(FieldStart, After, instant)
}

func (fb FilterBuilder) EndingBefore(instant time.Time) FilterBuilder {
	return fb.withBound(FieldEnd, Before, instant)
}

func (fb FilterBuilder) EndingAtOrAfter(instant time.Time) FilterBuilder {
	return fb.withBound(FieldEnd, AtOrAfter, instant)
}

func (fb FilterBuilder) EndingAfter(instant time.Time) FilterBuilder {
	return fb.withBound(FieldEnd, After, instant)
}

// OverlappingWith restricts the filter to reservations intersecting the half-open interval [start, end).
func (fb FilterBuilder) OverlappingWith(start, end time.Time) FilterBuilder {
	return fb.StartingBefore(end).EndingAfter(start)
}

// SortedByStartAscending changes the default order (start descending) to start ascending.
func (fb FilterBuilder) SortedByStartAscending() FilterBuilder {
	fb.filter.direction = Ascending

	return fb
}

// Paged skips offset reservations and returns at most limit of them.
// Negative values are treated as 0.
func (fb FilterBuilder) Paged(offset, limit int) FilterBuilder {
	fb.filter.offset = max(offset, 0)
	fb.filter.limit = max(limit, 0)

	return fb
}

// Finalize returns the Filter.
func (fb FilterBuilder) Finalize() Filter {
	fb.filter.bounds = slices.Clip(slices.Clone(fb.filter.bounds))

	return fb.filter
}

func (fb FilterBuilder) withBound(field TimeField, comparison Comparison, instant time.Time) FilterBuilder {
	bounds := slices.Clone(fb.filter.bounds)
	fb.filter.bounds = append(bounds, TimeBound{field: field, comparison: comparison, instant: ToTimestamp(instant)})

	return fb
}
