// Package memstore provides an in-memory implementation of every store interface the feature
// slices consume. It follows the semantics of booking/postgresengine: store-assigned v7 ids,
// normalized timestamps, compare-and-set status updates and filter-driven queries.
package memstore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]booking.User
	items        map[uuid.UUID]booking.Item
	reservations map[uuid.UUID]booking.Reservation
	comments     []booking.Comment

	beforeStatusUpdate func(ctx context.Context, id uuid.UUID)
	failure            error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]booking.User),
		items:        make(map[uuid.UUID]booking.Item),
		reservations: make(map[uuid.UUID]booking.Reservation),
	}
}

// BeforeStatusUpdate installs a hook that runs right before the compare-and-set of
// UpdateReservationStatus, outside the lock. Tests use it to interleave a competing writer.
func (s *Store) BeforeStatusUpdate(hook func(ctx context.Context, id uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.beforeStatusUpdate = hook
}

// FailWith makes every following operation return err until it is called with nil.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failure = err
}

// RegisterUser stores a new user, assigning an id when none is set.
func (s *Store) RegisterUser(_ context.Context, user booking.User) (booking.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.User{}, s.failure
	}

	if err := assignID(&user.ID); err != nil {
		return booking.User{}, err
	}

	for _, existing := range s.users {
		if existing.ID == user.ID || strings.EqualFold(existing.Email, user.Email) {
			return booking.User{}, booking.ErrDuplicateEntity
		}
	}

	s.users[user.ID] = user

	return user, nil
}

// GetUser returns the user with the given id or booking.ErrUserNotFound.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (booking.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.User{}, s.failure
	}

	user, ok := s.users[id]
	if !ok {
		return booking.User{}, booking.ErrUserNotFound
	}

	return user, nil
}

// UserExists reports whether a user with the given id is registered.
func (s *Store) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.GetUser(ctx, id)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, booking.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AddItem stores a new item, assigning an id when none is set.
func (s *Store) AddItem(_ context.Context, item booking.Item) (booking.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.Item{}, s.failure
	}

	if err := assignID(&item.ID); err != nil {
		return booking.Item{}, err
	}

	if _, exists := s.items[item.ID]; exists {
		return booking.Item{}, booking.ErrDuplicateEntity
	}

	s.items[item.ID] = item

	return item, nil
}

// GetItem returns the item with the given id or booking.ErrItemNotFound.
func (s *Store) GetItem(_ context.Context, id uuid.UUID) (booking.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.Item{}, s.failure
	}

	item, ok := s.items[id]
	if !ok {
		return booking.Item{}, booking.ErrItemNotFound
	}

	return item, nil
}

// InsertReservation stores a new reservation and returns it with its store-assigned id.
func (s *Store) InsertReservation(_ context.Context, reservation booking.Reservation) (booking.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.Reservation{}, s.failure
	}

	item, ok := s.items[reservation.ItemID]
	if !ok {
		return booking.Reservation{}, booking.ErrItemNotFound
	}

	if _, ok := s.users[reservation.BookerID]; !ok {
		return booking.Reservation{}, booking.ErrUserNotFound
	}

	id, err := uuid.NewV7()
	if err != nil {
		return booking.Reservation{}, err
	}

	reservation.ID = id
	reservation.ItemOwnerID = item.OwnerID
	reservation.Start = booking.ToTimestamp(reservation.Start)
	reservation.End = booking.ToTimestamp(reservation.End)
	s.reservations[id] = reservation

	return reservation, nil
}

// UpdateReservationStatus moves the reservation from expected to next,
// or returns booking.ErrConcurrencyConflict if it no longer has the expected status.
// Approving fails with booking.ErrBookingOverlap while another APPROVED reservation of the
// item intersects it, checked under the same lock as the status change.
func (s *Store) UpdateReservationStatus(ctx context.Context, id uuid.UUID, expected, next booking.Status) error {
	s.mu.Lock()
	hook := s.beforeStatusUpdate
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return s.failure
	}

	reservation, ok := s.reservations[id]
	if !ok || reservation.Status != expected {
		return booking.ErrConcurrencyConflict
	}

	if next == booking.StatusApproved && s.hasApprovedOverlap(reservation) {
		return booking.ErrBookingOverlap
	}

	reservation.Status = next
	s.reservations[id] = reservation

	return nil
}

func (s *Store) hasApprovedOverlap(reservation booking.Reservation) bool {
	for _, other := range s.reservations {
		if other.ID != reservation.ID &&
			other.ItemID == reservation.ItemID &&
			other.Status == booking.StatusApproved &&
			other.Overlaps(reservation.Start, reservation.End) {
			return true
		}
	}

	return false
}

// GetReservation returns the reservation with the given id or booking.ErrReservationNotFound.
func (s *Store) GetReservation(_ context.Context, id uuid.UUID) (booking.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.Reservation{}, s.failure
	}

	reservation, ok := s.reservations[id]
	if !ok {
		return booking.Reservation{}, booking.ErrReservationNotFound
	}

	return s.withOwner(reservation), nil
}

// QueryReservations returns the reservations selected, ordered and paged by the filter.
func (s *Store) QueryReservations(_ context.Context, filter booking.Filter) ([]booking.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return nil, s.failure
	}

	all := make([]booking.Reservation, 0, len(s.reservations))
	for _, reservation := range s.reservations {
		all = append(all, s.withOwner(reservation))
	}

	return filter.Apply(all), nil
}

// InsertComment stores a new comment and returns it with its store-assigned id.
func (s *Store) InsertComment(_ context.Context, comment booking.Comment) (booking.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return booking.Comment{}, s.failure
	}

	id, err := uuid.NewV7()
	if err != nil {
		return booking.Comment{}, err
	}

	comment.ID = id
	comment.Created = booking.ToTimestamp(comment.Created)
	s.comments = append(s.comments, comment)

	return comment, nil
}

// QueryCommentsByItem returns the comments of an item, oldest first.
func (s *Store) QueryCommentsByItem(_ context.Context, itemID uuid.UUID) ([]booking.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return nil, s.failure
	}

	comments := make([]booking.Comment, 0)
	for _, comment := range s.comments {
		if comment.ItemID == itemID {
			if author, ok := s.users[comment.AuthorID]; ok {
				comment.AuthorName = author.Name
			}

			comments = append(comments, comment)
		}
	}

	slices.SortStableFunc(comments, func(a, b booking.Comment) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return comments, nil
}

// withOwner mirrors the join with the items table. Callers hold the lock.
func (s *Store) withOwner(reservation booking.Reservation) booking.Reservation {
	if item, ok := s.items[reservation.ItemID]; ok {
		reservation.ItemOwnerID = item.OwnerID
	}

	return reservation
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return err
	}

	*id = generated

	return nil
}
