package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine/internal/adapters"
)

// InsertReservation stores a new reservation and returns it with its store-assigned id.
// Timestamps are normalized with booking.ToTimestamp.
func (s *Store) InsertReservation(ctx context.Context, reservation booking.Reservation) (booking.Reservation, error) {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return booking.Reservation{}, idErr
	}

	reservation.ID = id
	reservation.Start = booking.ToTimestamp(reservation.Start)
	reservation.End = booking.ToTimestamp(reservation.End)

	sqlQuery, buildErr := s.buildInsertReservationQuery(reservation)
	if buildErr != nil {
		return booking.Reservation{}, s.buildFailed(ctx, operationInsertReservation, buildErr)
	}

	if _, execErr := s.exec(ctx, operationInsertReservation, sqlQuery); execErr != nil {
		return booking.Reservation{}, execErr
	}

	return reservation, nil
}

// UpdateReservationStatus moves the reservation from the expected status to next in a single
// conditional UPDATE. If no row still has the expected status, booking.ErrConcurrencyConflict is returned.
// An approval that the overlap exclusion constraint refuses yields booking.ErrBookingOverlap.
func (s *Store) UpdateReservationStatus(ctx context.Context, id uuid.UUID, expected, next booking.Status) error {
	sqlQuery, buildErr := s.buildUpdateStatusQuery(id, expected, next)
	if buildErr != nil {
		return s.buildFailed(ctx, operationUpdateStatus, buildErr)
	}

	rowsAffected, execErr := s.exec(ctx, operationUpdateStatus, sqlQuery)
	if execErr != nil {
		if isExclusionViolation(execErr) {
			s.logOperation(ctx, logMsgApprovalOverlap, logAttrReservationID, id.String())
			s.recordConcurrencyConflictMetrics(ctx, operationUpdateStatus, conflictTypeOverlap)

			return booking.ErrBookingOverlap
		}

		return execErr
	}

	if rowsAffected == 0 {
		s.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrReservationID, id.String(),
			logAttrExpectedStatus, expected.String(),
			logAttrRowsAffected, rowsAffected,
		)
		s.recordConcurrencyConflictMetrics(ctx, operationUpdateStatus, conflictTypeConcurrency)

		return booking.ErrConcurrencyConflict
	}

	return nil
}

// GetReservation returns the reservation with the given id or booking.ErrReservationNotFound.
func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (booking.Reservation, error) {
	sqlQuery, buildErr := s.buildSelectReservationByIDQuery(id)
	if buildErr != nil {
		return booking.Reservation{}, s.buildFailed(ctx, operationQueryReservations, buildErr)
	}

	reservations, queryErr := s.queryReservations(ctx, sqlQuery)
	if queryErr != nil {
		return booking.Reservation{}, queryErr
	}

	if len(reservations) == 0 {
		return booking.Reservation{}, booking.ErrReservationNotFound
	}

	return reservations[0], nil
}

// QueryReservations returns the reservations selected, ordered and paged by the filter.
func (s *Store) QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error) {
	sqlQuery, buildErr := s.buildSelectReservationsQuery(filter)
	if buildErr != nil {
		return nil, s.buildFailed(ctx, operationQueryReservations, buildErr)
	}

	return s.queryReservations(ctx, sqlQuery)
}

func (s *Store) queryReservations(ctx context.Context, sqlQuery sqlQueryString) ([]booking.Reservation, error) {
	start := time.Now()

	rows, queryErr := s.query(ctx, operationQueryReservations, sqlQuery, booking.ErrQueryingReservationsFailed)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	reservations, scanErr := s.scanReservations(ctx, rows)
	if scanErr != nil {
		return nil, scanErr
	}

	s.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrOperation, operationQueryReservations,
		logAttrRowCount, len(reservations),
		logAttrDurationMS, s.toMilliseconds(time.Since(start)),
	)

	return reservations, nil
}

func (s *Store) scanReservations(ctx context.Context, rows adapters.DBRows) ([]booking.Reservation, error) {
	reservations := make([]booking.Reservation, 0)

	var id, itemID, ownerID, bookerID, status string
	var startAt, endAt time.Time

	for rows.Next() {
		if scanErr := rows.Scan(&id, &itemID, &ownerID, &bookerID, &startAt, &endAt, &status); scanErr != nil {
			return nil, s.scanFailed(ctx, operationQueryReservations, scanErr)
		}

		ids, parseErr := parseUUIDs(id, itemID, ownerID, bookerID)
		if parseErr != nil {
			return nil, s.scanFailed(ctx, operationQueryReservations, parseErr)
		}

		parsedStatus, statusErr := booking.ParseStatus(status)
		if statusErr != nil {
			return nil, s.scanFailed(ctx, operationQueryReservations, statusErr)
		}

		reservations = append(reservations, booking.Reservation{
			ID:          ids[0],
			ItemID:      ids[1],
			ItemOwnerID: ids[2],
			BookerID:    ids[3],
			Start:       booking.ToTimestamp(startAt),
			End:         booking.ToTimestamp(endAt),
			Status:      parsedStatus,
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, s.scanFailed(ctx, operationQueryReservations, rowsErr)
	}

	return reservations, nil
}

// sqlStateExclusionViolation is raised by the reservations_no_approved_overlap constraint.
const sqlStateExclusionViolation = "23P01"

// isExclusionViolation recognizes the error as reported by pgx and by lib/pq.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateExclusionViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == sqlStateExclusionViolation
	}

	return false
}

func parseUUIDs(values ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))

	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, errors.Join(errors.New("invalid uuid in row: "+value), err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
