package postgresengine

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	colID          = "id"
	colItemID      = "item_id"
	colOwnerID     = "owner_id"
	colBookerID    = "booker_id"
	colAuthorID    = "author_id"
	colStartAt     = "start_at"
	colEndAt       = "end_at"
	colStatus      = "status"
	colName        = "name"
	colEmail       = "email"
	colDescription = "description"
	colAvailable   = "available"
	colText        = "text"
	colCreatedAt   = "created_at"
	aliasR         = "r"
	aliasI         = "i"
	aliasU         = "u"
	aliasC         = "c"
)

func qualified(alias, column string) exp.IdentifierExpression {
	return goqu.I(alias + "." + column)
}

func (s *Store) buildInsertReservationQuery(r booking.Reservation) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tables.reservations).
		Rows(goqu.Record{
			colID:       r.ID.String(),
			colItemID:   r.ItemID.String(),
			colBookerID: r.BookerID.String(),
			colStartAt:  r.Start,
			colEndAt:    r.End,
			colStatus:   string(r.Status),
		})

	sqlQuery, _, err := insertStmt.ToSQL()

	return sqlQuery, err
}

// buildUpdateStatusQuery builds the compare-and-set: the row is only updated while it still has the expected status.
func (s *Store) buildUpdateStatusQuery(id uuid.UUID, expected, next booking.Status) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.tables.reservations).
		Set(goqu.Record{colStatus: string(next)}).
		Where(goqu.Ex{
			colID:     id.String(),
			colStatus: string(expected),
		})

	sqlQuery, _, err := updateStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) selectReservations() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T(s.tables.reservations).As(aliasR)).
		InnerJoin(
			goqu.T(s.tables.items).As(aliasI),
			goqu.On(qualified(aliasR, colItemID).Eq(qualified(aliasI, colID))),
		).
		Select(
			goqu.L(castText, qualified(aliasR, colID)),
			goqu.L(castText, qualified(aliasR, colItemID)),
			goqu.L(castText, qualified(aliasI, colOwnerID)),
			goqu.L(castText, qualified(aliasR, colBookerID)),
			qualified(aliasR, colStartAt),
			qualified(aliasR, colEndAt),
			qualified(aliasR, colStatus),
		)
}

func (s *Store) buildSelectReservationByIDQuery(id uuid.UUID) (sqlQueryString, error) {
	selectStmt := s.selectReservations().
		Where(qualified(aliasR, colID).Eq(id.String())).
		Limit(1)

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildSelectReservationsQuery(filter booking.Filter) (sqlQueryString, error) {
	selectStmt := s.selectReservations().Where(reservationConditions(filter)...)

	if filter.Direction() == booking.Ascending {
		selectStmt = selectStmt.Order(qualified(aliasR, colStartAt).Asc(), qualified(aliasR, colID).Asc())
	} else {
		selectStmt = selectStmt.Order(qualified(aliasR, colStartAt).Desc(), qualified(aliasR, colID).Desc())
	}

	if filter.Offset() > 0 {
		selectStmt = selectStmt.Offset(uint(filter.Offset()))
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(uint(filter.Limit()))
	}

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}

func reservationConditions(filter booking.Filter) []exp.Expression {
	conditions := make([]exp.Expression, 0)

	if filter.BookerID() != uuid.Nil {
		conditions = append(conditions, qualified(aliasR, colBookerID).Eq(filter.BookerID().String()))
	}

	if filter.OwnerID() != uuid.Nil {
		conditions = append(conditions, qualified(aliasI, colOwnerID).Eq(filter.OwnerID().String()))
	}

	if filter.ItemID() != uuid.Nil {
		conditions = append(conditions, qualified(aliasR, colItemID).Eq(filter.ItemID().String()))
	}

	if filter.Status() != "" {
		conditions = append(conditions, qualified(aliasR, colStatus).Eq(string(filter.Status())))
	}

	for _, bound := range filter.Bounds() {
		conditions = append(conditions, timeBoundCondition(bound))
	}

	return conditions
}

func timeBoundCondition(bound booking.TimeBound) exp.Expression {
	column := qualified(aliasR, colStartAt)
	if bound.Field() == booking.FieldEnd {
		column = qualified(aliasR, colEndAt)
	}

	switch bound.Comparison() {
	case booking.Before:
		return column.Lt(bound.Instant())
	case booking.AtOrBefore:
		return column.Lte(bound.Instant())
	case booking.After:
		return column.Gt(bound.Instant())
	default:
		return column.Gte(bound.Instant())
	}
}

func (s *Store) buildInsertUserQuery(user booking.User) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tables.users).
		Rows(goqu.Record{
			colID:    user.ID.String(),
			colName:  user.Name,
			colEmail: user.Email,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, err := insertStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildSelectUserQuery(id uuid.UUID) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tables.users).
		Select(goqu.L(castText, goqu.I(colID)), goqu.I(colName), goqu.I(colEmail)).
		Where(goqu.I(colID).Eq(id.String())).
		Limit(1)

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildInsertItemQuery(item booking.Item) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tables.items).
		Rows(goqu.Record{
			colID:          item.ID.String(),
			colOwnerID:     item.OwnerID.String(),
			colName:        item.Name,
			colDescription: item.Description,
			colAvailable:   item.Available,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, err := insertStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildSelectItemQuery(id uuid.UUID) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tables.items).
		Select(
			goqu.L(castText, goqu.I(colID)),
			goqu.L(castText, goqu.I(colOwnerID)),
			goqu.I(colName),
			goqu.I(colDescription),
			goqu.I(colAvailable),
		).
		Where(goqu.I(colID).Eq(id.String())).
		Limit(1)

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildInsertCommentQuery(comment booking.Comment) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tables.comments).
		Rows(goqu.Record{
			colID:        comment.ID.String(),
			colItemID:    comment.ItemID.String(),
			colAuthorID:  comment.AuthorID.String(),
			colText:      comment.Text,
			colCreatedAt: comment.Created,
		})

	sqlQuery, _, err := insertStmt.ToSQL()

	return sqlQuery, err
}

func (s *Store) buildSelectCommentsQuery(itemID uuid.UUID) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(s.tables.comments).As(aliasC)).
		InnerJoin(
			goqu.T(s.tables.users).As(aliasU),
			goqu.On(qualified(aliasC, colAuthorID).Eq(qualified(aliasU, colID))),
		).
		Select(
			goqu.L(castText, qualified(aliasC, colID)),
			goqu.L(castText, qualified(aliasC, colItemID)),
			goqu.L(castText, qualified(aliasC, colAuthorID)),
			qualified(aliasU, colName),
			qualified(aliasC, colText),
			qualified(aliasC, colCreatedAt),
		).
		Where(qualified(aliasC, colItemID).Eq(itemID.String())).
		Order(qualified(aliasC, colCreatedAt).Asc(), qualified(aliasC, colID).Asc())

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}
