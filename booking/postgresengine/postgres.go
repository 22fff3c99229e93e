package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed    = "failed to build query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgQueryCompleted      = "query completed"
	logMsgRowWritten          = "row written"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgDuplicateEntity     = "duplicate entity rejected"
	logMsgApprovalOverlap     = "approval rejected by overlap constraint"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "booking store operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrOperation          = "operation"
	logAttrRowCount           = "row_count"
	logAttrDurationMS         = "duration_ms"
	logAttrRowsAffected       = "rows_affected"
	logAttrReservationID      = "reservation_id"
	logAttrExpectedStatus     = "expected_status"
	dialectPostgres           = "postgres"
	castText                  = "?::text"
)

const (
	operationInsertReservation = "insert_reservation"
	operationUpdateStatus      = "update_reservation_status"
	operationQueryReservations = "query_reservations"
	operationInsertUser        = "insert_user"
	operationQueryUser         = "query_user"
	operationInsertItem        = "insert_item"
	operationQueryItem         = "query_item"
	operationInsertComment     = "insert_comment"
	operationQueryComments     = "query_comments"
	operationMigrate           = "migrate"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// Store is the PostgreSQL-backed user directory, item directory, reservation store and comment store.
type Store struct {
	db               adapters.DBAdapter
	tables           tableNames
	logger           booking.Logger
	contextualLogger booking.ContextualLogger
	metricsCollector booking.MetricsCollector
}

type tableNames struct {
	prefix       string
	users        string
	items        string
	reservations string
	comments     string
}

func newTableNames(prefix string) tableNames {
	return tableNames{
		prefix:       prefix,
		users:        prefix + "users",
		items:        prefix + "items",
		reservations: prefix + "reservations",
		comments:     prefix + "comments",
	}
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options)
}

// NewStoreFromPGXPoolAndReplica creates a new Store using a primary pgx Pool and a replica pool
// that serves eventually consistent reads.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil || replica == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options)
}

// NewStoreFromSQLDBAndReplica creates a new Store using a primary sql.DB and a replica that serves
// eventually consistent reads.
func NewStoreFromSQLDBAndReplica(db *sql.DB, replica *sql.DB, options ...Option) (*Store, error) {
	if db == nil || replica == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapterWithReplica(db, replica), options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options)
}

// NewStoreFromSQLXAndReplica creates a new Store using a primary sqlx.DB and a replica that serves
// eventually consistent reads.
func NewStoreFromSQLXAndReplica(db *sqlx.DB, replica *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil || replica == nil {
		return nil, booking.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapterWithReplica(db, replica), options)
}

func newStore(db adapters.DBAdapter, options []Option) (*Store, error) {
	s := &Store{
		db:     db,
		tables: newTableNames(""),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// query executes a read and returns the rows, failures are joined with the supplied sentinel.
func (s *Store) query(
	ctx context.Context,
	operation string,
	sqlQuery sqlQueryString,
	failure error,
) (adapters.DBRows, error) {

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(ctx, operation, errorTypeDatabaseQuery)

		return nil, errors.Join(failure, queryErr)
	}

	s.recordDurationMetrics(ctx, metricQueryDuration, duration, operation, statusSuccess)

	return rows, nil
}

// exec executes a write on the primary and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, operation string, sqlQuery sqlQueryString) (rowsAffectedInt64, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(ctx, operation, errorTypeDatabaseExec)

		return 0, errors.Join(booking.ErrWritingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		s.recordErrorMetrics(ctx, operation, errorTypeRowsAffected)

		return 0, errors.Join(booking.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	s.recordDurationMetrics(ctx, metricWriteDuration, duration, operation, statusSuccess)
	s.logOperation(ctx, logMsgRowWritten, logAttrOperation, operation, logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, s.toMilliseconds(duration))

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (s *Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// scanFailed logs and wraps a row scanning or parsing failure.
func (s *Store) scanFailed(ctx context.Context, operation string, err error) error {
	s.logError(ctx, logMsgScanRowFailed, err, logAttrOperation, operation)
	s.recordErrorMetrics(ctx, operation, errorTypeRowScan)

	return errors.Join(booking.ErrScanningDBRowFailed, err)
}

// buildFailed logs and wraps a query building failure.
func (s *Store) buildFailed(ctx context.Context, operation string, err error) error {
	s.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, operation)
	s.recordErrorMetrics(ctx, operation, errorTypeBuildQuery)

	return errors.Join(booking.ErrBuildingQueryFailed, err)
}
