// Package postgreswrapper creates PostgreSQL-backed booking stores for tests.
//
// The database is taken from BOOKING_TEST_DSN; tests are skipped when it is not set.
// ADAPTER_TYPE selects the driver: pgxpool (default), sqldb or sqlx.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine"
	"github.com/AntonStoeckl/item-booking-go/shell/config"
)

const (
	envTestDSN     = "BOOKING_TEST_DSN"
	envAdapterType = "ADAPTER_TYPE"

	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"

	truncateTables = "TRUNCATE TABLE comments, reservations, items, users"
)

// Wrapper abstracts over the different driver types.
type Wrapper interface {
	GetStore() *postgresengine.Store
	Exec(ctx context.Context, query string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store *postgresengine.Store
}

func (w *PGXPoolWrapper) GetStore() *postgresengine.Store { return w.store }

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) Close() { w.pool.Close() }

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db    *sql.DB
	store *postgresengine.Store
}

func (w *SQLDBWrapper) GetStore() *postgresengine.Store { return w.store }

func (w *SQLDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) Close() { _ = w.db.Close() }

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db    *sqlx.DB
	store *postgresengine.Store
}

func (w *SQLXWrapper) GetStore() *postgresengine.Store { return w.store }

func (w *SQLXWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) Close() { _ = w.db.Close() }

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE, migrates the schema,
// empties all tables and registers Close as test cleanup.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set, skipping PostgreSQL tests", envTestDSN)
	}

	ctx := context.Background()
	wrapper := newWrapper(t, ctx, dsn, options)
	t.Cleanup(wrapper.Close)

	require.NoError(t, wrapper.GetStore().Migrate(ctx), "error migrating the test schema")
	require.NoError(t, wrapper.Exec(ctx, truncateTables), "error cleaning up the test tables")

	return wrapper
}

func newWrapper(t testing.TB, ctx context.Context, dsn string, options []postgresengine.Option) Wrapper {
	t.Helper()

	switch adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType {
	case typePGXPool, "":
		poolConfig, err := config.PostgresPGXPoolConfig(dsn)
		require.NoError(t, err, "error parsing the test DSN")

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err)

		return &PGXPoolWrapper{pool: pool, store: store}

	case typeSQLDB:
		db, err := config.PostgresSQLDB(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err)

		return &SQLDBWrapper{db: db, store: store}

	case typeSQLX:
		db, err := config.PostgresSQLX(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err)

		return &SQLXWrapper{db: db, store: store}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}
}
