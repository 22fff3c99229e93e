package config

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PostgresSQLX wraps a tuned and pinged PostgresSQLDB handle for sqlx.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := PostgresSQLDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, postgresDriverName), nil
}
