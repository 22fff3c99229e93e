package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter runs booking store statements on database/sql handles, typically backed by lib/pq.
type SQLAdapter struct {
	dbs connections[*sql.DB]
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{dbs: primaryOnly(db)}
}

func NewSQLAdapterWithReplica(db *sql.DB, replica *sql.DB) *SQLAdapter {
	return &SQLAdapter{dbs: withReplica(db, replica)}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.dbs.forRead(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.dbs.forWrite().ExecContext(ctx, query)
}
