package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter runs booking store statements on sqlx handles.
type SQLXAdapter struct {
	dbs connections[*sqlx.DB]
}

func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{dbs: primaryOnly(db)}
}

func NewSQLXAdapterWithReplica(db *sqlx.DB, replica *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{dbs: withReplica(db, replica)}
}

// Query returns *sqlx.Rows directly, its embedded *sql.Rows already satisfies DBRows.
func (s *SQLXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.dbs.forRead(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.dbs.forWrite().ExecContext(ctx, query)
}
