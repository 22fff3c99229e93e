package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter runs booking store statements on pgx connection pools.
type PGXAdapter struct {
	pools connections[*pgxpool.Pool]
}

func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pools: primaryOnly(pool)}
}

// NewPGXAdapterWithReplica routes eventually consistent reads to the replica pool.
func NewPGXAdapterWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pools: withReplica(pool, replica)}
}

func (p *PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.pools.forRead(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return closableRows{Rows: rows}, nil
}

func (p *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.pools.forWrite().Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return commandTag(tag), nil
}

// closableRows adapts pgx.Rows, whose Close returns nothing.
type closableRows struct {
	pgx.Rows
}

func (r closableRows) Close() error {
	r.Rows.Close()
	return nil
}

type commandTag pgconn.CommandTag

func (t commandTag) RowsAffected() (int64, error) {
	return pgconn.CommandTag(t).RowsAffected(), nil
}
