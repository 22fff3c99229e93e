package postgresengine

import (
	"context"
	"fmt"
)

// schemaStatements returns the idempotent DDL for all tables and indexes of the Store.
func (s *Store) schemaStatements() []sqlQueryString {
	t := s.tables

	return []sqlQueryString{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			name text NOT NULL,
			email text NOT NULL
		)`, t.users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			owner_id uuid NOT NULL REFERENCES %s (id),
			name text NOT NULL,
			description text NOT NULL DEFAULT '',
			available boolean NOT NULL
		)`, t.items, t.users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			item_id uuid NOT NULL REFERENCES %s (id),
			booker_id uuid NOT NULL REFERENCES %s (id),
			start_at timestamp with time zone NOT NULL,
			end_at timestamp with time zone NOT NULL,
			status text NOT NULL,
			CONSTRAINT %sreservations_time_range_check CHECK (start_at < end_at),
			CONSTRAINT %sreservations_status_check CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED'))
		)`, t.reservations, t.items, t.users, t.prefix, t.prefix),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %sreservations_item_status_start_idx ON %s (item_id, status, start_at)`,
			t.prefix, t.reservations),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %sreservations_booker_start_idx ON %s (booker_id, start_at)`,
			t.prefix, t.reservations),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			item_id uuid NOT NULL REFERENCES %s (id),
			author_id uuid NOT NULL REFERENCES %s (id),
			text text NOT NULL,
			created_at timestamp with time zone NOT NULL
		)`, t.comments, t.items, t.users),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %scomments_item_created_idx ON %s (item_id, created_at)`,
			t.prefix, t.comments),

		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %susers_email_lower_idx ON %s (lower(email))`,
			t.prefix, t.users),

		// uuid equality inside a gist exclusion constraint needs btree_gist
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		// no two APPROVED reservations of one item may intersect, [start_at, end_at) as in the domain
		fmt.Sprintf(`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%sreservations_no_approved_overlap') THEN
				ALTER TABLE %s ADD CONSTRAINT %sreservations_no_approved_overlap
					EXCLUDE USING gist (item_id WITH =, tstzrange(start_at, end_at) WITH &&)
					WHERE (status = 'APPROVED');
			END IF;
		END
		$$`, t.prefix, t.reservations, t.prefix),
	}
}

// Migrate creates the tables and indexes of the Store if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, statement := range s.schemaStatements() {
		if _, err := s.exec(ctx, operationMigrate, statement); err != nil {
			return err
		}
	}

	return nil
}
