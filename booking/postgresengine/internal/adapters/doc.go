// Package adapters provide database adapter implementations for the PostgreSQL booking store.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. Each adapter optionally holds a replica connection which
// serves reads when the context asks for eventual consistency.
package adapters
