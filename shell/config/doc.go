// Package config reads the process configuration from the environment and builds the
// PostgreSQL connection pools for the supported drivers (pgx.Pool, sql.DB, sqlx.DB).
//
// An optional .env file is loaded first; variables already present in the environment win.
package config
