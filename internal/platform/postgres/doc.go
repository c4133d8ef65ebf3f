// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It uses the pgx
// driver through database/sql (driver name "pgx"), maps driver errors onto
// store errors, and embeds the schema migrations applied with goose.
package postgres
