// Package postgres provides PostgreSQL-backed implementations of the
// storage interfaces defined in the internal/store package. It handles
// query execution, row scanning, and mapping of database errors onto
// the store package's sentinel errors.
package postgres
