// Package store defines persistence interfaces for the application's
// entities along with shared helpers: the DBTX abstraction over
// *sql.DB/*sql.Tx, transaction management, and the sentinel errors
// store implementations return.
package store
