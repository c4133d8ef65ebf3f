// Package sqlite provides an embedded SQLite implementation of the
// internal/store interfaces using the pure-Go modernc.org/sqlite driver.
// It backs local development and the store and service test suites.
//
// SQLite has no row locks. Every database opened through Open uses a single
// connection, so transactions are serialized, and Save still enforces the
// version check.
package sqlite
