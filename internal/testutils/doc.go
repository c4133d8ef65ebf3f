// Package testutils provides shared fixtures for tests: an in-memory SQLite
// database with the schema applied, and builders for domain cards.
package testutils
