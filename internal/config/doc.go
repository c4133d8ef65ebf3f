// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files, command-line flags).
// It provides type-safe access to application settings needed by different
// components while keeping configuration details separate from business logic.
//
// Precedence, highest first: flags, BILINGO_* environment variables,
// config.yaml, built-in defaults.
package config
