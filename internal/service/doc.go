// Package service contains the application use cases. It orchestrates
// domain objects and the stores defined in internal/store to fulfil the
// operations exposed by the API.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage backend. Expected failures are returned
// as sentinel errors (from this package, internal/store or the domain
// packages), usually wrapped in a ServiceError that names the failed
// operation. Callers check them with errors.Is and errors.As; the API layer
// maps them to HTTP status codes.
//
// The study workflow (reviewing cards, planning sessions, statistics) lives
// in the study subpackage.
package service
