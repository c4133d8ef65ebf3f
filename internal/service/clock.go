package service

import "time"

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

// SystemClock returns the wall clock in UTC, truncated to the microsecond
// precision PostgreSQL stores.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
