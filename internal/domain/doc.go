// Package domain contains the core business entities, value objects, and
// domain logic of the application. The Card type carries both the study
// material a user authored and the spaced-repetition state used to decide
// when the card is shown again. Scheduling, session planning and statistics
// live in the srs, session and stats subpackages and operate on Card values.
package domain
