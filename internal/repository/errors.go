// Package repository holds the in-memory seat map and reservation
// registry.  The sentinel errors below let handlers tell failure
// scenarios apart with errors.Is and map them to HTTP responses.
package repository

import "errors"

// ErrSeatUnavailable is returned when a reservation targets a seat
// that does not exist or is already reserved.  Handlers should
// translate this into an HTTP 409 response.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrReservationNotFound is returned when a confirmation code does
// not match any live reservation.  Handlers should translate this
// into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSeatNotFound is returned when a seat lookup by id yields nothing.
var ErrSeatNotFound = errors.New("seat not found")

// ErrCodeExhausted means the code generator kept producing codes that
// are already taken.  It indicates a broken generator.
var ErrCodeExhausted = errors.New("could not generate a unique confirmation code")
