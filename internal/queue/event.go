// Package queue defines reservation events exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// Event types.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is created or
// cancelled.  It carries the seat details so consumers do not need to
// call back into the service.
type ReservationEvent struct {
	Type          string  `json:"type"`
	PNR           string  `json:"pnr"`
	PassengerName string  `json:"passenger_name"`
	SeatID        int     `json:"seat_id"`
	SeatNumber    string  `json:"seat_number"`
	SeatType      string  `json:"seat_type"`
	Price         float64 `json:"price"`
	OccurredAt    string  `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type from a
// reservation and its seat.
func NewReservationEvent(typ string, res model.Reservation, seat model.Seat, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		PNR:           res.Code,
		PassengerName: res.PassengerName,
		SeatID:        res.SeatID,
		SeatNumber:    seat.Number,
		SeatType:      seat.Category,
		Price:         seat.Price,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
