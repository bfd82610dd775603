package model

// Reservation binds a passenger to one seat.  It is identified by a
// confirmation code (PNR) that the caller needs to cancel it.
//
// Fields:
//  Code          – confirmation code, unique among live reservations.
//  PassengerName – name given at booking time; not validated.
//  SeatID        – the reserved seat.
type Reservation struct {
	Code          string `json:"pnr"`
	PassengerName string `json:"passengerName"`
	SeatID        int    `json:"seatId"`
}
