package repository

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// maxCodeAttempts bounds how often Reserve asks the generator for a
// fresh code before giving up with ErrCodeExhausted.
const maxCodeAttempts = 8

// CodeGenerator produces candidate confirmation codes.  Candidates do
// not need to be unique; the registry rejects ones already in use.
type CodeGenerator func() string

// NewConfirmationCode returns a code of the form PNR followed by ten
// upper-case hex characters taken from a random UUID.
func NewConfirmationCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PNR" + strings.ToUpper(hex[:10])
}

// ReservationRegistry maps confirmation codes to reservations and keeps
// the seat map in step with them.  A seat is reserved exactly when one
// live reservation points at it.
type ReservationRegistry struct {
	seats   *SeatStore
	newCode CodeGenerator

	mu    sync.Mutex
	byPNR map[string]model.Reservation
	gen   uint64
}

// NewReservationRegistry builds an empty registry over seats.  A nil
// gen uses NewConfirmationCode.
func NewReservationRegistry(seats *SeatStore, gen CodeGenerator) *ReservationRegistry {
	if seats == nil {
		panic("nil seat store passed to NewReservationRegistry")
	}
	if gen == nil {
		gen = NewConfirmationCode
	}
	return &ReservationRegistry{
		seats:   seats,
		newCode: gen,
		byPNR:   make(map[string]model.Reservation),
	}
}

// Reserve books seatID for passengerName.  It fails with
// ErrSeatUnavailable when the seat does not exist or is taken, leaving
// all state untouched.  The passenger name is stored as given.
func (r *ReservationRegistry) Reserve(passengerName string, seatID int) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.seats.TryReserve(seatID); err != nil {
		return model.Reservation{}, err
	}
	code, err := r.uniqueCode()
	if err != nil {
		// give the seat back; nothing was recorded
		_ = r.seats.SetReserved(seatID, false)
		return model.Reservation{}, err
	}
	res := model.Reservation{Code: code, PassengerName: passengerName, SeatID: seatID}
	r.byPNR[code] = res
	r.gen++
	return res, nil
}

// uniqueCode must be called with r.mu held.
func (r *ReservationRegistry) uniqueCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := r.newCode()
		if code == "" {
			continue
		}
		if _, taken := r.byPNR[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

// Cancel removes the reservation and frees its seat.  Unknown codes
// yield ErrReservationNotFound.  If the seat has vanished from the map
// the record is still removed.
func (r *ReservationRegistry) Cancel(code string) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byPNR[code]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	delete(r.byPNR, code)
	// ErrSeatNotFound is the only failure and leaves nothing to free
	_ = r.seats.SetReserved(res.SeatID, false)
	r.gen++
	return res, nil
}

// Find returns the live reservation for code.
func (r *ReservationRegistry) Find(code string) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byPNR[code]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

// Len reports how many reservations are live.
func (r *ReservationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPNR)
}

// ListSeats exposes the seat map for reading.  The snapshot is taken
// under the registry lock, so it always matches exactly one Generation.
func (r *ReservationRegistry) ListSeats() []model.Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seats.ListAll()
}

// Generation counts committed reserves and cancels.  Two equal readings
// taken around a ListSeats call mean the listing is still current.
func (r *ReservationRegistry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Seat returns the current state of one seat.
func (r *ReservationRegistry) Seat(id int) (model.Seat, error) {
	return r.seats.FindByID(id)
}
