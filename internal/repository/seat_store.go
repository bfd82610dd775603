package repository

import (
	"math/rand/v2"
	"sync"

	"github.com/iliyamo/seat-reservation/internal/model"
)

// DefaultSeatCount is the size of the seat map when none is configured.
const DefaultSeatCount = 40

// SeatStore owns the fixed seat map.  Seats are created once and never
// added or removed; only their reserved flag changes.  Seat ids are
// 1-based and contiguous so a seat lives at index id-1.
type SeatStore struct {
	mu    sync.RWMutex
	seats []model.Seat
}

// NewSeatStore builds a store with count free seats.  A count below one
// falls back to DefaultSeatCount.
func NewSeatStore(count int) *SeatStore {
	if count < 1 {
		count = DefaultSeatCount
	}
	seats := make([]model.Seat, count)
	for i := range seats {
		seats[i] = model.NewSeat(i)
	}
	return &SeatStore{seats: seats}
}

// SeedReserved marks each seat reserved with probability ratio.  It is a
// demo affordance: seeded seats have no reservation behind them and can
// never be freed through the registry.  It returns the number of seats
// marked.
func (s *SeatStore) SeedReserved(ratio float64, rnd *rand.Rand) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.seats {
		if rnd.Float64() < ratio {
			s.seats[i].Reserved = true
			n++
		}
	}
	return n
}

// Len returns the number of seats.
func (s *SeatStore) Len() int {
	return len(s.seats)
}

// ListAll returns a snapshot of every seat in creation order.
func (s *SeatStore) ListAll() []model.Seat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// FindByID returns the seat with the given id regardless of its state.
func (s *SeatStore) FindByID(id int) (model.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index(id)
	if !ok {
		return model.Seat{}, ErrSeatNotFound
	}
	return s.seats[i], nil
}

// FindAvailable returns the seat only if it exists and is free.
func (s *SeatStore) FindAvailable(id int) (model.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index(id)
	if !ok || s.seats[i].Reserved {
		return model.Seat{}, ErrSeatUnavailable
	}
	return s.seats[i], nil
}

// SetReserved overwrites the reserved flag.  Keeping seats and
// reservations consistent is the caller's job.
func (s *SeatStore) SetReserved(id int, reserved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok {
		return ErrSeatNotFound
	}
	s.seats[i].Reserved = reserved
	return nil
}

// TryReserve flips a free seat to reserved in one step.  Of any number
// of concurrent callers on the same free seat exactly one succeeds; the
// rest get ErrSeatUnavailable, as does a missing seat.
func (s *SeatStore) TryReserve(id int) (model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok || s.seats[i].Reserved {
		return model.Seat{}, ErrSeatUnavailable
	}
	s.seats[i].Reserved = true
	return s.seats[i], nil
}

func (s *SeatStore) index(id int) (int, bool) {
	if id < 1 || id > len(s.seats) {
		return 0, false
	}
	return id - 1, true
}
