package model

import "testing"

func TestNewSeatLayout(t *testing.T) {
	cases := []struct {
		index    int
		id       int
		number   string
		category string
		price    float64
	}{
		{0, 1, "1A", CategoryWindow, 50.0},
		{1, 2, "1B", CategoryAisle, 45.0},
		{2, 3, "1C", CategoryAisle, 45.0},
		{3, 4, "1D", CategoryWindow, 50.0},
		{4, 5, "2A", CategoryWindow, 50.0},
		{39, 40, "10D", CategoryWindow, 50.0},
	}
	for _, tc := range cases {
		s := NewSeat(tc.index)
		if s.ID != tc.id || s.Number != tc.number || s.Category != tc.category || s.Price != tc.price {
			t.Fatalf("NewSeat(%d) = %+v, want id=%d number=%s category=%s price=%v",
			    tc.index, s, tc.id, tc.number, tc.category, tc.price)
		}
		if s.Reserved {
			t.Fatalf("NewSeat(%d) should be free", tc.index)
		}
	}
}
