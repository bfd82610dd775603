package model

import "fmt"

// Seat categories.  A seat's category is fixed by its position in a
// row of four: the outer two positions are window seats and the
// inner two are aisle seats.
const (
	CategoryWindow = "window"
	CategoryAisle  = "aisle"
)

// Prices per category.
const (
	PriceWindow = 50.0
	PriceAisle  = 45.0
)

// SeatsPerRow is the number of seats in each row of the cabin.
const SeatsPerRow = 4

// Seat describes a single seat on the seat map.  Everything except
// Reserved is fixed when the seat map is built.
//
// Fields:
//  ID       – 1-based identifier, unique and contiguous.
//  Number   – display label, row number followed by a column letter (e.g. 3C).
//  Reserved – whether the seat is currently taken.
//  Category – window or aisle.
//  Price    – ticket price derived from Category.
type Seat struct {
	ID       int     `json:"id"`
	Number   string  `json:"number"`
	Reserved bool    `json:"isReserved"`
	Category string  `json:"type"`
	Price    float64 `json:"price"`
}

// NewSeat builds the seat at the given zero-based position.  The
// returned seat is free.
func NewSeat(index int) Seat {
	col := index % SeatsPerRow
	category := CategoryAisle
	if col == 0 || col == SeatsPerRow-1 {
		category = CategoryWindow
	}
	return Seat{
		ID:       index + 1,
		Number:   fmt.Sprintf("%d%c", index/SeatsPerRow+1, 'A'+rune(col)),
		Category: category,
		Price:    PriceFor(category),
	}
}

// PriceFor returns the ticket price of a category.
func PriceFor(category string) float64 {
	if category == CategoryWindow {
		return PriceWindow
	}
	return PriceAisle
}
