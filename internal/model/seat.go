package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SeatType classifies a seat within a hall.  The type influences
// pricing and is assigned once when the grid is generated or loaded.
type SeatType string

// Seat type enumeration.  Uppercase strings match the values stored
// in the showtime_seats.seat_type column.
const (
	SeatStandard   SeatType = "STANDARD"
	SeatVIP        SeatType = "VIP"
	SeatCouple     SeatType = "COUPLE"
	SeatWheelchair SeatType = "WHEELCHAIR"
)

// SeatStatus describes the availability of a seat for one showtime.
// The allocation state machine is AVAILABLE ⇄ HELD → OCCUPIED, with
// MAINTENANCE and INACTIVE as terminal states seeded at construction.
// INACTIVE marks a grid position that has no sellable seat at all (a
// layout gap); it never transitions to any other status.
type SeatStatus string

// Seat status enumeration.  Uppercase strings match the values stored
// in the showtime_seats.status column.
const (
	StatusAvailable   SeatStatus = "AVAILABLE"
	StatusHeld        SeatStatus = "HELD"
	StatusOccupied    SeatStatus = "OCCUPIED"
	StatusMaintenance SeatStatus = "MAINTENANCE"
	StatusInactive    SeatStatus = "INACTIVE"
)

// SeatID identifies a seat by its row label and 1-based seat number.
// The pair is unique within a hall and immutable after grid
// construction.
type SeatID struct {
	Row    string `json:"row"`    // row label, e.g. A, B, AA
	Number int    `json:"number"` // position within the row (1-based)
}

// String renders the seat ID in the compact label form used in API
// payloads and event messages, e.g. "A12".
func (id SeatID) String() string {
	return id.Row + strconv.Itoa(id.Number)
}

// ErrBadSeatLabel is returned by ParseSeatID when a label cannot be
// split into a row part and a seat number.
var ErrBadSeatLabel = errors.New("malformed seat label")

// ParseSeatID parses a compact seat label such as "A12" or "AA3" into
// a SeatID.  The row part must be ASCII letters and the number part a
// positive integer.  Labels are normalized to uppercase.
func ParseSeatID(label string) (SeatID, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return SeatID{}, fmt.Errorf("%w: %q", ErrBadSeatLabel, label)
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n <= 0 {
		return SeatID{}, fmt.Errorf("%w: %q", ErrBadSeatLabel, label)
	}
	return SeatID{Row: s[:i], Number: n}, nil
}

// Seat describes one sellable seat for a specific showtime: its
// position, class, current allocation status and price.  Price is held
// in integer cents to avoid floating point arithmetic on money.
type Seat struct {
	ID         SeatID     `json:"id"`          // (row, number), unique per hall
	Type       SeatType   `json:"type"`        // STANDARD | VIP | COUPLE | WHEELCHAIR
	Status     SeatStatus `json:"status"`      // current allocation status
	PriceCents uint32     `json:"price_cents"` // price in cents
}

// Inactive reports whether this grid cell is a placeholder with no
// real seat behind it.
func (s Seat) Inactive() bool { return s.Status == StatusInactive }
