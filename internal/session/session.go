// Package session models one customer's in-progress reservation: the
// seats they have picked so far, the clock ticking on their hold, and
// the derived pricing shown at checkout.
package session

import (
	"errors"
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// DefaultMaxSeats caps how many seats a single booking session may
// select.
const DefaultMaxSeats = 8

// ServiceFeeCents is the flat fee added on top of the seat subtotal.
// It is fixed at zero in the current design; the field exists so the
// receipt shape does not change when a fee is introduced.
const ServiceFeeCents = 0

// ErrCapacityExceeded is returned by Select when the session already
// holds its maximum number of seats.
var ErrCapacityExceeded = errors.New("seat limit reached for session")

// ErrSessionExpired is returned once a session's hold window has
// passed.  The state is terminal: clients must start a new session.
var ErrSessionExpired = errors.New("booking session expired")

// ErrSessionNotFound is returned when no session with the given ID is
// known to the manager.
var ErrSessionNotFound = errors.New("booking session not found")

// Session is one customer's in-progress reservation.  Selected seats
// keep their selection order — the checkout summary lists seats in the
// order the customer picked them.  Every selected seat is HELD under
// this session's ID in the reservation store.
type Session struct {
	ID         string       `json:"id"`
	ShowtimeID uint64       `json:"showtime_id"`
	Selected   []model.Seat `json:"selected"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	MaxSeats   int          `json:"max_seats"`
}

// Expired reports whether the session's hold window has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TimeRemaining returns how long the session has left, floored at
// zero.
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// SubtotalCents sums the prices of the selected seats.  The result is
// independent of selection order.
func (s *Session) SubtotalCents() uint32 {
	var total uint32
	for _, seat := range s.Selected {
		total += seat.PriceCents
	}
	return total
}

// TotalCents is the subtotal plus the (currently zero) service fee.
func (s *Session) TotalCents() uint32 {
	return s.SubtotalCents() + ServiceFeeCents
}
