// Package store owns the authoritative per-showtime seat allocation
// state.  Sentinel errors defined here let the handler layer map
// allocation failures onto HTTP responses, mirroring how the
// repository layer exposes ErrForbidden-style sentinels.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// ErrSeatUnavailable is returned when a hold cannot be granted because
// at least one requested seat is not currently AVAILABLE.  The
// concrete error is a *SeatUnavailableError listing the conflicting
// seats; use errors.As to retrieve it.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrNotHolder is returned by Release and Confirm when a requested
// seat is held by a different session or is not held at all.  It
// indicates stale client state; the UI should refresh its grid.
var ErrNotHolder = errors.New("seat not held by this session")

// ErrLockTimeout is returned when the store lock could not be acquired
// before the caller's context expired.  No state was changed.
var ErrLockTimeout = errors.New("store lock timeout")

// SeatUnavailableError carries the exact seats that blocked a hold so
// the client can re-render them as unavailable instead of silently
// dropping the selection.
type SeatUnavailableError struct {
	Conflicting []model.SeatID
}

func (e *SeatUnavailableError) Error() string {
	labels := make([]string, len(e.Conflicting))
	for i, id := range e.Conflicting {
		labels[i] = id.String()
	}
	return fmt.Sprintf("seat unavailable: %s", strings.Join(labels, ", "))
}

// Unwrap lets errors.Is(err, ErrSeatUnavailable) succeed on the
// detailed error.
func (e *SeatUnavailableError) Unwrap() error { return ErrSeatUnavailable }

// NotHolderError lists the seats a Release or Confirm named that are
// not currently held by the calling session.
type NotHolderError struct {
	Seats []model.SeatID
}

func (e *NotHolderError) Error() string {
	labels := make([]string, len(e.Seats))
	for i, id := range e.Seats {
		labels[i] = id.String()
	}
	return fmt.Sprintf("not holder of: %s", strings.Join(labels, ", "))
}

// Unwrap lets errors.Is(err, ErrNotHolder) succeed on the detailed
// error.
func (e *NotHolderError) Unwrap() error { return ErrNotHolder }
