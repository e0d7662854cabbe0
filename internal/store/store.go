package store

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/seat-allocation/internal/layout"
	"github.com/iliyamo/seat-allocation/internal/model"
)

// entry is the authoritative allocation record for one seat: its
// static seat data plus, while HELD, the holding session and the hold
// deadline.
type entry struct {
	seat      model.Seat
	sessionID string
	heldUntil time.Time
}

// Store is the authoritative seat map for a single showtime.  All
// transitions run under one lock so a hold over several seats is
// atomic: either every requested seat flips to HELD or none does.
//
// The lock is a 1-slot channel rather than a sync.Mutex so acquisition
// can honor the caller's context deadline; a stuck operation cannot
// starve other sessions indefinitely.
type Store struct {
	sem     chan struct{}
	seats   map[model.SeatID]*entry
	order   []model.SeatID // grid order, for deterministic snapshots
	holdTTL time.Duration
	now     func() time.Time
}

// NewFromGrid seeds a store from a built grid.  OCCUPIED and
// MAINTENANCE cells become terminal entries; inactive placeholders are
// not tracked at all — they are a property of the grid, not of
// allocation.  The clock is injected so expiry tests can run against a
// fake time source; pass nil for time.Now.
func NewFromGrid(g *layout.Grid, holdTTL time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		sem:     make(chan struct{}, 1),
		seats:   make(map[model.SeatID]*entry),
		holdTTL: holdTTL,
		now:     now,
	}
	for _, seat := range g.Seats() {
		s.seats[seat.ID] = &entry{seat: seat}
		s.order = append(s.order, seat.ID)
	}
	return s
}

// HoldTTL returns the configured hold duration.
func (s *Store) HoldTTL() time.Duration { return s.holdTTL }

// Now returns the store's current time from its injected clock, so
// callers rendering hold deadlines agree with the expiry sweep.
func (s *Store) Now() time.Time { return s.now() }

// lock acquires the store lock or fails with ErrLockTimeout when the
// context is done first.
func (s *Store) lock(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrLockTimeout
	}
}

func (s *Store) unlock() { <-s.sem }

// Hold atomically transitions every requested seat from AVAILABLE to
// HELD under the given session, with the hold expiring holdTTL from
// now.  If any seat is not available the whole operation fails with a
// *SeatUnavailableError naming the conflicts and no seat changes
// state.  Unknown seat IDs count as conflicts: the client's grid is
// stale either way.
//
// Expired holds are swept lazily before the availability check, so a
// seat whose hold lapsed an instant ago is immediately re-holdable.
func (s *Store) Hold(ctx context.Context, sessionID string, ids []model.SeatID) ([]model.Seat, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	var conflicts []model.SeatID
	for _, id := range ids {
		e, ok := s.seats[id]
		if !ok || e.seat.Status != model.StatusAvailable {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return nil, &SeatUnavailableError{Conflicting: conflicts}
	}
	until := s.now().Add(s.holdTTL)
	held := make([]model.Seat, 0, len(ids))
	for _, id := range ids {
		e := s.seats[id]
		e.seat.Status = model.StatusHeld
		e.sessionID = sessionID
		e.heldUntil = until
		held = append(held, e.seat)
	}
	return held, nil
}

// Release returns the named seats from HELD back to AVAILABLE.  Seats
// already AVAILABLE are skipped silently — their hold may have expired
// concurrently, which is not the caller's fault.  Seats held by a
// different session or already OCCUPIED make the whole call fail with
// a *NotHolderError before any state changes, so the UI can warn about
// stale state.
func (s *Store) Release(ctx context.Context, sessionID string, ids []model.SeatID) ([]model.SeatID, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	var stale []model.SeatID
	var toRelease []model.SeatID
	for _, id := range ids {
		e, ok := s.seats[id]
		switch {
		case !ok:
			stale = append(stale, id)
		case e.seat.Status == model.StatusAvailable:
			// already released, nothing to do
		case e.seat.Status == model.StatusHeld && e.sessionID == sessionID:
			toRelease = append(toRelease, id)
		default:
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		return nil, &NotHolderError{Seats: stale}
	}
	for _, id := range toRelease {
		s.releaseLocked(id)
	}
	return toRelease, nil
}

// Confirm transitions seats held by the session to OCCUPIED,
// permanently removing them from availability for this showtime.  The
// operation is all-or-nothing: if any named seat is not currently held
// by the session (including holds that have just expired) it fails
// with a *NotHolderError and nothing changes.
func (s *Store) Confirm(ctx context.Context, sessionID string, ids []model.SeatID) ([]model.Seat, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	var stale []model.SeatID
	for _, id := range ids {
		e, ok := s.seats[id]
		if !ok || e.seat.Status != model.StatusHeld || e.sessionID != sessionID {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		return nil, &NotHolderError{Seats: stale}
	}
	confirmed := make([]model.Seat, 0, len(ids))
	for _, id := range ids {
		e := s.seats[id]
		e.seat.Status = model.StatusOccupied
		e.sessionID = ""
		e.heldUntil = time.Time{}
		confirmed = append(confirmed, e.seat)
	}
	return confirmed, nil
}

// SweepExpired releases every hold whose deadline has passed at the
// given instant and returns the seat IDs that went back to AVAILABLE.
// The background sweeper calls this periodically; Hold, Release and
// Confirm additionally sweep lazily, so a seat can never stay
// incorrectly HELD longer than holdTTL plus the sweep interval.
func (s *Store) SweepExpired(ctx context.Context, now time.Time) ([]model.SeatID, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	return s.expireLocked(now), nil
}

// SeatsHeldBy returns the seats currently held by the session, in grid
// order.  Used by confirm-all flows and by session recovery.
func (s *Store) SeatsHeldBy(ctx context.Context, sessionID string) ([]model.Seat, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	var held []model.Seat
	for _, id := range s.order {
		e := s.seats[id]
		if e.seat.Status == model.StatusHeld && e.sessionID == sessionID {
			held = append(held, e.seat)
		}
	}
	return held, nil
}

// Snapshot returns a consistent view of every seat's current status.
// Expired holds are swept first so no seat is reported HELD past its
// deadline.
func (s *Store) Snapshot(ctx context.Context) (map[model.SeatID]model.SeatStatus, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	out := make(map[model.SeatID]model.SeatStatus, len(s.seats))
	for id, e := range s.seats {
		out[id] = e.seat.Status
	}
	return out, nil
}

// AvailableCount reports how many seats are currently AVAILABLE,
// sweeping expired holds first so the count reflects reality.
func (s *Store) AvailableCount(ctx context.Context) (int, error) {
	if err := s.lock(ctx); err != nil {
		return 0, err
	}
	defer s.unlock()
	s.expireLocked(s.now())

	n := 0
	for _, e := range s.seats {
		if e.seat.Status == model.StatusAvailable {
			n++
		}
	}
	return n, nil
}

// expireLocked releases all holds with heldUntil strictly before now.
// Callers must hold the store lock.  Returned IDs are sorted for
// deterministic logs and tests.
func (s *Store) expireLocked(now time.Time) []model.SeatID {
	var released []model.SeatID
	for id, e := range s.seats {
		if e.seat.Status == model.StatusHeld && e.heldUntil.Before(now) {
			released = append(released, id)
		}
	}
	sort.Slice(released, func(i, j int) bool {
		if released[i].Row != released[j].Row {
			return released[i].Row < released[j].Row
		}
		return released[i].Number < released[j].Number
	})
	for _, id := range released {
		s.releaseLocked(id)
	}
	return released
}

// releaseLocked returns one seat to AVAILABLE.  Callers must hold the
// store lock.
func (s *Store) releaseLocked(id model.SeatID) {
	e := s.seats[id]
	e.seat.Status = model.StatusAvailable
	e.sessionID = ""
	e.heldUntil = time.Time{}
}
