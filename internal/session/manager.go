package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/store"
)

// Manager owns all live booking sessions and mediates every seat
// selection through the reservation store, so a session can never
// believe it holds a seat the store disagrees about.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	registry *store.Registry
	ttl      time.Duration
	maxSeats int
	now      func() time.Time
}

// NewManager builds a session manager over the showtime registry.  The
// ttl is both the session lifetime and the seat hold duration — they
// expire together by design.  Pass nil for now to use time.Now.
func NewManager(reg *store.Registry, ttl time.Duration, maxSeats int, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	if maxSeats <= 0 {
		maxSeats = DefaultMaxSeats
	}
	return &Manager{
		sessions: make(map[string]*Session),
		registry: reg,
		ttl:      ttl,
		maxSeats: maxSeats,
		now:      now,
	}
}

// clone returns a snapshot of the session with its own Selected
// slice.  Manager methods hand out clones so a handler can encode the
// response while another request mutates the live session under the
// manager lock.
func (s *Session) clone() *Session {
	c := *s
	c.Selected = append([]model.Seat(nil), s.Selected...)
	return &c
}

// Open creates a new booking session for a showtime.  The showtime
// must already be loaded in the registry.
func (m *Manager) Open(showtimeID uint64) (*Session, error) {
	if _, err := m.registry.Get(showtimeID); err != nil {
		return nil, err
	}
	now := m.now().UTC()
	s := &Session{
		ID:         uuid.NewString(),
		ShowtimeID: showtimeID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
		MaxSeats:   m.maxSeats,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s.clone(), nil
}

// Get returns a snapshot of a session by ID.  Expired sessions are
// still returned so callers can render the expiry state; mutating
// them fails with ErrSessionExpired.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

// Select adds one seat to the session.  It checks the session's seat
// cap locally, then acquires the hold through the reservation store;
// only on success is the seat appended, preserving selection order.
// Store-side failures (seat taken, lock timeout) surface unchanged so
// the handler can distinguish them, and leave both the session and the
// store untouched.
func (m *Manager) Select(ctx context.Context, sessionID string, seatID model.SeatID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		return nil, ErrSessionExpired
	}
	if len(s.Selected) >= s.MaxSeats {
		return nil, ErrCapacityExceeded
	}
	entry, err := m.registry.Get(s.ShowtimeID)
	if err != nil {
		return nil, err
	}
	held, err := entry.Store.Hold(ctx, s.ID, []model.SeatID{seatID})
	if err != nil {
		return nil, err
	}
	s.Selected = append(s.Selected, held[0])
	return s.clone(), nil
}

// Deselect removes one seat from the session and releases its hold.
// Deselecting a seat that is not part of the selection is a no-op.
func (m *Manager) Deselect(ctx context.Context, sessionID string, seatID model.SeatID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		return nil, ErrSessionExpired
	}
	idx := -1
	for i, seat := range s.Selected {
		if seat.ID == seatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.clone(), nil
	}
	entry, err := m.registry.Get(s.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if _, err := entry.Store.Release(ctx, s.ID, []model.SeatID{seatID}); err != nil {
		return nil, err
	}
	s.Selected = append(s.Selected[:idx], s.Selected[idx+1:]...)
	return s.clone(), nil
}

// Cancel releases every seat the session still holds and forgets the
// session.  Cancelling an unknown session is a no-op: the client's
// goal state is already reached.
func (m *Manager) Cancel(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}
	entry, err := m.registry.Get(s.ShowtimeID)
	if err != nil {
		return err
	}
	held, err := entry.Store.SeatsHeldBy(ctx, s.ID)
	if err != nil {
		return err
	}
	if len(held) == 0 {
		return nil
	}
	ids := make([]model.SeatID, len(held))
	for i, seat := range held {
		ids[i] = seat.ID
	}
	_, err = entry.Store.Release(ctx, s.ID, ids)
	return err
}

// Complete removes a session after a successful checkout handoff.  The
// seats stay OCCUPIED in the store; only the session bookkeeping is
// dropped.
func (m *Manager) Complete(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// PurgeExpired forgets sessions whose window has passed.  Their seat
// holds expire independently via the store sweep, so this is pure
// bookkeeping; it is called from the background sweeper loop.
func (m *Manager) PurgeExpired() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
