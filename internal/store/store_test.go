package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/layout"
	"github.com/iliyamo/seat-allocation/internal/model"
)

func testGrid(t *testing.T) *layout.Grid {
	t.Helper()
	l := model.Layout{RowCount: 2, SeatsPerRow: []int{4, 4}}
	var auth []model.Seat
	for r := 0; r < 2; r++ {
		for n := 1; n <= 4; n++ {
			auth = append(auth, model.Seat{
				ID:         model.SeatID{Row: model.RowLabel(r), Number: n},
				Type:       model.SeatStandard,
				Status:     model.StatusAvailable,
				PriceCents: 1200,
			})
		}
	}
	g, err := layout.Build(l, auth)
	require.NoError(t, err)
	return g
}

func sid(label string) model.SeatID {
	id, err := model.ParseSeatID(label)
	if err != nil {
		panic(err)
	}
	return id
}

func TestHold_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	held, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1"), sid("A2")})
	require.NoError(t, err)
	require.Len(t, held, 2)
	assert.Equal(t, model.StatusHeld, held[0].Status)

	// A second session naming one conflicting seat gets nothing.
	_, err = st.Hold(ctx, "s2", []model.SeatID{sid("A2"), sid("A3")})
	var unavail *SeatUnavailableError
	require.ErrorAs(t, err, &unavail)
	require.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Equal(t, []model.SeatID{sid("A2")}, unavail.Conflicting)

	// A3 must be untouched by the failed hold.
	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, snap[sid("A3")])
}

func TestHold_UnknownSeatConflicts(t *testing.T) {
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	_, err := st.Hold(context.Background(), "s1", []model.SeatID{sid("A1"), sid("Z9")})
	var unavail *SeatUnavailableError
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, []model.SeatID{sid("Z9")}, unavail.Conflicting)
}

func TestHold_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := st.Hold(ctx, string(rune('a'+n)), []model.SeatID{sid("B2")})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrSeatUnavailable)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)
}

func TestRelease_OwnHoldsOnly(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)
	_, err = st.Hold(ctx, "s2", []model.SeatID{sid("A2")})
	require.NoError(t, err)

	// Naming another session's seat fails the whole call and leaves
	// the caller's own hold in place.
	_, err = st.Release(ctx, "s1", []model.SeatID{sid("A1"), sid("A2")})
	var stale *NotHolderError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, []model.SeatID{sid("A2")}, stale.Seats)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusHeld, snap[sid("A1")])

	released, err := st.Release(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)
	assert.Len(t, released, 1)

	// Releasing a seat that is already available is a silent no-op.
	released, err = st.Release(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)
	assert.Empty(t, released)

	// The released seat is immediately re-holdable by anyone.
	_, err = st.Hold(ctx, "s3", []model.SeatID{sid("A1")})
	require.NoError(t, err)
}

func TestConfirm_TerminalOccupied(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1"), sid("A2")})
	require.NoError(t, err)

	confirmed, err := st.Confirm(ctx, "s1", []model.SeatID{sid("A1"), sid("A2")})
	require.NoError(t, err)
	require.Len(t, confirmed, 2)
	for _, s := range confirmed {
		assert.Equal(t, model.StatusOccupied, s.Status)
	}

	// Occupied seats can never be held or released again.
	_, err = st.Hold(ctx, "s2", []model.SeatID{sid("A1")})
	require.ErrorIs(t, err, ErrSeatUnavailable)
	_, err = st.Release(ctx, "s1", []model.SeatID{sid("A1")})
	require.ErrorIs(t, err, ErrNotHolder)
}

func TestConfirm_RequiresOwnHold(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)

	// Confirming one held and one unheld seat changes nothing.
	_, err = st.Confirm(ctx, "s1", []model.SeatID{sid("A1"), sid("A2")})
	var stale *NotHolderError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, []model.SeatID{sid("A2")}, stale.Seats)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusHeld, snap[sid("A1")])
	assert.Equal(t, model.StatusAvailable, snap[sid("A2")])

	_, err = st.Confirm(ctx, "s2", []model.SeatID{sid("A1")})
	require.ErrorIs(t, err, ErrNotHolder)
}

func TestHoldExpiry_Boundary(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	now := base
	st := NewFromGrid(testGrid(t), 15*time.Minute, func() time.Time { return now })

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)

	// One second before the deadline the hold still stands.
	now = base.Add(14*time.Minute + 59*time.Second)
	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusHeld, snap[sid("A1")])

	// One second past the deadline the seat is available again and a
	// different session can take it straight away.
	now = base.Add(15*time.Minute + 1*time.Second)
	snap, err = st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, snap[sid("A1")])

	_, err = st.Hold(ctx, "s2", []model.SeatID{sid("A1")})
	require.NoError(t, err)
}

func TestConfirm_FailsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	now := base
	st := NewFromGrid(testGrid(t), 15*time.Minute, func() time.Time { return now })

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1")})
	require.NoError(t, err)

	now = base.Add(16 * time.Minute)
	_, err = st.Confirm(ctx, "s1", []model.SeatID{sid("A1")})
	require.ErrorIs(t, err, ErrNotHolder)
}

func TestSweepExpired_SortedReleases(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	now := base
	st := NewFromGrid(testGrid(t), 15*time.Minute, func() time.Time { return now })

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("B3"), sid("A2"), sid("B1")})
	require.NoError(t, err)

	released, err := st.SweepExpired(ctx, base.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []model.SeatID{sid("A2"), sid("B1"), sid("B3")}, released)

	n, err := st.AvailableCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestSeatsHeldBy_GridOrder(t *testing.T) {
	ctx := context.Background()
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("B2"), sid("A4")})
	require.NoError(t, err)
	_, err = st.Hold(ctx, "s2", []model.SeatID{sid("A1")})
	require.NoError(t, err)

	held, err := st.SeatsHeldBy(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, held, 2)
	assert.Equal(t, sid("A4"), held[0].ID)
	assert.Equal(t, sid("B2"), held[1].ID)
}

func TestLockTimeout(t *testing.T) {
	st := NewFromGrid(testGrid(t), 15*time.Minute, nil)

	// Occupy the lock slot so acquisition can only fail.
	st.sem <- struct{}{}
	defer func() { <-st.sem }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.Hold(ctx, "s1", []model.SeatID{sid("A1")})
	require.ErrorIs(t, err, ErrLockTimeout)
}

func TestNewFromGrid_SeedsTerminalStates(t *testing.T) {
	l := model.Layout{RowCount: 1, SeatsPerRow: []int{3}}
	auth := []model.Seat{
		{ID: sid("A1"), Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
		{ID: sid("A2"), Type: model.SeatStandard, Status: model.StatusOccupied, PriceCents: 1200},
		{ID: sid("A3"), Type: model.SeatStandard, Status: model.StatusMaintenance, PriceCents: 1200},
	}
	g, err := layout.Build(l, auth)
	require.NoError(t, err)
	st := NewFromGrid(g, 15*time.Minute, nil)

	ctx := context.Background()
	_, err = st.Hold(ctx, "s1", []model.SeatID{sid("A2")})
	require.ErrorIs(t, err, ErrSeatUnavailable)
	_, err = st.Hold(ctx, "s1", []model.SeatID{sid("A3")})
	require.ErrorIs(t, err, ErrSeatUnavailable)

	n, err := st.AvailableCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
