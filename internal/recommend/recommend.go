// Package recommend scores available seats on a grid and proposes
// seat groups for a party of a given size.  Recommendations are purely
// advisory: the caller must still acquire holds through the
// reservation store, and a recommended seat can be lost to another
// session in the meantime.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iliyamo/seat-allocation/internal/layout"
	"github.com/iliyamo/seat-allocation/internal/model"
)

// ErrInsufficientAvailability is returned when the grid has fewer
// available seats than the requested party size.
var ErrInsufficientAvailability = errors.New("not enough available seats")

// Preferences controls the scoring heuristics.  All knobs are boolean;
// see DefaultPreferences for the values used when the caller supplies
// none.
type Preferences struct {
	PreferCenter     bool `json:"prefer_center"`      // favor seats near the row center
	PreferMiddleRows bool `json:"prefer_middle_rows"` // favor rows near the vertical middle
	AvoidFrontRows   bool `json:"avoid_front_rows"`   // penalize the first two rows
	AvoidBackRows    bool `json:"avoid_back_rows"`    // penalize the last three rows
}

// DefaultPreferences returns the stock preference set: centered,
// middle rows, front rows avoided, back rows allowed.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferCenter:     true,
		PreferMiddleRows: true,
		AvoidFrontRows:   true,
		AvoidBackRows:    false,
	}
}

// candidate pairs a seat with its grid position and heuristic score.
type candidate struct {
	seat  model.Seat
	row   int
	col   int
	score int
}

// Recommend returns count seats chosen by the scoring heuristics.
//
// Every available seat is scored, seats are ordered by score (stable,
// so grid order breaks ties and the result is deterministic for a
// given grid), and the first row-contiguous run of count available
// seats anchored at a scored seat wins.  When no contiguous run of the
// requested size exists anywhere, the top count individually scoring
// seats are returned instead — a deliberate degrade-gracefully policy,
// not an error.
//
// Note the flat VIP bonus: it is an upsell bias applied regardless of
// the caller's preferences.
func Recommend(g *layout.Grid, count int, prefs Preferences) ([]model.Seat, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: requested %d", ErrInsufficientAvailability, count)
	}
	cands := collect(g, prefs)
	if len(cands) < count {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientAvailability, count, len(cands))
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	// First pass: a contiguous run of the requested size anchored at
	// the best-scoring seat that has one.
	for _, c := range cands {
		if run, ok := contiguousRun(g, c.row, c.col, count); ok {
			return run, nil
		}
	}
	// Fallback: the individually best seats, not necessarily adjacent.
	out := make([]model.Seat, 0, count)
	for _, c := range cands[:count] {
		out = append(out, c.seat)
	}
	return out, nil
}

// collect scores every available seat on the grid in grid order.
func collect(g *layout.Grid, prefs Preferences) []candidate {
	rows, cols := g.Rows(), g.Cols()
	centerCol := (cols - 1) / 2
	middleRow := (rows - 1) / 2
	var cands []candidate
	for r := 0; r < rows; r++ {
		width := rowWidth(g, r)
		for c := 0; c < cols; c++ {
			s := g.At(r, c)
			if s.Status != model.StatusAvailable {
				continue
			}
			score := 0
			if prefs.PreferCenter {
				score += 2 * (width - abs(c-centerCol))
			}
			if prefs.PreferMiddleRows {
				score += 3 * (rows - abs(r-middleRow))
			}
			if prefs.AvoidFrontRows && r < 2 {
				score -= 50
			}
			if prefs.AvoidBackRows && r >= rows-3 {
				score -= 30
			}
			if s.Type == model.SeatVIP {
				score += 20
			}
			cands = append(cands, candidate{seat: s, row: r, col: c, score: score})
		}
	}
	return cands
}

// contiguousRun tries to assemble count available seats in the same
// row with consecutive columns, starting at (row, col).  An inactive
// placeholder or any non-available seat breaks the run.
func contiguousRun(g *layout.Grid, row, col, count int) ([]model.Seat, bool) {
	if col+count > g.Cols() {
		return nil, false
	}
	run := make([]model.Seat, 0, count)
	for c := col; c < col+count; c++ {
		s := g.At(row, c)
		if s.Status != model.StatusAvailable {
			return nil, false
		}
		run = append(run, s)
	}
	return run, true
}

// rowWidth counts the real seats in a row, ignoring placeholders.
func rowWidth(g *layout.Grid, row int) int {
	n := 0
	for c := 0; c < g.Cols(); c++ {
		if !g.At(row, c).Inactive() {
			n++
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
