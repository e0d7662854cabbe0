package model

import "strings"

// Layout is the static description of a hall's seat grid: how many
// rows exist and how many seats each row contains.  It is loaded once
// per showtime from the showtime configuration and never mutated by
// the allocation core.
//
// Fields:
//  RowCount    – number of seating rows in the hall.
//  SeatsPerRow – seat count per row, one entry per row index.
type Layout struct {
	RowCount    int   `json:"row_count"`
	SeatsPerRow []int `json:"seats_per_row"`
}

// MaxCols returns the widest row of the layout.  Grids are built
// rows × MaxCols so that column alignment stays stable across rows of
// differing real seat counts.
func (l Layout) MaxCols() int {
	max := 0
	for _, n := range l.SeatsPerRow {
		if n > max {
			max = n
		}
	}
	return max
}

// Valid reports whether the layout is internally consistent: a
// positive row count with exactly one seat count per row, all
// positive.
func (l Layout) Valid() bool {
	if l.RowCount <= 0 || len(l.SeatsPerRow) != l.RowCount {
		return false
	}
	for _, n := range l.SeatsPerRow {
		if n <= 0 {
			return false
		}
	}
	return true
}

// RowLabel converts a zero-based row index to an alphabetical label
// like A, B, ..., Z, AA, AB.  Negative indices yield an empty string.
func RowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []rune
	for {
		rem := i % 26
		res = append(res, rune('A'+rem))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// RowIndex converts a row label like A or AA back into its zero-based
// index.  The second return value is false for labels containing
// anything other than ASCII letters.
func RowIndex(label string) (int, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'A' || ch > 'Z' {
			return -1, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}
