package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatID(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    SeatID
		wantErr bool
	}{
		{name: "simple", label: "A12", want: SeatID{Row: "A", Number: 12}},
		{name: "double letter row", label: "AA3", want: SeatID{Row: "AA", Number: 3}},
		{name: "lowercase normalized", label: "b7", want: SeatID{Row: "B", Number: 7}},
		{name: "surrounding whitespace", label: " c2 ", want: SeatID{Row: "C", Number: 2}},
		{name: "empty", label: "", wantErr: true},
		{name: "no row", label: "12", wantErr: true},
		{name: "no number", label: "A", wantErr: true},
		{name: "zero number", label: "A0", wantErr: true},
		{name: "negative number", label: "A-1", wantErr: true},
		{name: "trailing letters", label: "A1B", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeatID(tt.label)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadSeatLabel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeatID_String(t *testing.T) {
	assert.Equal(t, "A12", SeatID{Row: "A", Number: 12}.String())
	assert.Equal(t, "AA1", SeatID{Row: "AA", Number: 1}.String())
}

func TestRowLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{-1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RowLabel(tt.index), "index %d", tt.index)
	}
}

func TestRowIndex_RoundTrip(t *testing.T) {
	for i := 0; i < 60; i++ {
		idx, ok := RowIndex(RowLabel(i))
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}

	_, ok := RowIndex("")
	assert.False(t, ok)
	_, ok = RowIndex("A1")
	assert.False(t, ok)
}

func TestLayout_Valid(t *testing.T) {
	assert.True(t, Layout{RowCount: 2, SeatsPerRow: []int{3, 4}}.Valid())
	assert.False(t, Layout{RowCount: 0, SeatsPerRow: nil}.Valid())
	assert.False(t, Layout{RowCount: 2, SeatsPerRow: []int{3}}.Valid())
	assert.False(t, Layout{RowCount: 1, SeatsPerRow: []int{0}}.Valid())
}

func TestLayout_MaxCols(t *testing.T) {
	l := Layout{RowCount: 3, SeatsPerRow: []int{4, 6, 5}}
	assert.Equal(t, 6, l.MaxCols())
}
