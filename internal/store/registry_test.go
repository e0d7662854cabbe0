package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get(1)
	require.ErrorIs(t, err, ErrShowtimeNotFound)

	g := testGrid(t)
	st := NewFromGrid(g, 15*time.Minute, nil)
	reg.Put(1, g, st)

	e, err := reg.Get(1)
	require.NoError(t, err)
	assert.Same(t, g, e.Grid)
	assert.Same(t, st, e.Store)

	all := reg.All()
	require.Len(t, all, 1)
	assert.Same(t, st, all[1])
}
