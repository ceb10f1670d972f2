package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandle32WithIndexAndBumped(t *testing.T) {
	var zero Handle32
	h := zero.WithIndex(5)
	require.Equal(t, uint64(5), h.Idx())
	require.Equal(t, uint64(0), h.Version())
	require.False(t, h.IsNull())

	bumped := h.Bumped(5)
	require.Equal(t, uint64(5), bumped.Idx())
	require.Equal(t, uint64(1), bumped.Version())
}

func TestHandle32NullIsIndexZero(t *testing.T) {
	var zero Handle32
	null := zero.WithIndex(0)
	require.True(t, null.IsNull())
}

func TestHandle32VersionWraps(t *testing.T) {
	var zero Handle32
	h := zero.WithIndex(1)
	for i := 0; i < (1<<12)+1; i++ {
		h = h.Bumped(1)
	}
	// version field is 12 bits; this must not panic or corrupt the index.
	require.Equal(t, uint64(1), h.Idx())
}

func TestHandle16And64IndexVersionSplit(t *testing.T) {
	var z16 Handle16
	h16 := z16.WithIndex(10).Bumped(10)
	require.Equal(t, uint64(10), h16.Idx())
	require.Equal(t, uint64(1), h16.Version())

	var z64 Handle64
	h64 := z64.WithIndex(1 << 20).Bumped(1 << 20)
	require.Equal(t, uint64(1<<20), h64.Idx())
	require.Equal(t, uint64(1), h64.Version())
}

func TestHandleEquality(t *testing.T) {
	var zero Handle32
	a := zero.WithIndex(3)
	b := zero.WithIndex(3)
	c := zero.WithIndex(4)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
