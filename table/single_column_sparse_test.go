package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleColumnSparseInsertGet(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, string](alloc)
	defer store.Close()

	h := alloc.Allocate()
	require.NoError(t, store.Insert(h, "hello"))
	require.True(t, store.Contains(h))

	v, err := store.Get(h)
	require.NoError(t, err)
	require.Equal(t, "hello", v)
	require.Equal(t, 1, store.Len())
}

func TestSingleColumnSparseGrowsForSparseIndices(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	var zero Handle32
	h := zero.WithIndex(1000)
	require.NoError(t, store.Insert(h, 7))

	v, err := store.Get(h)
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestSingleColumnSparseInsertDuplicateFails(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	h := alloc.Allocate()
	require.NoError(t, store.Insert(h, 1))
	require.Error(t, store.Insert(h, 2))
}

func TestSingleColumnSparseRemove(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	h := alloc.Allocate()
	store.Insert(h, 1)

	require.NoError(t, store.Remove(h))
	require.False(t, store.Contains(h))
	require.Equal(t, 0, store.Len())

	_, err := store.Get(h)
	require.Error(t, err)
}

func TestSingleColumnSparseDeleteObserverFiresOnAllocatorDelete(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	h := alloc.Allocate()
	store.Insert(h, 1)
	alloc.Delete(h)

	require.False(t, store.Contains(h))
}

func TestSingleColumnSparseGetMutMutatesInPlace(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	h := alloc.Allocate()
	store.Insert(h, 1)

	ref, err := store.GetMut(h)
	require.NoError(t, err)
	*ref = 55

	v, _ := store.Get(h)
	require.Equal(t, 55, v)
}

func TestSingleColumnSparseClear(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewSingleColumnSparse[Handle32, int](alloc)
	defer store.Close()

	h := alloc.Allocate()
	store.Insert(h, 1)
	store.Clear()

	require.Equal(t, 0, store.Len())
	require.False(t, store.Contains(h))
}
