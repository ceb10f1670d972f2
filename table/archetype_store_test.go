package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type storeTestPos struct{ X, Y float64 }
type storeTestVel struct{ X, Y float64 }
type storeTestName struct{ Value string }

func TestArchetypeStoreInsertAndContains(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL2[storeTestPos, storeTestVel]](store)
	require.NoError(t, err)

	lock, err := ins.Lock()
	require.NoError(t, err)
	h := alloc.Allocate()
	require.NoError(t, lock.Insert(h, storeTestPos{1, 2}, storeTestVel{3, 4}))
	lock.Release()

	require.True(t, store.Contains(h))
	require.Equal(t, 1, store.Len())
	require.Equal(t, 1, store.GroupCount())
}

func TestArchetypeStoreDuplicateSchemaReusesGroup(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins1, err := NewInserter[Handle32, TL2[storeTestPos, storeTestVel]](store)
	require.NoError(t, err)
	ins2, err := NewInserter[Handle32, TL2[storeTestVel, storeTestPos]](store)
	require.NoError(t, err)

	require.True(t, ins1.Schema().Equal(ins2.Schema()))
	require.Equal(t, 1, store.GroupCount(), "inserters for the same canonical schema must dedupe to one group")
}

func TestArchetypeStoreInserterRejectsDuplicateType(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	_, err := NewInserter[Handle32, TCons[storeTestPos, TCons[storeTestPos, TNil]]](store)
	require.Error(t, err)
}

func TestArchetypeStoreDeleteSwapRemovesRow(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL1[storeTestPos]](store)
	require.NoError(t, err)
	lock, err := ins.Lock()
	require.NoError(t, err)

	h1 := alloc.Allocate()
	h2 := alloc.Allocate()
	h3 := alloc.Allocate()
	require.NoError(t, lock.Insert(h1, storeTestPos{1, 1}))
	require.NoError(t, lock.Insert(h2, storeTestPos{2, 2}))
	require.NoError(t, lock.Insert(h3, storeTestPos{3, 3}))
	lock.Release()

	require.NoError(t, store.Delete(h1))
	require.Equal(t, 2, store.Len())
	require.False(t, store.Contains(h1))
	require.True(t, store.Contains(h2))
	require.True(t, store.Contains(h3))
}

func TestArchetypeStoreDeleteViaAllocatorCascades(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL1[storeTestPos]](store)
	require.NoError(t, err)
	lock, _ := ins.Lock()
	h := alloc.Allocate()
	lock.Insert(h, storeTestPos{1, 1})
	lock.Release()

	alloc.Delete(h)
	require.False(t, store.Contains(h))
	require.Equal(t, 0, store.Len())
}

func TestTransformToMovesSharedColumnsAndFillsNewOnes(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL1[storeTestPos]](store)
	require.NoError(t, err)
	lock, _ := ins.Lock()
	h := alloc.Allocate()
	lock.Insert(h, storeTestPos{5, 6})
	lock.Release()

	addValues := map[ColumnID]any{columnIDFor[storeTestVel](): storeTestVel{1, 1}}
	err = TransformTo[Handle32, TL2[storeTestPos, storeTestVel]](store, h, addValues)
	require.NoError(t, err)

	q, err := NewQuery[Handle32, TNil, TL2[storeTestPos, storeTestVel]](store)
	require.NoError(t, err)
	ql, err := q.Lock()
	require.NoError(t, err)
	defer ql.Release()

	require.True(t, ql.Next())
	require.Equal(t, h, ql.Handle())
	pos := QueryGet[Handle32, TNil, TL2[storeTestPos, storeTestVel], storeTestPos](ql)
	require.Equal(t, storeTestPos{5, 6}, *pos)
	vel := QueryGet[Handle32, TNil, TL2[storeTestPos, storeTestVel], storeTestVel](ql)
	require.Equal(t, storeTestVel{1, 1}, *vel)
	require.False(t, ql.Next())
}

func TestTransformToDropsColumnsNotInTarget(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL2[storeTestPos, storeTestName]](store)
	require.NoError(t, err)
	lock, _ := ins.Lock()
	h := alloc.Allocate()
	lock.Insert(h, storeTestPos{1, 1}, storeTestName{"a"})
	lock.Release()

	err = TransformTo[Handle32, TL1[storeTestPos]](store, h, nil)
	require.NoError(t, err)

	q, err := NewQuery[Handle32, TNil, TL1[storeTestPos]](store)
	require.NoError(t, err)
	ql, err := q.Lock()
	require.NoError(t, err)
	defer ql.Release()

	require.True(t, ql.Next())
	pos := QueryGet[Handle32, TNil, TL1[storeTestPos], storeTestPos](ql)
	require.Equal(t, storeTestPos{1, 1}, *pos)
}

func TestTransformToMissingValueForNewColumnFails(t *testing.T) {
	alloc := NewHandleAllocator[Handle32]()
	store := NewArchetypeStore[Handle32](alloc)
	defer store.Close()

	ins, err := NewInserter[Handle32, TL1[storeTestPos]](store)
	require.NoError(t, err)
	lock, _ := ins.Lock()
	h := alloc.Allocate()
	lock.Insert(h, storeTestPos{1, 1})
	lock.Release()

	err = TransformTo[Handle32, TL2[storeTestPos, storeTestVel]](store, h, nil)
	require.Error(t, err)
}
