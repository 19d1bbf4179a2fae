package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avinwick/tsalloc/arena"
)

// carveSeparated carves blocks of the given sizes with a one-byte
// guard block between each pair. The guards never enter a free list,
// so inserting all returned blocks cannot trigger coalescing.
// Returns the header offsets in carve order.
func carveSeparated(t *testing.T, heap *arena.Arena, sizes []uint64) []uint64 {
	t.Helper()
	offs := make([]uint64, 0, len(sizes))
	for i, sz := range sizes {
		offs = append(offs, carveBlock(t, heap, sz))
		if i < len(sizes)-1 {
			carveBlock(t, heap, 1)
		}
	}
	return offs
}

func TestInsertKeepsAddressOrder(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	offs := carveSeparated(t, heap, []uint64{32, 48, 16, 64})

	// Insert out of address order.
	fl.insert(offs[2])
	fl.insert(offs[0])
	fl.insert(offs[3])
	fl.insert(offs[1])

	spans := collectFree(t, fl)
	require.Len(t, spans, 4, "guards keep the four blocks from merging")
	for i := 1; i < len(spans); i++ {
		assert.Less(t, spans[i-1].off, spans[i].off, "list must be address sorted")
	}
	assertListInvariants(t, fl)
}

func TestInsertCoalescesWithFollowing(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	a := carveBlock(t, heap, 32)
	b := carveBlock(t, heap, 48)

	fl.insert(b)
	forward, backward := fl.insert(a)

	assert.True(t, forward, "a absorbs the following block b")
	assert.False(t, backward)

	spans := collectFree(t, fl)
	require.Len(t, spans, 1)
	assert.Equal(t, a, spans[0].off)
	assert.Equal(t, 32+headerSize+48, spans[0].size, "merged size absorbs b's header")
	assertListInvariants(t, fl)
}

func TestInsertCoalescesWithPreceding(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	a := carveBlock(t, heap, 32)
	b := carveBlock(t, heap, 48)

	fl.insert(a)
	forward, backward := fl.insert(b)

	assert.False(t, forward)
	assert.True(t, backward, "a absorbs the newly inserted b")

	spans := collectFree(t, fl)
	require.Len(t, spans, 1)
	assert.Equal(t, a, spans[0].off)
	assert.Equal(t, 32+headerSize+48, spans[0].size)
	assertListInvariants(t, fl)
}

func TestInsertMergesBothNeighboursInOnePass(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	a := carveBlock(t, heap, 64)
	b := carveBlock(t, heap, 64)
	c := carveBlock(t, heap, 64)

	// Insert the outer blocks first, then the middle one: it must merge
	// forward into c and then be absorbed backward into a, leaving one
	// entry spanning all three regions.
	fl.insert(a)
	fl.insert(c)
	forward, backward := fl.insert(b)

	assert.True(t, forward)
	assert.True(t, backward)

	spans := collectFree(t, fl)
	require.Len(t, spans, 1, "three adjacent blocks collapse to one entry")
	assert.Equal(t, a, spans[0].off)
	assert.Equal(t, 3*64+2*headerSize, spans[0].size)
	assertListInvariants(t, fl)
}

func TestSearchOnEmptyList(t *testing.T) {
	fl, _ := newListForTest(t, 1<<12)

	_, _, ok := fl.search(1)
	assert.False(t, ok)
}

func TestSearchUnlinksHead(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	a := carveBlock(t, heap, 32)
	fl.insert(a)

	off, split, ok := fl.search(32)
	require.True(t, ok)
	assert.Equal(t, a, off)
	assert.False(t, split)
	assert.Empty(t, collectFree(t, fl), "head removal must update the list head")
}

func TestSearchMissLeavesListIntact(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	offs := carveSeparated(t, heap, []uint64{16, 32})
	fl.insert(offs[0])
	fl.insert(offs[1])

	_, _, ok := fl.search(64)
	assert.False(t, ok)

	spans := collectFree(t, fl)
	require.Len(t, spans, 2, "a miss must not disturb the list")
	assertListInvariants(t, fl)
}
