package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestFitPicksSmallestThatFits(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	// Free blocks of usable sizes {10, 20, 15} in address order.
	offs := carveSeparated(t, heap, []uint64{10, 20, 15})
	for _, off := range offs {
		fl.insert(off)
	}

	// A request of 12 must select the 15-byte block, not the 20-byte one.
	off, split, ok := fl.search(12)
	require.True(t, ok)
	assert.Equal(t, offs[2], off, "best fit is the 15-byte block")
	assert.False(t, split, "remainder of 3 cannot hold a header plus a byte")
	assert.Equal(t, uint64(15), fl.bs.size(off), "unsplit block keeps its full size")

	// The 10 and 20 byte blocks stay in the list.
	spans := collectFree(t, fl)
	require.Len(t, spans, 2)
	assert.Equal(t, offs[0], spans[0].off)
	assert.Equal(t, offs[1], spans[1].off)
	assertListInvariants(t, fl)
}

func TestBestFitPerfectMatch(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	// Free blocks of usable sizes {20, 12, 30} in address order.
	offs := carveSeparated(t, heap, []uint64{20, 12, 30})
	for _, off := range offs {
		fl.insert(off)
	}

	// A request of 12 hits the exact match and stops there.
	off, split, ok := fl.search(12)
	require.True(t, ok)
	assert.Equal(t, offs[1], off, "exact match is selected")
	assert.False(t, split)

	spans := collectFree(t, fl)
	require.Len(t, spans, 2)
	assert.Equal(t, uint64(20), spans[0].size)
	assert.Equal(t, uint64(30), spans[1].size)
	assertListInvariants(t, fl)
}

func TestBestFitTieBreakFirstInAddressOrder(t *testing.T) {
	fl, heap := newListForTest(t, 1<<16)

	// Two blocks tied at the smallest satisfying size. A candidate
	// replaces the current best only on strict improvement, so the
	// lower-addressed one must win.
	offs := carveSeparated(t, heap, []uint64{15, 15})
	for _, off := range offs {
		fl.insert(off)
	}

	off, _, ok := fl.search(12)
	require.True(t, ok)
	assert.Equal(t, offs[0], off, "first of equal-smallest candidates wins")

	spans := collectFree(t, fl)
	require.Len(t, spans, 1)
	assert.Equal(t, offs[1], spans[0].off)
}

func TestBestFitThroughLockedAllocator(t *testing.T) {
	l := newLockedForTest(t, 1<<16)

	// Build free blocks of sizes {10, 20, 15} by allocating with guard
	// allocations in between, then freeing the three targets.
	a10, err := l.Alloc(10)
	require.NoError(t, err)
	_, err = l.Alloc(1)
	require.NoError(t, err)
	a20, err := l.Alloc(20)
	require.NoError(t, err)
	_, err = l.Alloc(1)
	require.NoError(t, err)
	a15, err := l.Alloc(15)
	require.NoError(t, err)

	l.Free(a10)
	l.Free(a20)
	l.Free(a15)

	got, err := l.Alloc(12)
	require.NoError(t, err)
	assert.Equal(t, a15, got, "allocator must reuse the 15-byte block for a 12-byte request")
	assertListInvariants(t, l.list)
}
