package alloc

import (
	"sort"
	"testing"

	s "github.com/bnclabs/gosettings"
	"github.com/stretchr/testify/require"

	"github.com/avinwick/tsalloc/arena"
	"github.com/avinwick/tsalloc/internal/format"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newLockedForTest creates a Locked allocator over a small reservation
// and ties its lifetime to the test.
func newLockedForTest(t testing.TB, capacity int64) *Locked {
	t.Helper()
	l, err := NewLocked(s.Settings{"arena.capacity": capacity})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// newPartitionedForTest creates a Partitioned allocator over a small
// reservation and ties its lifetime to the test.
func newPartitionedForTest(t testing.TB, capacity int64) *Partitioned {
	t.Helper()
	p, err := NewPartitioned(s.Settings{"arena.capacity": capacity})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// newListForTest builds a bare free list over a fresh arena for
// white-box list tests.
func newListForTest(t testing.TB, capacity int64) (*freeList, *arena.Arena) {
	t.Helper()
	heap, err := arena.Reserve(capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = heap.Close() })
	return newFreeList(heap), heap
}

// carveBlock extends the heap by one header plus size bytes and stamps
// a header, returning the header offset. The block is not linked into
// any list, so consecutive carves produce physically adjacent blocks.
func carveBlock(t testing.TB, heap *arena.Arena, size uint64) uint64 {
	t.Helper()
	off, err := heap.Extend(headerSize + size)
	require.NoError(t, err)
	blocks{heap}.init(off, size)
	return off
}

// freeSpan is one free-list entry: header offset and usable size.
type freeSpan struct {
	off  uint64
	size uint64
}

// collectFree walks a free list and returns its entries in list order,
// failing the test on a cycle.
func collectFree(t testing.TB, fl *freeList) []freeSpan {
	t.Helper()
	var spans []freeSpan
	seen := make(map[uint64]bool)
	for off := fl.head; off != format.NilOff; off = fl.bs.next(off) {
		require.False(t, seen[off], "free list cycle through offset %d", off)
		seen[off] = true
		spans = append(spans, freeSpan{off: off, size: fl.bs.size(off)})
	}
	return spans
}

// assertListInvariants checks free-list well-formedness: ascending
// offsets, no two physically adjacent entries, every block inside the
// heap extent.
func assertListInvariants(t testing.TB, fl *freeList) {
	t.Helper()
	spans := collectFree(t, fl)
	heapSize := fl.bs.heap.Size()
	for i, sp := range spans {
		require.LessOrEqual(t, sp.off+headerSize+sp.size, heapSize,
			"free block %d overruns the heap extent", i)
		if i == 0 {
			continue
		}
		prev := spans[i-1]
		require.Less(t, prev.off, sp.off, "free list not sorted by address")
		require.NotEqual(t, prev.off+headerSize+prev.size, sp.off,
			"adjacent free blocks %d and %d were not coalesced", i-1, i)
	}
}

// assertDisjoint checks that the payload ranges of live allocations are
// pairwise disjoint. sizes maps each live ref to its requested size.
func assertDisjoint(t testing.TB, sizes map[Ref]uint64) {
	t.Helper()
	type span struct{ start, end uint64 }
	spans := make([]span, 0, len(sizes))
	for ref, sz := range sizes {
		spans = append(spans, span{start: uint64(ref), end: uint64(ref) + sz})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		require.LessOrEqual(t, spans[i-1].end, spans[i].start,
			"allocated regions overlap: [%d,%d) and [%d,%d)",
			spans[i-1].start, spans[i-1].end, spans[i].start, spans[i].end)
	}
}
