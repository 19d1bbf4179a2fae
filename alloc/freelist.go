package alloc

import (
	"github.com/avinwick/tsalloc/arena"
	"github.com/avinwick/tsalloc/internal/format"
)

// freeList is a singly linked list of free blocks threaded through
// their headers, kept sorted by ascending heap offset. The list logic
// is identical for both allocator variants; callers provide whatever
// locking their variant requires.
type freeList struct {
	bs   blocks
	head uint64 // header offset of the first free block, NilOff when empty
}

func newFreeList(heap *arena.Arena) *freeList {
	return &freeList{bs: blocks{heap}, head: format.NilOff}
}

// search runs a best-fit scan for a block with at least size usable
// bytes. On success the chosen block is unlinked, split when the tail
// can hold another header plus at least one payload byte, and returned
// with its usable size shrunk to exactly size (split case) or left
// whole (internal fragmentation of at most headerSize bytes). Reports
// whether a split happened and whether anything was found; on a miss
// the caller must extend the heap.
func (fl *freeList) search(size uint64) (off uint64, split, ok bool) {
	curr, prev := fl.head, format.NilOff
	best, bestPrev := format.NilOff, format.NilOff

	for curr != format.NilOff {
		if sz := fl.bs.size(curr); sz >= size {
			// Replace only on strict improvement: among several blocks
			// tied at the smallest satisfying size, the lowest-addressed
			// one wins.
			if best == format.NilOff || sz < fl.bs.size(best) {
				best, bestPrev = curr, prev
			}
			// Perfect fit, stop scanning.
			if fl.bs.size(best) == size {
				break
			}
		}
		prev = curr
		curr = fl.bs.next(curr)
	}

	if best == format.NilOff {
		return 0, false, false
	}

	// Unlink the chosen block.
	if bestPrev != format.NilOff {
		fl.bs.setNext(bestPrev, fl.bs.next(best))
	} else {
		fl.head = fl.bs.next(best)
	}
	fl.bs.setNext(best, format.NilOff)

	// Split when the remainder can hold a header plus one payload byte.
	if fl.bs.size(best) >= size+headerSize+1 {
		tail := best + headerSize + size
		fl.bs.init(tail, fl.bs.size(best)-size-headerSize)
		fl.bs.setSize(best, size)
		fl.insert(tail)
		return best, true, true
	}
	return best, false, true
}

// insert links the block at header offset off into the list at its
// address-sorted position, then merges it with physically adjacent
// neighbours. The following neighbour is merged before the preceding
// one, so a block free on both sides collapses into a single entry in
// one pass. Reports which merges happened.
func (fl *freeList) insert(off uint64) (forward, backward bool) {
	curr, prev := fl.head, format.NilOff
	for curr != format.NilOff && curr < off {
		prev = curr
		curr = fl.bs.next(curr)
	}

	fl.bs.setNext(off, curr)
	if prev != format.NilOff {
		fl.bs.setNext(prev, off)
	} else {
		fl.head = off
	}

	// Absorb the following neighbour if adjacent.
	if next := fl.bs.next(off); next != format.NilOff && fl.bs.end(off) == next {
		fl.bs.setSize(off, fl.bs.size(off)+headerSize+fl.bs.size(next))
		fl.bs.setNext(off, fl.bs.next(next))
		forward = true
	}

	// Then let the preceding neighbour absorb this (possibly grown) block.
	if prev != format.NilOff && fl.bs.end(prev) == off {
		fl.bs.setSize(prev, fl.bs.size(prev)+headerSize+fl.bs.size(off))
		fl.bs.setNext(prev, fl.bs.next(off))
		backward = true
	}
	return forward, backward
}
