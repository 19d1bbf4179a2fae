package alloc

import (
	"math"
	"sync"

	s "github.com/bnclabs/gosettings"

	"github.com/avinwick/tsalloc/arena"
)

// Locked is the globally locked variant: one free list shared by all
// goroutines, one mutex serializing every Alloc and Free end to end.
// Any goroutine may reuse a block freed by any other.
type Locked struct {
	mu   sync.Mutex
	heap *arena.Arena
	bs   blocks
	list *freeList

	stats Stats

	// Test hook: called before every heap extension (nil in production).
	onGrow func(n uint64)
}

// NewLocked creates a globally locked allocator. Pass nil settings for
// Defaultsettings.
func NewLocked(setts s.Settings) (*Locked, error) {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	heap, err := arena.Reserve(setts.Int64("arena.capacity"))
	if err != nil {
		return nil, err
	}
	return &Locked{
		heap: heap,
		bs:   blocks{heap},
		list: newFreeList(heap),
	}, nil
}

// Alloc returns a reference usable for exactly size bytes. The search,
// a possible split, a possible heap extension and the bookkeeping all
// happen inside one critical section.
func (l *Locked) Alloc(size uint64) (Ref, error) {
	if size == 0 {
		return NilRef, ErrZeroSize
	}

	l.mu.Lock()
	l.stats.AllocCalls++

	if off, split, ok := l.list.search(size); ok {
		if split {
			l.stats.SplitCount++
		}
		l.stats.BytesAllocated += int64(l.bs.size(off))
		ref := l.bs.payload(off)
		l.mu.Unlock()
		return ref, nil
	}

	off, err := l.grow(size)
	if err != nil {
		l.mu.Unlock()
		return NilRef, err
	}
	l.bs.init(off, size)
	l.stats.BytesAllocated += int64(size)
	ref := l.bs.payload(off)
	l.mu.Unlock()
	return ref, nil
}

// grow extends the heap by one header plus size bytes. Caller holds the
// mutex, which also satisfies the growth primitive's non-reentrancy.
func (l *Locked) grow(size uint64) (uint64, error) {
	if size > math.MaxUint64-headerSize {
		return 0, ErrNoSpace
	}
	n := headerSize + size
	if l.onGrow != nil {
		l.onGrow(n)
	}
	off, err := l.heap.Extend(n)
	if err != nil {
		debugf("grow %d failed: %v", n, err)
		return 0, ErrNoSpace
	}
	l.stats.GrowCalls++
	l.stats.GrowBytes += int64(n)
	debugf("grow #%d: +%d bytes, heap now %d", l.stats.GrowCalls, n, l.heap.Size())
	return off, nil
}

// Free returns a block to the shared list, coalescing with adjacent
// free neighbours. NilRef is a no-op. ref must be a live reference
// previously returned by this allocator; anything else is undefined.
func (l *Locked) Free(ref Ref) {
	if ref == NilRef {
		return
	}
	off := l.bs.header(ref)

	l.mu.Lock()
	l.stats.FreeCalls++
	l.stats.BytesFreed += int64(l.bs.size(off))
	forward, backward := l.list.insert(off)
	if forward {
		l.stats.CoalesceForward++
	}
	if backward {
		l.stats.CoalesceBackward++
	}
	l.mu.Unlock()
}

// Bytes returns the payload view for a live reference.
func (l *Locked) Bytes(ref Ref) []byte {
	return l.bs.bytes(ref)
}

// Stats returns a snapshot of the allocator's counters.
func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close releases the heap reservation. All references die with it.
func (l *Locked) Close() error {
	return l.heap.Close()
}
