package alloc

import (
	"math"
	"sync"
	"sync/atomic"

	s "github.com/bnclabs/gosettings"

	"github.com/avinwick/tsalloc/arena"
)

// Partitioned is the thread-partitioned variant: every Owner gets its
// own free list and operates on it without any lock. The only shared
// mutable state is the heap extent, guarded by a mutex held for just
// the growth call.
//
// Freeing through owner Y's handle puts the block on Y's list no matter
// who allocated it. The allocating owner cannot reuse that region and
// may grow the heap instead; that is the price of lock-free lists.
type Partitioned struct {
	heap *arena.Arena
	bs   blocks

	// growMu serializes the non-reentrant heap-growth call. It is never
	// held around list operations.
	growMu sync.Mutex

	// mu guards the owners map only, not the lists behind the handles.
	mu     sync.RWMutex
	owners map[Owner]*OwnerAllocator

	// Test hook: called before every heap extension (nil in production).
	onGrow func(n uint64)
}

// NewPartitioned creates a partitioned allocator. Pass nil settings for
// Defaultsettings.
func NewPartitioned(setts s.Settings) (*Partitioned, error) {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	heap, err := arena.Reserve(setts.Int64("arena.capacity"))
	if err != nil {
		return nil, err
	}
	return &Partitioned{
		heap:   heap,
		bs:     blocks{heap},
		owners: make(map[Owner]*OwnerAllocator),
	}, nil
}

// Owner returns the handle owning id's free list, creating it on first
// use. Handles are cached; asking again for the same id returns the
// same handle. A handle must only be used by one goroutine at a time.
func (p *Partitioned) Owner(id Owner) *OwnerAllocator {
	p.mu.RLock()
	oa := p.owners[id]
	p.mu.RUnlock()
	if oa != nil {
		return oa
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if oa = p.owners[id]; oa == nil {
		oa = &OwnerAllocator{p: p, list: newFreeList(p.heap)}
		p.owners[id] = oa
	}
	return oa
}

// grow extends the heap by one header plus size bytes, holding the
// growth mutex for just that call.
func (p *Partitioned) grow(size uint64) (uint64, error) {
	if size > math.MaxUint64-headerSize {
		return 0, ErrNoSpace
	}
	n := headerSize + size

	p.growMu.Lock()
	if p.onGrow != nil {
		p.onGrow(n)
	}
	off, err := p.heap.Extend(n)
	p.growMu.Unlock()

	if err != nil {
		debugf("grow %d failed: %v", n, err)
		return 0, ErrNoSpace
	}
	return off, nil
}

// Stats sums the counters of every owner handle. Safe to call while
// owners are running; each counter is read atomically, but the totals
// only line up exactly once the owners are quiescent.
func (p *Partitioned) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var st Stats
	for _, oa := range p.owners {
		st.add(oa.stats.snapshot())
	}
	return st
}

// Close releases the heap reservation. All references and handles die
// with it.
func (p *Partitioned) Close() error {
	return p.heap.Close()
}

// ownerStats mirrors Stats with atomic counters. The owning goroutine
// is the only writer; the atomics exist so the aggregate Stats call
// can read a handle's numbers while its owner is mid-operation.
type ownerStats struct {
	allocCalls       atomic.Int64
	freeCalls        atomic.Int64
	growCalls        atomic.Int64
	growBytes        atomic.Int64
	splitCount       atomic.Int64
	coalesceForward  atomic.Int64
	coalesceBackward atomic.Int64
	bytesAllocated   atomic.Int64
	bytesFreed       atomic.Int64
}

func (os *ownerStats) snapshot() Stats {
	return Stats{
		AllocCalls:       os.allocCalls.Load(),
		FreeCalls:        os.freeCalls.Load(),
		GrowCalls:        os.growCalls.Load(),
		GrowBytes:        os.growBytes.Load(),
		SplitCount:       os.splitCount.Load(),
		CoalesceForward:  os.coalesceForward.Load(),
		CoalesceBackward: os.coalesceBackward.Load(),
		BytesAllocated:   os.bytesAllocated.Load(),
		BytesFreed:       os.bytesFreed.Load(),
	}
}

// OwnerAllocator is one owner's view of a Partitioned allocator. It
// implements the same surface as Locked but touches only its own free
// list, so none of its operations take a lock except the growth call.
type OwnerAllocator struct {
	p     *Partitioned
	list  *freeList
	stats ownerStats
}

// Alloc returns a reference usable for exactly size bytes, satisfied
// from this owner's list or, on a miss, from fresh heap.
func (oa *OwnerAllocator) Alloc(size uint64) (Ref, error) {
	if size == 0 {
		return NilRef, ErrZeroSize
	}
	oa.stats.allocCalls.Add(1)

	if off, split, ok := oa.list.search(size); ok {
		if split {
			oa.stats.splitCount.Add(1)
		}
		oa.stats.bytesAllocated.Add(int64(oa.p.bs.size(off)))
		return oa.p.bs.payload(off), nil
	}

	off, err := oa.p.grow(size)
	if err != nil {
		return NilRef, err
	}
	// The new region is exclusively ours; the header can be stamped
	// outside the growth lock.
	oa.p.bs.init(off, size)
	oa.stats.growCalls.Add(1)
	oa.stats.growBytes.Add(int64(headerSize + size))
	oa.stats.bytesAllocated.Add(int64(size))
	return oa.p.bs.payload(off), nil
}

// Free puts the block on this owner's list regardless of which owner
// allocated it. NilRef is a no-op. ref must be a live reference from
// this Partitioned allocator; anything else is undefined.
func (oa *OwnerAllocator) Free(ref Ref) {
	if ref == NilRef {
		return
	}
	off := oa.p.bs.header(ref)

	oa.stats.freeCalls.Add(1)
	oa.stats.bytesFreed.Add(int64(oa.p.bs.size(off)))
	forward, backward := oa.list.insert(off)
	if forward {
		oa.stats.coalesceForward.Add(1)
	}
	if backward {
		oa.stats.coalesceBackward.Add(1)
	}
}

// Bytes returns the payload view for a live reference.
func (oa *OwnerAllocator) Bytes(ref Ref) []byte {
	return oa.p.bs.bytes(ref)
}

// Stats returns a snapshot of this owner's counters.
func (oa *OwnerAllocator) Stats() Stats {
	return oa.stats.snapshot()
}
