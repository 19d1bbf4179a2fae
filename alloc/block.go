package alloc

import (
	"github.com/avinwick/tsalloc/arena"
	"github.com/avinwick/tsalloc/internal/format"
)

// headerSize is the per-block metadata overhead.
const headerSize = uint64(format.HeaderSize)

// blocks gives typed access to block headers stored in heap bytes.
// All offset arithmetic between references, headers and payloads is
// confined to this file; the free-list and allocator code above it only
// ever handles header offsets.
//
// Every access goes through the arena's full reservation, whose base
// and length never change, rather than the break-bounded view. Header
// reads therefore never observe the break and cannot race with another
// goroutine extending the heap.
type blocks struct {
	heap *arena.Arena
}

// size reads the usable payload size of the block at header offset off.
func (b blocks) size(off uint64) uint64 {
	return format.ReadU64(b.heap.Reservation(), int(off)+format.SizeFieldOffset)
}

func (b blocks) setSize(off, size uint64) {
	format.PutU64(b.heap.Reservation(), int(off)+format.SizeFieldOffset, size)
}

// next reads the free-list link of the block at header offset off.
func (b blocks) next(off uint64) uint64 {
	return format.ReadU64(b.heap.Reservation(), int(off)+format.NextFieldOffset)
}

func (b blocks) setNext(off, next uint64) {
	format.PutU64(b.heap.Reservation(), int(off)+format.NextFieldOffset, next)
}

// init stamps a fresh header: exact usable size, not linked anywhere.
func (b blocks) init(off, size uint64) {
	b.setSize(off, size)
	b.setNext(off, format.NilOff)
}

// end returns the offset of the first byte past the block, header and
// payload included. Two blocks x and y are physically adjacent exactly
// when end(x) == y.
func (b blocks) end(off uint64) uint64 {
	return off + headerSize + b.size(off)
}

// payload converts a header offset into the reference handed to callers.
func (b blocks) payload(off uint64) Ref {
	return Ref(off + headerSize)
}

// header recovers the header offset from a payload reference.
func (b blocks) header(ref Ref) uint64 {
	return uint64(ref) - headerSize
}

// bytes returns the payload view of an allocated block.
func (b blocks) bytes(ref Ref) []byte {
	off := b.header(ref)
	return b.heap.Reservation()[uint64(ref) : uint64(ref)+b.size(off)]
}
