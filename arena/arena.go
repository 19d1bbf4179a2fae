// Package arena provides the raw memory region underneath the heap
// allocator: a single contiguous reservation whose break only ever
// advances.
//
// The full capacity is reserved up front (anonymous mapping on unix and
// windows, plain slice elsewhere) so that the base of the region never
// moves. Extend only exposes more of the reservation; byte views handed
// out before a grow remain valid after it. Memory is never returned to
// the operating system before Close.
//
// Extend is deliberately not synchronized. Like the sbrk it stands in
// for, it is process-global and non-reentrant; callers must hold a lock
// around every call. The break-bounded views (Bytes, Size) observe the
// break and need that same serialization; Reservation does not, which
// is what allocator hot paths read through.
package arena

import "errors"

var (
	// ErrBadCapacity indicates a non-positive reservation size.
	ErrBadCapacity = errors.New("arena: capacity must be positive")

	// ErrHeapExhausted indicates that advancing the break would exceed
	// the reserved capacity.
	ErrHeapExhausted = errors.New("arena: heap exhausted")
)

// Arena is a byte-addressed heap region. Offsets into the region are
// stable for the lifetime of the arena.
type Arena struct {
	data    []byte // the full reservation
	brk     uint64 // bytes exposed so far
	release func() error
}

// Reserve maps a region of the given capacity and returns an arena with
// an empty break over it.
func Reserve(capacity int64) (*Arena, error) {
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	data, release, err := reserve(int(capacity))
	if err != nil {
		return nil, err
	}
	return &Arena{data: data, release: release}, nil
}

// Extend advances the break by n bytes and returns the offset of the
// newly exposed region. The region is zeroed and immediately usable.
// Not safe for concurrent use; callers must serialize.
func (a *Arena) Extend(n uint64) (uint64, error) {
	if n > uint64(len(a.data))-a.brk {
		return 0, ErrHeapExhausted
	}
	off := a.brk
	a.brk += n
	return off, nil
}

// Reservation returns the whole reserved region, exposed or not. Its
// base and length are fixed at Reserve time, so the slice may be read
// and written concurrently with Extend; callers must stay within
// offsets they obtained from it.
func (a *Arena) Reservation() []byte {
	return a.data
}

// Bytes returns the exposed portion of the region. The slice aliases
// the reservation; it grows on Extend but its base never moves. Reads
// the break, so it must be serialized with Extend.
func (a *Arena) Bytes() []byte {
	return a.data[:a.brk]
}

// Size returns the current break, the number of bytes exposed so far.
// Reads the break, so it must be serialized with Extend.
func (a *Arena) Size() uint64 {
	return a.brk
}

// Capacity returns the total reserved size.
func (a *Arena) Capacity() uint64 {
	return uint64(len(a.data))
}

// Close releases the reservation. The arena must not be used afterwards.
// Closing twice is a no-op.
func (a *Arena) Close() error {
	if a.release == nil {
		return nil
	}
	release := a.release
	a.release = nil
	a.data = nil
	a.brk = 0
	return release()
}
