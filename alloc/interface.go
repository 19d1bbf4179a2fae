package alloc

// Allocator is the operation surface shared by both variants.
//
// Implementations:
//   - Locked: one shared free list behind one mutex
//   - OwnerAllocator: a single owner's view of a Partitioned allocator
type Allocator interface {
	// Alloc returns a reference to a region usable for exactly size
	// bytes of caller data. Zero-size requests fail with ErrZeroSize;
	// heap exhaustion fails with ErrNoSpace.
	Alloc(size uint64) (Ref, error)

	// Free returns a block to a free list. NilRef is a no-op. Any other
	// value must be a live reference returned by this allocator.
	Free(ref Ref)

	// Bytes returns the payload view for a live reference. The slice
	// stays valid until the reference is freed.
	Bytes(ref Ref) []byte

	// Stats returns a snapshot of the allocator's counters.
	Stats() Stats
}
