package alloc

// Ref locates an allocated payload: its offset from the base of the
// heap region. The block header sits in the 16 bytes before it.
type Ref uint64

// NilRef is the failure sentinel and the accepted no-op argument to
// Free. Payload offset zero cannot exist because the first header
// occupies the start of the region.
const NilRef Ref = 0

// Owner identifies the logical thread owning a free list in the
// partitioned variant. Callers assign their own identities; a handle
// obtained for an Owner must only ever be used by one goroutine at a
// time.
type Owner uint64
