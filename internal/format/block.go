package format

// Block header layout for the heap allocator.
//
// Every block of heap memory, free or allocated, is described by a
// fixed-size header stored immediately before its payload bytes:
//
//	Offset  Size  Description
//	0x00    8     Usable payload size in bytes, excluding the header.
//	0x08    8     Heap offset of the next free block's header, or NilOff.
//	              Meaningless while the block is allocated.
//	0x10    ...   Payload (usable size bytes, contiguous).

const (
	// HeaderSize is the fixed size of a block header in bytes.
	HeaderSize = 16

	// SizeFieldOffset is the header-relative offset of the usable-size field.
	SizeFieldOffset = 0

	// NextFieldOffset is the header-relative offset of the next-free-block field.
	NextFieldOffset = 8
)

// NilOff marks the absence of a block: the tail of a free list, or the
// next field of a block that is not linked into any list. Offset 0 is a
// valid block position, so the all-ones value is used instead.
const NilOff = ^uint64(0)
