// Package alloc implements a thread-safe best-fit heap allocator over a
// single contiguous, growable memory region.
//
// # Overview
//
// The allocator manages raw heap bytes through free lists of variable
// sized blocks. Each block carries a 16-byte header immediately before
// its payload recording the usable size and, while free, a link to the
// next free block. Free lists are kept sorted by ascending heap offset
// and physically adjacent free blocks are merged on every insertion, so
// no list ever holds two neighbouring entries.
//
// Allocation is best-fit: the whole list is scanned for the smallest
// block that satisfies the request, stopping early on an exact match.
// When the chosen block leaves enough room for another header plus at
// least one payload byte, it is split and the tail re-enters the list.
// When no block fits, the heap is extended by exactly one header plus
// the requested size.
//
// # Variants
//
// Two variants share the free-list machinery and differ only in how
// state is shared:
//
// Locked: one free list for the whole process, one mutex spanning every
// Alloc and Free end to end. Blocks freed by any goroutine are reusable
// by every other.
//
// Partitioned: one free list per Owner, no lock around list operations,
// and a mutex scoped to just the heap-growth call. A block freed
// through owner Y's handle lands in Y's list even if owner X allocated
// it; X may grow the heap again instead of reusing it. That trade is
// deliberate: list operations never contend.
//
// # Usage
//
//	la, err := alloc.NewLocked(nil)
//	if err != nil {
//		return err
//	}
//	defer la.Close()
//
//	ref, err := la.Alloc(64)
//	if err != nil {
//		return err
//	}
//	copy(la.Bytes(ref), payload)
//	la.Free(ref)
//
// For the partitioned variant each goroutine asks for its own handle
// once and uses it exclusively:
//
//	pa, err := alloc.NewPartitioned(nil)
//	// in goroutine i:
//	h := pa.Owner(alloc.Owner(i))
//	ref, err := h.Alloc(64)
//
// # Configuration
//
// Constructors accept gosettings maps; see Defaultsettings for the
// available keys. Pass nil for the defaults.
//
// # Caller contract
//
// Free accepts only NilRef or a live reference previously returned by
// the same allocator (for the partitioned variant: by any handle of the
// same allocator). Double frees, foreign references and use after free
// are not detected; behaviour is undefined. Zero-size requests fail
// deterministically with ErrZeroSize and have no side effects. The heap
// only grows; memory returns to the operating system at Close.
package alloc
