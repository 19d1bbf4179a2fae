package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// Block headers are stored in raw heap bytes in little-endian byte
// order. Go's standard library implementation is already optimized by
// the compiler; unsafe pointer variants provide no measurable benefit.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
