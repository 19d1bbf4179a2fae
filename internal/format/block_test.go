package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderLayout(t *testing.T) {
	// The two u64 fields must exactly fill the header.
	assert.Equal(t, HeaderSize, NextFieldOffset+8, "header is size field + next field")
	assert.Equal(t, 0, SizeFieldOffset)
	assert.Equal(t, 8, NextFieldOffset)
}

func TestU64RoundTrip(t *testing.T) {
	buf := make([]byte, 32)

	PutU64(buf, 0, 0xDEADBEEFCAFEF00D)
	PutU64(buf, 8, NilOff)
	PutU64(buf, 16, 0)

	assert.Equal(t, uint64(0xDEADBEEFCAFEF00D), ReadU64(buf, 0))
	assert.Equal(t, NilOff, ReadU64(buf, 8))
	assert.Equal(t, uint64(0), ReadU64(buf, 16))
}

func TestU64LittleEndian(t *testing.T) {
	buf := make([]byte, 8)
	PutU64(buf, 0, 0x0102030405060708)
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf)
}
