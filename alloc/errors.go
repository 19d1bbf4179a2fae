package alloc

import "errors"

var (
	// ErrZeroSize indicates a zero-size allocation request. Rejected
	// deterministically before any lock is taken or state is touched.
	ErrZeroSize = errors.New("alloc: zero-size request")

	// ErrNoSpace indicates that no free block fits and extending the
	// heap failed. The caller may free memory and retry; the allocator
	// itself never retries.
	ErrNoSpace = errors.New("alloc: heap exhausted")
)
