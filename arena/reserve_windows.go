//go:build windows

package arena

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserve commits an anonymous region of the given size. Windows only
// charges commit against the pagefile; pages are materialized on first
// touch, so large capacities remain cheap in practice.
func reserve(capacity int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(capacity),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), capacity)
	release := func() error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, release, nil
}
