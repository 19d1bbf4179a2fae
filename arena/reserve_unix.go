//go:build unix && !linux

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps an anonymous private region of the given size.
// MAP_NORESERVE is linux-only; the BSDs and darwin overcommit anonymous
// private mappings by default, so the plain flags behave the same way.
func reserve(capacity int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
