//go:build linux

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps an anonymous private region of the given size.
// MAP_NORESERVE keeps large reservations cheap: pages are not backed
// until first touched, so a multi-gigabyte capacity costs nothing up
// front.
func reserve(capacity int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
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
