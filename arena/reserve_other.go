//go:build !unix && !windows

package arena

// reserve falls back to a garbage-collected slice on platforms without
// an anonymous mapping primitive. The full capacity is allocated
// eagerly, so keep capacities modest here.
func reserve(capacity int) ([]byte, func() error, error) {
	data := make([]byte, capacity)
	return data, func() error { return nil }, nil
}
