package alloc

import s "github.com/bnclabs/gosettings"

// DefaultCapacity is the default heap reservation, 1GB. Reservations
// are lazy on every supported platform, so the default costs nothing
// until touched.
const DefaultCapacity = int64(1024 * 1024 * 1024)

// Defaultsettings for allocator construction.
//
// "arena.capacity" (int64, default: 1GB)
//
//	Total size of the heap reservation. The heap can grow up to this
//	limit; requests beyond it fail with ErrNoSpace.
func Defaultsettings() s.Settings {
	return s.Settings{
		"arena.capacity": DefaultCapacity,
	}
}
