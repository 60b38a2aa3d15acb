// Package repository defines the review data store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxGames bounds how many games keep a marker set in memory.
func WithMaxGames(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxGames = n
		}
	}
}

// WithMaxSurfaceEvents bounds how many events keep a surface cache.
func WithMaxSurfaceEvents(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxSurfaces = n
		}
	}
}
