package state

import "slices"

// SeedFunc returns the default collection for a key that has never been stored.
// It must be deterministic and build fresh values on every call.
type SeedFunc[T any] func() []T

// NoSeed seeds an empty collection.
func NoSeed[T any]() SeedFunc[T] {
	return func() []T { return []T{} }
}

// Fixed seeds a copy of items. The copy is shallow: items holding slices or
// pointers should use a SeedFunc that builds them instead.
func Fixed[T any](items ...T) SeedFunc[T] {
	return func() []T { return slices.Clone(items) }
}
