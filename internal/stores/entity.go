package stores

import (
	"fmt"
	"slices"

	"github.com/dokzlo13/pagestore/internal/state"
)

// requireID fails with ErrNotHydrated before the first Load and with
// ErrNotFound when no entity carries id.
func requireID[T Entity](store *state.TypedStore[T], id string) error {
	if store.Status() != state.Hydrated {
		return fmt.Errorf("%s: %w", store.Key(), state.ErrNotHydrated)
	}
	if !slices.ContainsFunc(store.Snapshot(), func(item T) bool { return item.GetID() == id }) {
		return fmt.Errorf("%s/%s: %w", store.Key(), id, ErrNotFound)
	}
	return nil
}

// Find returns the first entity with the given id in the current collection.
func Find[T Entity](store *state.TypedStore[T], id string) (T, bool) {
	for _, item := range store.Snapshot() {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// UpdateByID applies fn to every entity with the given id and writes the
// collection back. Returns ErrNotFound, without writing, when none matches,
// and ErrNotHydrated before the first Load.
func UpdateByID[T Entity](store *state.TypedStore[T], id string, fn func(item *T)) error {
	if err := requireID(store, id); err != nil {
		return err
	}
	return store.Update(func(current []T) []T {
		for i := range current {
			if current[i].GetID() == id {
				fn(&current[i])
			}
		}
		return current
	})
}

// RemoveByID drops every entity with the given id, keeping the order of the rest.
// Returns ErrNotFound, without writing, when none matches.
func RemoveByID[T Entity](store *state.TypedStore[T], id string) error {
	if err := requireID(store, id); err != nil {
		return err
	}
	return store.Update(func(current []T) []T {
		return slices.DeleteFunc(current, func(item T) bool { return item.GetID() == id })
	})
}

// Add appends item and returns it.
func Add[T Entity](store *state.TypedStore[T], item T) (T, error) {
	err := store.Update(func(current []T) []T {
		return append(current, item)
	})
	return item, err
}
