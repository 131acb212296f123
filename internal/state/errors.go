package state

import (
	"errors"

	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

var (
	// ErrCorruptPersistedData means a stored blob is not a JSON array of the
	// store's entity type, or one of its date fields cannot be revived.
	ErrCorruptPersistedData = errors.New("corrupt persisted data")

	// ErrNotHydrated is returned by Update on a store that has not been loaded yet.
	ErrNotHydrated = errors.New("collection not hydrated")

	// ErrStorageUnavailable is the backend failure class; see kv.ErrUnavailable.
	ErrStorageUnavailable = kv.ErrUnavailable
)
