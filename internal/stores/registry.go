// Package stores composes the typed collection stores of one page.
package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

var (
	ErrDuplicateCollection = errors.New("duplicate collection")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrInvalidEntity       = errors.New("invalid entity")
	ErrNotFound            = errors.New("entity not found")
)

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Entity is a record carrying a string identifier.
type Entity interface {
	GetID() string
}

// Collection is the type-erased view of one registered store,
// used where the entity type is not known statically (CLI, tooling).
type Collection interface {
	Name() string
	Key() string
	Status() state.Status
	Hydrate() error
	Len() int
	// Encoded returns the persisted form of the current collection.
	Encoded() (string, error)
	// Stored returns the value under the collection key exactly as stored.
	Stored() (string, bool, error)
	// Append decodes one JSON object and appends it, assigning a UUID when it
	// has no "id". Returns the entity's id.
	Append(raw []byte) (string, error)
	// Remove drops every entity with the given id. Returns false if none matched.
	Remove(id string) (bool, error)
	// Reset deletes the stored collection and hydrates again, which reseeds it.
	Reset() error
}

// Registry provides centralized access to the typed stores of one page.
// Every key it hands out is "<page>-<name>".
type Registry struct {
	bucket kv.Bucket
	page   string

	mu          sync.RWMutex
	collections map[string]Collection
	order       []string
}

// NewRegistry creates an empty registry for page over bucket.
func NewRegistry(bucket kv.Bucket, page string) *Registry {
	return &Registry{
		bucket:      bucket,
		page:        page,
		collections: make(map[string]Collection),
	}
}

// Page returns the page name used as key prefix.
func (r *Registry) Page() string {
	return r.page
}

// Key returns the storage key for a collection name.
func (r *Registry) Key(name string) string {
	return r.page + "-" + name
}

// Register adds a typed store for name. Names are unique per registry.
func Register[T Entity](r *Registry, name string, codec *state.Codec[T], seed state.SeedFunc[T]) (*state.TypedStore[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCollection, r.Key(name))
	}

	store := state.NewTypedStore(r.bucket, r.Key(name), codec, seed)
	r.collections[name] = &collection[T]{name: name, store: store}
	r.order = append(r.order, name)

	return store, nil
}

// MustRegister is Register for page constructors with static collection names.
func MustRegister[T Entity](r *Registry, name string, codec *state.Codec[T], seed state.SeedFunc[T]) *state.TypedStore[T] {
	store, err := Register(r, name, codec, seed)
	if err != nil {
		panic(err)
	}
	return store
}

// Hydrate loads every collection in registration order.
func (r *Registry) Hydrate() error {
	collections := r.Collections()
	for _, c := range collections {
		if err := c.Hydrate(); err != nil {
			return err
		}
	}
	log.Debug().Str("page", r.page).Int("collections", len(collections)).Msg("Hydrated page")
	return nil
}

// Names returns collection names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Collections returns the collections in registration order.
func (r *Registry) Collections() []Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Collection, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.collections[name])
	}
	return out
}

// Collection returns the collection registered under name.
func (r *Registry) Collection(name string) (Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, r.Key(name))
	}
	return c, nil
}

// Reset clears and reseeds every collection of the page.
func (r *Registry) Reset() error {
	for _, c := range r.Collections() {
		if err := c.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// collection adapts a TypedStore to the Collection interface.
type collection[T Entity] struct {
	name  string
	store *state.TypedStore[T]
}

func (c *collection[T]) Name() string         { return c.name }
func (c *collection[T]) Key() string          { return c.store.Key() }
func (c *collection[T]) Status() state.Status { return c.store.Status() }
func (c *collection[T]) Len() int             { return len(c.store.Snapshot()) }

func (c *collection[T]) Hydrate() error {
	_, err := c.store.Load()
	return err
}

func (c *collection[T]) Encoded() (string, error) {
	return c.store.Codec().Encode(c.store.Snapshot())
}

func (c *collection[T]) Stored() (string, bool, error) {
	return c.store.Raw()
}

func (c *collection[T]) Append(raw []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return "", fmt.Errorf("%w: expected a JSON object", ErrInvalidEntity)
	}

	var id string
	if rawID, ok := fields["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err != nil {
			return "", fmt.Errorf("%w: id must be a string", ErrInvalidEntity)
		}
	}
	if id == "" {
		id = NewID()
		fields["id"], _ = json.Marshal(id)
		raw, _ = json.Marshal(fields)
	}

	entity, err := c.store.Codec().DecodeOne(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	if _, err := Add(c.store, entity); err != nil {
		return "", err
	}
	return entity.GetID(), nil
}

func (c *collection[T]) Remove(id string) (bool, error) {
	err := RemoveByID(c.store, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *collection[T]) Reset() error {
	if _, err := c.store.Clear(); err != nil {
		return err
	}
	return c.Hydrate()
}
