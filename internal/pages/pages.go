// Package pages is the catalog of dashboard pages and their collection registries.
package pages

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dokzlo13/pagestore/internal/pages/accounting"
	"github.com/dokzlo13/pagestore/internal/pages/garage"
	"github.com/dokzlo13/pagestore/internal/pages/pets"
	"github.com/dokzlo13/pagestore/internal/pages/shop"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

var (
	ErrUnknownPage = errors.New("unknown page")
	ErrKeyConflict = errors.New("storage key claimed by two pages")
)

// Page builds the registry of one page over a bucket, without hydrating it.
type Page struct {
	Name string
	New  func(kv.Bucket) *stores.Registry
}

var catalog = []Page{
	{Name: accounting.Page, New: func(b kv.Bucket) *stores.Registry { return accounting.New(b).Registry() }},
	{Name: garage.Page, New: func(b kv.Bucket) *stores.Registry { return garage.New(b).Registry() }},
	{Name: pets.Page, New: func(b kv.Bucket) *stores.Registry { return pets.New(b).Registry() }},
	{Name: shop.Page, New: func(b kv.Bucket) *stores.Registry { return shop.New(b).Registry() }},
}

func init() {
	if err := checkKeys(catalog); err != nil {
		panic(err)
	}
}

// checkKeys fails when two pages would own the same storage key.
func checkKeys(list []Page) error {
	owner := make(map[string]string)
	probe := kv.NewMemoryBucket("probe")
	for _, p := range list {
		r := p.New(probe)
		if r.Page() != p.Name {
			return fmt.Errorf("page %s registers under prefix %s", p.Name, r.Page())
		}
		for _, name := range r.Names() {
			key := r.Key(name)
			if other, ok := owner[key]; ok {
				return fmt.Errorf("%w: %s (%s, %s)", ErrKeyConflict, key, other, p.Name)
			}
			owner[key] = p.Name
		}
	}
	return nil
}

// Names returns the page names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, p := range catalog {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Page, error) {
	for _, p := range catalog {
		if p.Name == name {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, name)
}

// Open builds and hydrates the registry of the named page.
func Open(name string, bucket kv.Bucket) (*stores.Registry, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	r := p.New(bucket)
	if err := r.Hydrate(); err != nil {
		return nil, fmt.Errorf("failed to open page %s: %w", name, err)
	}
	return r, nil
}
