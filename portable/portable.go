// Package portable holds the flattened output of a registry: a dense table
// of type descriptions in which every reference is an id into the same
// table.
//
// A Registry is immutable once constructed and safe for concurrent readers.
// Lookups never fail; absence is reported with a false result.
package portable

import (
	"strconv"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/registry"
	"github.com/wippyai/typeinfo/schema"
)

// Type is a type description whose references are table ids.
type Type = schema.Type[uint32]

// Entry pairs a type with its id.
type Entry struct {
	Type Type
	ID   uint32
}

// Registry is a read-only table of types indexed by id.
type Registry struct {
	types []Type
}

// New drains reg in ascending symbol order. It panics if any symbol was
// reserved but never filled; use TryNew to get that as an error.
func New(reg *registry.Registry) *Registry {
	r, err := TryNew(reg)
	if err != nil {
		panic(err)
	}
	return r
}

// TryNew is like New but returns an error for an incomplete registry.
func TryNew(reg *registry.Registry) (*Registry, error) {
	if missing := reg.Incomplete(); len(missing) > 0 {
		identity, _ := reg.Identity(missing[0])
		return nil, errors.Incomplete(uint32(missing[0]), identity)
	}
	types := make([]Type, 0, reg.Len())
	for _, ty := range reg.Types() {
		types = append(types, *ty)
	}
	return &Registry{types: types}, nil
}

// FromTypes wraps types as a table after checking every reference.
// types[i] gets id i; the slice is not copied.
func FromTypes(types []Type) (*Registry, error) {
	r := &Registry{types: types}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve returns the type with the given id.
// The returned value is shared and must not be modified.
func (r *Registry) Resolve(id uint32) (*Type, bool) {
	if int(id) >= len(r.types) {
		return nil, false
	}
	return &r.types[id], true
}

// Len returns the number of types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Types returns the table as entries in id order.
func (r *Registry) Types() []Entry {
	out := make([]Entry, len(r.types))
	for i, t := range r.types {
		out[i] = Entry{ID: uint32(i), Type: t}
	}
	return out
}

// Validate checks that every reference points into the table and every
// definition is present.
func (r *Registry) Validate() error {
	n := uint32(len(r.types))
	for i := range r.types {
		t := &r.types[i]
		if t.Def == nil {
			return errors.New(errors.PhasePortable, errors.KindInvalidData).
				Path("types", strconv.Itoa(i)).
				Detail("missing definition").
				Build()
		}
		for _, ref := range schema.Refs(*t) {
			if ref >= n {
				return errors.New(errors.PhasePortable, errors.KindOutOfBounds).
					Path("types", strconv.Itoa(i)).
					Value(ref).
					Detail("reference %d out of bounds (length %d)", ref, n).
					Build()
			}
		}
	}
	return nil
}

// Find returns the id of the first type whose path renders as name,
// for example "app::Account".
func (r *Registry) Find(name string) (uint32, bool) {
	for i := range r.types {
		if !r.types[i].Path.IsEmpty() && r.types[i].Path.String() == name {
			return uint32(i), true
		}
	}
	return 0, false
}
