package portable

import (
	"github.com/wippyai/typeinfo/codec"
	"github.com/wippyai/typeinfo/interner"
)

// Builder assembles a table directly from id-based types.
// Structurally equal types are stored once.
type Builder struct {
	seen  *interner.Interner[string]
	types []Type
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: interner.New[string]()}
}

// Register adds ty unless an equal type is already present and returns
// its id.
func (b *Builder) Register(ty Type) uint32 {
	inserted, sym := b.seen.InternOrGet(string(codec.EncodeType(&ty)))
	if inserted {
		b.types = append(b.types, ty)
	}
	return sym.Index()
}

// NextID returns the id the next newly registered type will get.
// A type may refer to itself by registering with this id.
func (b *Builder) NextID() uint32 {
	return uint32(len(b.types))
}

// Get returns the type registered under id.
func (b *Builder) Get(id uint32) (*Type, bool) {
	if int(id) >= len(b.types) {
		return nil, false
	}
	return &b.types[id], true
}

// Finish returns the table. The builder must not be used afterwards.
func (b *Builder) Finish() *Registry {
	return &Registry{types: b.types}
}
