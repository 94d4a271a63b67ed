// Package registry turns a live graph of schema.MetaType references into a
// dense table of schema.Type[uint32] values.
//
// Registration is depth-first and cycle-safe: an identity's symbol is
// reserved before its description is expanded, so a reference back to a
// type that is still being expanded resolves to the reserved symbol.
//
// A Registry is owned by one goroutine for the whole registration pass.
package registry

import (
	"iter"

	"go.uber.org/zap"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/interner"
	"github.com/wippyai/typeinfo/schema"
)

// slot holds the stored type of one symbol. It is reserved when the
// identity is first interned and filled once expansion finishes.
type slot struct {
	identity any
	ty       *schema.Type[uint32]
}

// Registry collects type descriptions and interns identities and strings.
type Registry struct {
	types   *interner.Interner[any]
	strings *interner.Interner[string]
	log     *zap.Logger
	marker  any
	slots   []slot
	depth   int
	params  ParamPolicy
}

// New creates an empty registry.
func New(opts Options) *Registry {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	marker := opts.Marker
	if marker == nil {
		marker = schema.MarkerID
	}
	return &Registry{
		types:   interner.New[any](),
		strings: interner.New[string](),
		log:     log,
		marker:  marker,
		params:  opts.Params,
	}
}

// NewWithDefaults creates an empty registry with default options.
func NewWithDefaults() *Registry {
	return New(DefaultOptions())
}

// Register adds the type referenced by mt and every type reachable from
// it, returning mt's symbol. The thunk of an identity is called at most
// once. Registering a known identity returns its symbol unchanged.
//
// Identities must be comparable; distinct types must have distinct
// identities. A thunk that panics leaves its symbol reserved but unfilled
// and the panic propagates.
func (r *Registry) Register(mt schema.MetaType) interner.Symbol {
	id := mt.Identity()
	inserted, sym := r.types.InternOrGet(id)
	if !inserted {
		return sym
	}
	r.slots = append(r.slots, slot{identity: id})
	r.log.Debug("type reserved",
		zap.Uint32("symbol", uint32(sym)),
		zap.Any("identity", id),
		zap.Int("depth", r.depth))

	r.depth++
	completed := false
	defer func() {
		r.depth--
		if !completed {
			r.log.Error("type expansion aborted",
				zap.Uint32("symbol", uint32(sym)),
				zap.Any("identity", id))
		}
	}()

	ty := mt.Resolve()
	if ty.Def == nil {
		panic(errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Path(ty.Path...).
			Value(id).
			Detail("type %v resolved without a definition", id).
			Build())
	}

	stored := schema.MapType(r.prepare(ty), r.ref, r.intern)
	r.slots[sym.Index()].ty = &stored
	completed = true

	r.log.Debug("type registered",
		zap.Uint32("symbol", uint32(sym)),
		zap.String("kind", stored.Def.Kind().String()),
		zap.String("path", stored.Path.String()))
	return sym
}

// RegisterAll registers each reference in order.
func (r *Registry) RegisterAll(mts ...schema.MetaType) []interner.Symbol {
	syms := make([]interner.Symbol, len(mts))
	for i, mt := range mts {
		syms[i] = r.Register(mt)
	}
	return syms
}

// RegisterString interns s in the string table.
func (r *Registry) RegisterString(s string) interner.Symbol {
	_, sym := r.strings.InternOrGet(s)
	return sym
}

// Lookup returns the symbol of a registered identity.
func (r *Registry) Lookup(identity any) (interner.Symbol, bool) {
	return r.types.Get(identity)
}

// Len returns the number of reserved symbols.
func (r *Registry) Len() int {
	return len(r.slots)
}

// Strings returns the interned strings in symbol order.
func (r *Registry) Strings() []string {
	return r.strings.Elements()
}

// Resolve returns the stored type of sym. It reports false for unknown
// symbols and for symbols whose expansion never finished.
func (r *Registry) Resolve(sym interner.Symbol) (*schema.Type[uint32], bool) {
	if !sym.IsValid() || int(sym.Index()) >= len(r.slots) {
		return nil, false
	}
	ty := r.slots[sym.Index()].ty
	return ty, ty != nil
}

// Incomplete returns the symbols that were reserved but never filled.
func (r *Registry) Incomplete() []interner.Symbol {
	var out []interner.Symbol
	for i, s := range r.slots {
		if s.ty == nil {
			out = append(out, interner.FromIndex(uint32(i)))
		}
	}
	return out
}

// Identity returns the identity registered under sym.
func (r *Registry) Identity(sym interner.Symbol) (any, bool) {
	return r.types.Resolve(sym)
}

// Types yields the filled slots as 0-based ids in ascending order.
func (r *Registry) Types() iter.Seq2[uint32, *schema.Type[uint32]] {
	return func(yield func(uint32, *schema.Type[uint32]) bool) {
		for i, s := range r.slots {
			if s.ty == nil {
				continue
			}
			if !yield(uint32(i), s.ty) {
				return
			}
		}
	}
}

func (r *Registry) ref(mt schema.MetaType) uint32 {
	return r.Register(mt).Index()
}

func (r *Registry) intern(s string) string {
	if s == "" {
		return s
	}
	sym := r.RegisterString(s)
	v, _ := r.strings.Resolve(sym)
	return v
}

// prepare applies the parameter policy and drops marker fields. It never
// modifies the thunk's result in place.
func (r *Registry) prepare(ty schema.Type[schema.MetaType]) schema.Type[schema.MetaType] {
	if r.params == EraseParams && len(ty.Params) > 0 {
		params := make([]schema.TypeParameter[schema.MetaType], len(ty.Params))
		for i, p := range ty.Params {
			params[i] = schema.ErasedParameter[schema.MetaType](p.Name)
		}
		ty.Params = params
	}
	switch d := ty.Def.(type) {
	case *schema.Composite[schema.MetaType]:
		if fields, changed := r.dropMarkers(d.Fields); changed {
			ty.Def = &schema.Composite[schema.MetaType]{Fields: fields}
		}
	case *schema.VariantDef[schema.MetaType]:
		var variants []schema.Variant[schema.MetaType]
		for i, v := range d.Variants {
			fields, changed := r.dropMarkers(v.Fields)
			if !changed {
				continue
			}
			if variants == nil {
				variants = append([]schema.Variant[schema.MetaType](nil), d.Variants...)
			}
			variants[i].Fields = fields
		}
		if variants != nil {
			ty.Def = &schema.VariantDef[schema.MetaType]{Variants: variants}
		}
	}
	return ty
}

func (r *Registry) dropMarkers(fields []schema.Field[schema.MetaType]) ([]schema.Field[schema.MetaType], bool) {
	var out []schema.Field[schema.MetaType]
	changed := false
	for i, f := range fields {
		if f.Type.Identity() == r.marker {
			if !changed {
				out = append(out, fields[:i]...)
				changed = true
			}
			continue
		}
		if changed {
			out = append(out, f)
		}
	}
	return out, changed
}
