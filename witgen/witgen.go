package witgen

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/portable"
	"github.com/wippyai/typeinfo/schema"
)

// Options configures WIT generation.
type Options struct {
	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
	// Package is the WIT package name, e.g. "typeinfo:types".
	Package string
	// Interface names the interface holding the definitions.
	Interface string
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Package:   "typeinfo:types",
		Interface: "types",
	}
}

// Package is the WIT rendition of a portable table.
type Package struct {
	Name      string
	Interface string
	// Types holds the named definitions, dependencies first.
	Types []*wit.TypeDef
	byID  []wit.Type
}

// Lookup returns the WIT type generated for a portable id. Types that
// were skipped during generation report false.
func (p *Package) Lookup(id uint32) (wit.Type, bool) {
	if int(id) >= len(p.byID) || p.byID[id] == nil {
		return nil, false
	}
	return p.byID[id], true
}

// Generate converts every type in reg with DefaultOptions.
func Generate(reg *portable.Registry) (*Package, error) {
	return GenerateWithOptions(reg, DefaultOptions())
}

// GenerateWithOptions converts every type in reg. Types used only as the
// bit order of a bit sequence, and empty types, have no WIT form of their
// own and are skipped. A type that refers to an empty type is an error,
// except for a unit result payload.
func GenerateWithOptions(reg *portable.Registry, opts Options) (*Package, error) {
	if reg == nil {
		return nil, errors.InvalidInput(errors.PhaseExport, "nil registry")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultOptions()
	if opts.Package == "" {
		opts.Package = def.Package
	}
	if opts.Interface == "" {
		opts.Interface = def.Interface
	}

	g := &generator{
		reg:   reg,
		log:   log,
		state: make([]visit, reg.Len()),
		types: make([]wit.Type, reg.Len()),
		names: make(map[string]int),
	}
	skip := skipped(reg)
	for id := range uint32(reg.Len()) {
		if skip[id] {
			log.Debug("wit type skipped", zap.Uint32("id", id))
			continue
		}
		if _, err := g.resolve(id); err != nil {
			return nil, err
		}
	}
	log.Debug("wit generated",
		zap.Int("types", reg.Len()),
		zap.Int("definitions", len(g.defs)))

	return &Package{
		Name:      opts.Package,
		Interface: opts.Interface,
		Types:     g.defs,
		byID:      g.types,
	}, nil
}

// skipped marks the ids that get no WIT definition: types only reachable
// as a bit order, which WIT bit lists drop, and empty types.
func skipped(reg *portable.Registry) []bool {
	used := make([]bool, reg.Len())
	order := make([]bool, reg.Len())
	for _, e := range reg.Types() {
		if bits, ok := e.Type.Def.(*schema.BitSequence[uint32]); ok {
			mark(used, bits.Store)
			mark(order, bits.Order)
			continue
		}
		for _, ref := range schema.Refs(portable.Type{Def: e.Type.Def}) {
			mark(used, ref)
		}
	}
	skip := make([]bool, reg.Len())
	for _, e := range reg.Types() {
		skip[e.ID] = (order[e.ID] && !used[e.ID]) || isEmpty(&e.Type)
	}
	return skip
}

func mark(set []bool, id uint32) {
	if int(id) < len(set) {
		set[id] = true
	}
}

// isEmpty reports whether ty has no WIT form: the component model has no
// empty records, tuples, enums or variants.
func isEmpty(ty *portable.Type) bool {
	switch d := ty.Def.(type) {
	case *schema.Composite[uint32]:
		return len(d.Fields) == 0
	case *schema.VariantDef[uint32]:
		return len(d.Variants) == 0
	case *schema.Tuple[uint32]:
		return len(d.Elems) == 0
	}
	return false
}

type visit uint8

const (
	unvisited visit = iota
	visiting
	visited
)

type generator struct {
	reg   *portable.Registry
	log   *zap.Logger
	state []visit
	types []wit.Type
	names map[string]int
	defs  []*wit.TypeDef
	stack []uint32
}

func (g *generator) resolve(id uint32) (wit.Type, error) {
	if int(id) >= len(g.state) {
		return nil, errors.OutOfBounds(errors.PhaseExport, g.path(), int(id), len(g.state))
	}
	switch g.state[id] {
	case visited:
		return g.types[id], nil
	case visiting:
		return nil, g.recursive(id)
	}
	ty, _ := g.reg.Resolve(id)
	if ty.Def == nil {
		return nil, errors.InvalidData(errors.PhaseExport, g.path(), "type "+strconv.Itoa(int(id))+" has no definition")
	}

	g.state[id] = visiting
	g.stack = append(g.stack, id)
	out, err := g.convert(id, ty)
	g.stack = g.stack[:len(g.stack)-1]
	if err != nil {
		return nil, err
	}
	g.state[id] = visited
	g.types[id] = out
	return out, nil
}

func (g *generator) path() []string {
	out := make([]string, len(g.stack))
	for i, id := range g.stack {
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	return out
}

func (g *generator) recursive(id uint32) error {
	name := strconv.FormatUint(uint64(id), 10)
	if ty, ok := g.reg.Resolve(id); ok && !ty.Path.IsEmpty() {
		name = ty.Path.String()
	}
	return errors.New(errors.PhaseExport, errors.KindUnsupported).
		Path(g.path()...).
		TypeName(name).
		Value(id).
		Detail("recursive type cannot be expressed in WIT").
		Build()
}

func (g *generator) empty(id uint32, ty *portable.Type) error {
	name := strconv.FormatUint(uint64(id), 10)
	if !ty.Path.IsEmpty() {
		name = ty.Path.String()
	}
	return errors.New(errors.PhaseExport, errors.KindUnsupported).
		Path(g.path()...).
		TypeName(name).
		Value(id).
		Detail("empty %s cannot be expressed in WIT", ty.Def.Kind()).
		Build()
}

func (g *generator) convert(id uint32, ty *portable.Type) (wit.Type, error) {
	if isEmpty(ty) {
		return nil, g.empty(id, ty)
	}
	switch d := ty.Def.(type) {
	case *schema.Primitive:
		if !d.Prim.Valid() {
			return nil, errors.InvalidData(errors.PhaseExport, g.path(), "unknown primitive "+d.Prim.String())
		}
		return primitive(d.Prim), nil
	case *schema.Compact[uint32]:
		return g.resolve(d.Inner)
	case *schema.Sequence[uint32]:
		return g.list(d.Elem)
	case *schema.Array[uint32]:
		return g.list(d.Elem)
	case *schema.BitSequence[uint32]:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, nil
	case *schema.Tuple[uint32]:
		types, err := g.resolveAll(d.Elems)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
	case *schema.Composite[uint32]:
		return g.composite(id, ty, d)
	case *schema.VariantDef[uint32]:
		return g.variant(id, ty, d)
	}
	return nil, errors.Unsupported(errors.PhaseExport, fmt.Sprintf("definition %T", ty.Def))
}

func (g *generator) list(elem uint32) (wit.Type, error) {
	t, err := g.resolve(elem)
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.List{Type: t}}, nil
}

func (g *generator) resolveAll(ids []uint32) ([]wit.Type, error) {
	out := make([]wit.Type, len(ids))
	for i, id := range ids {
		t, err := g.resolve(id)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (g *generator) composite(id uint32, ty *portable.Type, d *schema.Composite[uint32]) (wit.Type, error) {
	named := len(d.Fields) > 0 && d.Fields[0].IsNamed()
	if !named {
		var name string
		if !ty.Path.IsEmpty() {
			name = g.name(id, ty)
		}
		types := make([]uint32, len(d.Fields))
		for i, f := range d.Fields {
			types[i] = f.Type
		}
		elems, err := g.resolveAll(types)
		if err != nil {
			return nil, err
		}
		kind := &wit.Tuple{Types: elems}
		if ty.Path.IsEmpty() {
			return &wit.TypeDef{Kind: kind}, nil
		}
		return g.define(name, kind, ty.Docs), nil
	}

	name := g.name(id, ty)
	fields, err := g.fields(d.Fields)
	if err != nil {
		return nil, err
	}
	return g.define(name, &wit.Record{Fields: fields}, ty.Docs), nil
}

func (g *generator) fields(in []schema.Field[uint32]) ([]wit.Field, error) {
	out := make([]wit.Field, len(in))
	for i, f := range in {
		t, err := g.resolve(f.Type)
		if err != nil {
			return nil, err
		}
		name := "f" + strconv.Itoa(i)
		if f.IsNamed() {
			name = kebab(*f.Name)
		}
		out[i] = wit.Field{Name: name, Type: t, Docs: g.fieldDocs(f)}
	}
	return out, nil
}

// fieldDocs carries the field's docs plus the length of fixed arrays, which
// WIT can only express as lists.
func (g *generator) fieldDocs(f schema.Field[uint32]) wit.Docs {
	lines := append([]string(nil), f.Docs...)
	if ty, ok := g.reg.Resolve(f.Type); ok {
		if arr, ok := ty.Def.(*schema.Array[uint32]); ok {
			lines = append(lines, "Fixed length: "+strconv.FormatUint(uint64(arr.Len), 10)+".")
		}
	}
	return docs(lines)
}

func (g *generator) variant(id uint32, ty *portable.Type, d *schema.VariantDef[uint32]) (wit.Type, error) {
	if t, ok, err := g.builtin(ty, d); ok || err != nil {
		return t, err
	}

	name := g.name(id, ty)
	plain := true
	for _, v := range d.Variants {
		if len(v.Fields) > 0 {
			plain = false
			break
		}
	}
	if plain {
		cases := make([]wit.EnumCase, len(d.Variants))
		for i, v := range d.Variants {
			cases[i] = wit.EnumCase{Name: kebab(v.Name), Docs: docs(v.Docs)}
		}
		return g.define(name, &wit.Enum{Cases: cases}, ty.Docs), nil
	}

	cases := make([]wit.Case, len(d.Variants))
	for i, v := range d.Variants {
		payload, err := g.payload(name, v)
		if err != nil {
			return nil, err
		}
		cases[i] = wit.Case{Name: kebab(v.Name), Type: payload, Docs: docs(v.Docs)}
	}
	return g.define(name, &wit.Variant{Cases: cases}, ty.Docs), nil
}

// payload converts a variant's fields to a single case type. Named fields
// get a record of their own, named after the variant.
func (g *generator) payload(parent string, v schema.Variant[uint32]) (wit.Type, error) {
	switch {
	case len(v.Fields) == 0:
		return nil, nil
	case v.Fields[0].IsNamed():
		name := g.unique(parent + "-" + kebab(v.Name))
		fields, err := g.fields(v.Fields)
		if err != nil {
			return nil, err
		}
		return g.define(name, &wit.Record{Fields: fields}, nil), nil
	case len(v.Fields) == 1:
		return g.resolve(v.Fields[0].Type)
	}
	ids := make([]uint32, len(v.Fields))
	for i, f := range v.Fields {
		ids[i] = f.Type
	}
	types, err := g.resolveAll(ids)
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
}

// builtin maps the Option and Result shapes onto WIT's own types.
func (g *generator) builtin(ty *portable.Type, d *schema.VariantDef[uint32]) (wit.Type, bool, error) {
	if len(ty.Path) != 1 || len(d.Variants) != 2 {
		return nil, false, nil
	}
	a, b := d.Variants[0], d.Variants[1]
	switch ty.Path[0] {
	case "Option":
		if a.Name != "None" || len(a.Fields) != 0 || b.Name != "Some" || len(b.Fields) != 1 {
			return nil, false, nil
		}
		inner, err := g.resolve(b.Fields[0].Type)
		if err != nil {
			return nil, true, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: inner}}, true, nil
	case "Result":
		if a.Name != "Ok" || b.Name != "Err" || len(a.Fields) > 1 || len(b.Fields) > 1 {
			return nil, false, nil
		}
		var ok, fail wit.Type
		var err error
		if len(a.Fields) == 1 && !g.unit(a.Fields[0].Type) {
			if ok, err = g.resolve(a.Fields[0].Type); err != nil {
				return nil, true, err
			}
		}
		if len(b.Fields) == 1 && !g.unit(b.Fields[0].Type) {
			if fail, err = g.resolve(b.Fields[0].Type); err != nil {
				return nil, true, err
			}
		}
		return &wit.TypeDef{Kind: &wit.Result{OK: ok, Err: fail}}, true, nil
	}
	return nil, false, nil
}

// unit reports whether id is the empty tuple, which a WIT result spells as
// an omitted payload.
func (g *generator) unit(id uint32) bool {
	ty, ok := g.reg.Resolve(id)
	if !ok {
		return false
	}
	tup, ok := ty.Def.(*schema.Tuple[uint32])
	return ok && len(tup.Elems) == 0
}

func (g *generator) name(id uint32, ty *portable.Type) string {
	base := ""
	if !ty.Path.IsEmpty() {
		base = kebab(ty.Path.Ident())
	}
	if base == "" {
		base = "type-" + strconv.FormatUint(uint64(id), 10)
	}
	return g.unique(base)
}

func (g *generator) unique(base string) string {
	n := g.names[base]
	g.names[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n+1)
}

func (g *generator) define(name string, kind wit.TypeDefKind, lines []string) *wit.TypeDef {
	td := &wit.TypeDef{Name: &name, Kind: kind, Docs: docs(lines)}
	g.defs = append(g.defs, td)
	g.log.Debug("wit definition", zap.String("name", name))
	return td
}

func docs(lines []string) wit.Docs {
	return wit.Docs{Contents: strings.Join(lines, "\n")}
}

func primitive(k schema.PrimitiveKind) wit.Type {
	switch k {
	case schema.Bool:
		return wit.Bool{}
	case schema.Char:
		return wit.Char{}
	case schema.Str:
		return wit.String{}
	case schema.U8:
		return wit.U8{}
	case schema.U16:
		return wit.U16{}
	case schema.U32:
		return wit.U32{}
	case schema.U64:
		return wit.U64{}
	case schema.I8:
		return wit.S8{}
	case schema.I16:
		return wit.S16{}
	case schema.I32:
		return wit.S32{}
	case schema.I64:
		return wit.S64{}
	case schema.U128, schema.I128:
		return words(2)
	case schema.U256, schema.I256:
		return words(4)
	}
	return nil
}

func words(n int) wit.Type {
	types := make([]wit.Type, n)
	for i := range types {
		types[i] = wit.U64{}
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}
}
