package schema

import "strconv"

// Type describes one data type.
type Type[R any] struct {
	Path   Path
	Params []TypeParameter[R]
	Def    TypeDef[R]
	Docs   []string
}

// NewType creates a Type from its parts.
func NewType[R any](path Path, params []TypeParameter[R], def TypeDef[R], docs ...string) Type[R] {
	return Type[R]{Path: path, Params: params, Def: def, Docs: docs}
}

// TypeParameter is a generic parameter of a type.
// A nil Type marks a parameter erased from the description.
type TypeParameter[R any] struct {
	Name string
	Type *R
}

// NewTypeParameter creates a parameter bound to ty.
func NewTypeParameter[R any](name string, ty R) TypeParameter[R] {
	return TypeParameter[R]{Name: name, Type: &ty}
}

// ErasedParameter creates a parameter without a type.
func ErasedParameter[R any](name string) TypeParameter[R] {
	return TypeParameter[R]{Name: name}
}

// DefKind identifies the shape of a TypeDef. The numeric value is the
// binary tag and is never reused.
type DefKind uint8

const (
	KindComposite DefKind = iota
	KindVariant
	KindSequence
	KindArray
	KindTuple
	KindPrimitive
	KindCompact
	KindBitSequence
)

var defKindNames = [...]string{
	KindComposite:   "composite",
	KindVariant:     "variant",
	KindSequence:    "sequence",
	KindArray:       "array",
	KindTuple:       "tuple",
	KindPrimitive:   "primitive",
	KindCompact:     "compact",
	KindBitSequence: "bitsequence",
}

// String returns the textual tag of k.
func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "DefKind(" + strconv.Itoa(int(k)) + ")"
}

// Tag returns the binary tag of k.
func (k DefKind) Tag() byte {
	return byte(k)
}

// ParseDefKind maps a textual tag back to its DefKind.
func ParseDefKind(s string) (DefKind, bool) {
	for i, name := range defKindNames {
		if name == s {
			return DefKind(i), true
		}
	}
	return 0, false
}

// TypeDef is the structure of a type. The set of implementations is closed.
type TypeDef[R any] interface {
	Kind() DefKind
	typeDef()
}

// Composite is a struct-like type. Fields are either all named or all unnamed.
type Composite[R any] struct {
	Fields []Field[R]
}

// VariantDef is a tagged union.
type VariantDef[R any] struct {
	Variants []Variant[R]
}

// Sequence is a list whose length is known only at runtime.
type Sequence[R any] struct {
	Elem R
}

// Array is a list of fixed length.
type Array[R any] struct {
	Len  uint32
	Elem R
}

// Tuple is an anonymous product. The empty tuple is the unit type.
type Tuple[R any] struct {
	Elems []R
}

// Primitive is a built-in scalar.
type Primitive struct {
	Prim PrimitiveKind
}

// Compact wraps an integer type that is compact-encoded on the wire.
type Compact[R any] struct {
	Inner R
}

// BitSequence is a bit vector. Store is the integer type holding the bits,
// Order the type describing bit order.
type BitSequence[R any] struct {
	Store R
	Order R
}

func (*Composite[R]) Kind() DefKind   { return KindComposite }
func (*VariantDef[R]) Kind() DefKind  { return KindVariant }
func (*Sequence[R]) Kind() DefKind    { return KindSequence }
func (*Array[R]) Kind() DefKind       { return KindArray }
func (*Tuple[R]) Kind() DefKind       { return KindTuple }
func (*Primitive) Kind() DefKind      { return KindPrimitive }
func (*Compact[R]) Kind() DefKind     { return KindCompact }
func (*BitSequence[R]) Kind() DefKind { return KindBitSequence }

func (*Composite[R]) typeDef()   {}
func (*VariantDef[R]) typeDef()  {}
func (*Sequence[R]) typeDef()    {}
func (*Array[R]) typeDef()       {}
func (*Tuple[R]) typeDef()       {}
func (*Primitive) typeDef()      {}
func (*Compact[R]) typeDef()     {}
func (*BitSequence[R]) typeDef() {}

// NewComposite creates a composite over fields.
func NewComposite[R any](fields ...Field[R]) *Composite[R] {
	return &Composite[R]{Fields: fields}
}

// NewVariantDef creates a union over variants.
func NewVariantDef[R any](variants ...Variant[R]) *VariantDef[R] {
	return &VariantDef[R]{Variants: variants}
}

// NewSequence creates a sequence of elem.
func NewSequence[R any](elem R) *Sequence[R] {
	return &Sequence[R]{Elem: elem}
}

// NewArray creates an array of n elem.
func NewArray[R any](n uint32, elem R) *Array[R] {
	return &Array[R]{Len: n, Elem: elem}
}

// NewTuple creates a tuple of elems.
func NewTuple[R any](elems ...R) *Tuple[R] {
	return &Tuple[R]{Elems: elems}
}

// NewPrimitive creates a primitive definition.
func NewPrimitive(k PrimitiveKind) *Primitive {
	return &Primitive{Prim: k}
}

// NewCompact creates a compact wrapper around inner.
func NewCompact[R any](inner R) *Compact[R] {
	return &Compact[R]{Inner: inner}
}

// NewBitSequence creates a bit sequence definition.
func NewBitSequence[R any](store, order R) *BitSequence[R] {
	return &BitSequence[R]{Store: store, Order: order}
}

// Field is one field of a composite or variant.
// TypeName is the declared type as written in source and is informational.
type Field[R any] struct {
	Name     *string
	Type     R
	TypeName string
	Compact  bool
	Docs     []string
}

// NewField creates a field. An empty name creates an unnamed field.
func NewField[R any](name string, ty R) Field[R] {
	f := Field[R]{Type: ty}
	if name != "" {
		f.Name = &name
	}
	return f
}

// WithTypeName returns f with its declared type name set.
func (f Field[R]) WithTypeName(name string) Field[R] {
	f.TypeName = name
	return f
}

// AsCompact returns f flagged as compact-encoded.
func (f Field[R]) AsCompact() Field[R] {
	f.Compact = true
	return f
}

// WithDocs returns f with docs attached.
func (f Field[R]) WithDocs(lines ...string) Field[R] {
	f.Docs = lines
	return f
}

// IsNamed reports whether the field carries a name.
func (f Field[R]) IsNamed() bool {
	return f.Name != nil
}

// Variant is one alternative of a VariantDef. Index is the wire tag;
// Discriminant is the source-level value and may differ.
type Variant[R any] struct {
	Name         string
	Fields       []Field[R]
	Index        *uint8
	Discriminant *uint64
	Docs         []string
}

// NewVariant creates a variant.
func NewVariant[R any](name string, fields ...Field[R]) Variant[R] {
	return Variant[R]{Name: name, Fields: fields}
}

// WithIndex returns v with its wire tag set.
func (v Variant[R]) WithIndex(i uint8) Variant[R] {
	v.Index = &i
	return v
}

// WithDiscriminant returns v with its source discriminant set.
func (v Variant[R]) WithDiscriminant(d uint64) Variant[R] {
	v.Discriminant = &d
	return v
}

// WithDocs returns v with docs attached.
func (v Variant[R]) WithDocs(lines ...string) Variant[R] {
	v.Docs = lines
	return v
}
