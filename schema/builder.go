package schema

import (
	"strconv"

	"github.com/wippyai/typeinfo/errors"
)

// TypeBuilder assembles a named Type. Path must be set before a build
// method is called.
type TypeBuilder[R any] struct {
	path    Path
	params  []TypeParameter[R]
	docs    []string
	pathSet bool
}

// NewTypeBuilder creates an empty builder.
func NewTypeBuilder[R any]() *TypeBuilder[R] {
	return &TypeBuilder[R]{}
}

// Path sets the type's path.
func (b *TypeBuilder[R]) Path(p Path) *TypeBuilder[R] {
	b.path = p
	b.pathSet = true
	return b
}

// Params sets the type parameters.
func (b *TypeBuilder[R]) Params(params ...TypeParameter[R]) *TypeBuilder[R] {
	b.params = params
	return b
}

// Docs sets the documentation lines.
func (b *TypeBuilder[R]) Docs(lines ...string) *TypeBuilder[R] {
	b.docs = lines
	return b
}

// Build finalizes the type with def.
func (b *TypeBuilder[R]) Build(def TypeDef[R]) (Type[R], error) {
	if !b.pathSet {
		what := "type"
		if def != nil {
			what = def.Kind().String()
		}
		return Type[R]{}, errors.MissingPath(what)
	}
	if def == nil {
		return Type[R]{}, errors.InvalidShape(b.path, "nil definition")
	}
	return Type[R]{Path: b.path, Params: b.params, Def: def, Docs: b.docs}, nil
}

// Composite finalizes the type as a composite over the builder's fields.
func (b *TypeBuilder[R]) Composite(fields *FieldsBuilder[R]) (Type[R], error) {
	fs, err := fields.Finish()
	if err != nil {
		return Type[R]{}, err
	}
	return b.Build(&Composite[R]{Fields: fs})
}

// Variant finalizes the type as a union over the builder's variants.
func (b *TypeBuilder[R]) Variant(variants *VariantsBuilder[R]) (Type[R], error) {
	vs, err := variants.Finish()
	if err != nil {
		return Type[R]{}, err
	}
	return b.Build(&VariantDef[R]{Variants: vs})
}

// MustBuild is like Build but panics on error.
func (b *TypeBuilder[R]) MustBuild(def TypeDef[R]) Type[R] {
	return must(b.Build(def))
}

// MustComposite is like Composite but panics on error.
func (b *TypeBuilder[R]) MustComposite(fields *FieldsBuilder[R]) Type[R] {
	return must(b.Composite(fields))
}

// MustVariant is like Variant but panics on error.
func (b *TypeBuilder[R]) MustVariant(variants *VariantsBuilder[R]) Type[R] {
	return must(b.Variant(variants))
}

func must[R any](t Type[R], err error) Type[R] {
	if err != nil {
		panic(err)
	}
	return t
}

type fieldsMode uint8

const (
	fieldsNamed fieldsMode = iota
	fieldsUnnamed
	fieldsNone
)

// FieldsBuilder collects the fields of a composite or variant.
type FieldsBuilder[R any] struct {
	err    error
	fields []Field[R]
	mode   fieldsMode
}

// NamedFields starts a list where every field must have a name.
func NamedFields[R any]() *FieldsBuilder[R] {
	return &FieldsBuilder[R]{mode: fieldsNamed}
}

// UnnamedFields starts a list where no field may have a name.
func UnnamedFields[R any]() *FieldsBuilder[R] {
	return &FieldsBuilder[R]{mode: fieldsUnnamed}
}

// NoFields starts a list that must stay empty.
func NoFields[R any]() *FieldsBuilder[R] {
	return &FieldsBuilder[R]{mode: fieldsNone}
}

// Field appends f. Fields of the marker type are dropped.
func (b *FieldsBuilder[R]) Field(f Field[R]) *FieldsBuilder[R] {
	if b.err != nil {
		return b
	}
	if isMarker(f.Type) {
		return b
	}
	idx := strconv.Itoa(len(b.fields))
	switch {
	case b.mode == fieldsNone:
		b.err = errors.InvalidShape([]string{idx}, "field added to a fieldless list")
	case b.mode == fieldsNamed && f.Name == nil:
		b.err = errors.InvalidShape([]string{idx}, "unnamed field in a named field list")
	case b.mode == fieldsUnnamed && f.Name != nil:
		b.err = errors.InvalidShape([]string{idx, *f.Name}, "named field in an unnamed field list")
	default:
		b.fields = append(b.fields, f)
	}
	return b
}

// Named appends a named field of type ty.
func (b *FieldsBuilder[R]) Named(name string, ty R, typeName string, docs ...string) *FieldsBuilder[R] {
	return b.Field(Field[R]{Name: &name, Type: ty, TypeName: typeName, Docs: docs})
}

// Unnamed appends an unnamed field of type ty.
func (b *FieldsBuilder[R]) Unnamed(ty R, typeName string, docs ...string) *FieldsBuilder[R] {
	return b.Field(Field[R]{Type: ty, TypeName: typeName, Docs: docs})
}

// Len returns the number of fields kept so far.
func (b *FieldsBuilder[R]) Len() int {
	return len(b.fields)
}

// Finish returns the fields or the first shape error.
func (b *FieldsBuilder[R]) Finish() ([]Field[R], error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.fields, nil
}

func isMarker[R any](r R) bool {
	mt, ok := any(r).(MetaType)
	return ok && mt.IsMarker()
}

// VariantsBuilder collects the variants of a union.
type VariantsBuilder[R any] struct {
	err           error
	indices       map[uint8]string
	variants      []Variant[R]
	discriminants bool
}

// VariantsWithFields starts a union whose variants may carry fields.
func VariantsWithFields[R any]() *VariantsBuilder[R] {
	return &VariantsBuilder[R]{indices: make(map[uint8]string)}
}

// VariantsWithDiscriminants starts a fieldless union. Every variant must
// carry a discriminant and no fields.
func VariantsWithDiscriminants[R any]() *VariantsBuilder[R] {
	return &VariantsBuilder[R]{indices: make(map[uint8]string), discriminants: true}
}

// Variant appends v.
func (b *VariantsBuilder[R]) Variant(v Variant[R]) *VariantsBuilder[R] {
	if b.err != nil {
		return b
	}
	path := []string{v.Name}
	if b.discriminants {
		if len(v.Fields) > 0 {
			b.err = errors.InvalidShape(path, "fieldless variant carries fields")
			return b
		}
		if v.Discriminant == nil {
			b.err = errors.InvalidShape(path, "missing discriminant")
			return b
		}
	}
	if v.Index != nil {
		if prev, ok := b.indices[*v.Index]; ok {
			b.err = errors.New(errors.PhaseBuild, errors.KindDuplicate).
				Path(path...).
				Value(*v.Index).
				Detail("index %d already used by %s", *v.Index, prev).
				Build()
			return b
		}
		b.indices[*v.Index] = v.Name
	}
	b.variants = append(b.variants, v)
	return b
}

// Len returns the number of variants so far.
func (b *VariantsBuilder[R]) Len() int {
	return len(b.variants)
}

// Finish returns the variants or the first shape error.
func (b *VariantsBuilder[R]) Finish() ([]Variant[R], error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.variants, nil
}
