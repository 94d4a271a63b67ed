package typeof

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/schema"
)

var cache sync.Map // reflect.Type -> schema.MetaType

var (
	providerType = reflect.TypeFor[TypeInfoProvider]()
	phantomType  = reflect.TypeFor[interface{ phantom() }]()
	enumType     = reflect.TypeFor[Enum]()

	wide = map[reflect.Type]schema.PrimitiveKind{
		reflect.TypeFor[U128](): schema.U128,
		reflect.TypeFor[I128](): schema.I128,
		reflect.TypeFor[U256](): schema.U256,
		reflect.TypeFor[I256](): schema.I256,
		reflect.TypeFor[Char](): schema.Char,
	}
)

// Of returns the reference to the description of T.
func Of[T any]() schema.MetaType {
	return For(reflect.TypeFor[T]())
}

// For returns the reference to the description of t. Primitive types share
// identities with schema.Prim; Phantom types resolve to schema.Marker.
// Describing an unsupported type panics; use Check to test beforehand.
func For(t reflect.Type) schema.MetaType {
	if t == nil {
		panic(errors.New(errors.PhaseBuild, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build())
	}
	if t.Kind() != reflect.Pointer && t.Implements(phantomType) {
		return schema.Marker()
	}
	if !isProvider(t) {
		if k, ok := primitiveKind(t); ok {
			return schema.Prim(k)
		}
	}
	if cached, ok := cache.Load(t); ok {
		return cached.(schema.MetaType)
	}
	mt := schema.NewMetaType(t, func() schema.Type[schema.MetaType] {
		return describe(t)
	})
	actual, _ := cache.LoadOrStore(t, mt)
	return actual.(schema.MetaType)
}

func isProvider(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return false
	}
	return t.Implements(providerType) || reflect.PointerTo(t).Implements(providerType)
}

func provide(t reflect.Type) schema.Type[schema.MetaType] {
	if t.Implements(providerType) {
		return reflect.Zero(t).Interface().(TypeInfoProvider).TypeInfo()
	}
	return reflect.New(t).Interface().(TypeInfoProvider).TypeInfo()
}

func primitiveKind(t reflect.Type) (schema.PrimitiveKind, bool) {
	if k, ok := wide[t]; ok {
		return k, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return schema.Bool, true
	case reflect.String:
		return schema.Str, true
	case reflect.Uint8:
		return schema.U8, true
	case reflect.Uint16:
		return schema.U16, true
	case reflect.Uint32:
		return schema.U32, true
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return schema.U64, true
	case reflect.Int8:
		return schema.I8, true
	case reflect.Int16:
		return schema.I16, true
	case reflect.Int32:
		return schema.I32, true
	case reflect.Int64, reflect.Int:
		return schema.I64, true
	}
	return 0, false
}

func unsupported(t reflect.Type, path []string, why string) *errors.Error {
	return errors.New(errors.PhaseBuild, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("%s", why).
		Build()
}

func describe(t reflect.Type) schema.Type[schema.MetaType] {
	if isProvider(t) {
		return provide(t)
	}
	switch t.Kind() {
	case reflect.Pointer:
		return optionType(t.Elem())
	case reflect.Slice:
		return schema.Type[schema.MetaType]{Def: schema.NewSequence(For(t.Elem()))}
	case reflect.Array:
		return schema.Type[schema.MetaType]{Def: schema.NewArray(uint32(t.Len()), For(t.Elem()))}
	case reflect.Map:
		return mapType(t)
	case reflect.Struct:
		return structType(t)
	}
	panic(unsupported(t, nil, "no description for kind "+t.Kind().String()))
}

func optionType(elem reflect.Type) schema.Type[schema.MetaType] {
	inner := For(elem)
	return schema.NewTypeBuilder[schema.MetaType]().
		Path(schema.Path{"Option"}).
		Params(schema.NewTypeParameter("T", inner)).
		MustVariant(schema.VariantsWithFields[schema.MetaType]().
			Variant(schema.NewVariant[schema.MetaType]("None").WithIndex(0)).
			Variant(schema.NewVariant("Some", schema.NewField("", inner).WithTypeName("T")).WithIndex(1)))
}

type entryKey struct{ key, value reflect.Type }

type entriesKey struct{ entry entryKey }

func mapType(t reflect.Type) schema.Type[schema.MetaType] {
	k, v := For(t.Key()), For(t.Elem())
	ek := entryKey{t.Key(), t.Elem()}
	entry := schema.NewMetaType(ek, func() schema.Type[schema.MetaType] {
		return schema.Type[schema.MetaType]{Def: schema.NewTuple(k, v)}
	})
	entries := schema.NewMetaType(entriesKey{ek}, func() schema.Type[schema.MetaType] {
		return schema.Type[schema.MetaType]{Def: schema.NewSequence(entry)}
	})
	return schema.NewTypeBuilder[schema.MetaType]().
		Path(schema.Path{"BTreeMap"}).
		Params(schema.NewTypeParameter("K", k), schema.NewTypeParameter("V", v)).
		MustComposite(schema.UnnamedFields[schema.MetaType]().
			Field(schema.NewField("", entries).WithTypeName("[(K, V)]")))
}

func structType(t reflect.Type) schema.Type[schema.MetaType] {
	if t.NumField() == 0 && t.Name() == "" {
		return schema.Type[schema.MetaType]{Def: schema.NewTuple[schema.MetaType]()}
	}
	if isEnum(t) {
		return enumVariants(t)
	}
	fields, err := structFields(t)
	if err != nil {
		panic(err)
	}
	return schema.Type[schema.MetaType]{
		Path: schema.PathFromGo(t.PkgPath(), t.Name()),
		Def:  &schema.Composite[schema.MetaType]{Fields: fields},
	}
}

func structFields(t reflect.Type) ([]schema.Field[schema.MetaType], error) {
	fb := schema.NamedFields[schema.MetaType]()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := parseTag(sf)
		if tag.skip {
			continue
		}
		ty := For(sf.Type)
		if tag.compact {
			if !compactable(sf.Type) {
				return nil, unsupported(t, []string{sf.Name}, "compact tag needs an integer or a TypeInfoProvider")
			}
			ty = compactOf(sf.Type)
		}
		f := schema.NewField(tag.name, ty).WithTypeName(sf.Type.String())
		if tag.compact {
			f = f.AsCompact()
		}
		if tag.doc != "" {
			f = f.WithDocs(tag.doc)
		}
		fb.Field(f)
	}
	return fb.Finish()
}

// compactable reports whether a field of type t may carry the compact tag.
func compactable(t reflect.Type) bool {
	if isProvider(t) {
		return true
	}
	k, ok := primitiveKind(t)
	return ok && k.IsInteger()
}

type compactKey struct{ inner reflect.Type }

func compactOf(t reflect.Type) schema.MetaType {
	inner := For(t)
	return schema.NewMetaType(compactKey{t}, func() schema.Type[schema.MetaType] {
		return schema.Type[schema.MetaType]{Def: schema.NewCompact(inner)}
	})
}

func isEnum(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() == 0 {
		return false
	}
	f := t.Field(0)
	return f.Anonymous && f.Type == enumType
}

func enumVariants(t reflect.Type) schema.Type[schema.MetaType] {
	vb := schema.VariantsWithFields[schema.MetaType]()
	next := 0
	for i := 1; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := parseTag(sf)
		if tag.skip {
			continue
		}
		if sf.Type.Kind() != reflect.Pointer {
			panic(unsupported(t, []string{sf.Name}, "enum variant fields must be pointers"))
		}
		idx := next
		if tag.index >= 0 {
			idx = tag.index
		}
		if idx > 255 {
			panic(unsupported(t, []string{sf.Name}, "variant index exceeds 255"))
		}
		next = idx + 1

		name := sf.Name
		if tag.renamed {
			name = tag.name
		}
		v := schema.NewVariant[schema.MetaType](name).WithIndex(uint8(idx))
		payload := sf.Type.Elem()
		switch {
		case payload.Kind() == reflect.Struct && payload.Name() == "" && payload.NumField() == 0:
		case payload.Kind() == reflect.Struct && payload.Name() == "":
			fields, err := structFields(payload)
			if err != nil {
				panic(err)
			}
			v.Fields = fields
		default:
			v.Fields = []schema.Field[schema.MetaType]{
				schema.NewField("", For(payload)).WithTypeName(payload.String()),
			}
		}
		if tag.doc != "" {
			v = v.WithDocs(tag.doc)
		}
		vb.Variant(v)
	}
	ty, err := schema.NewTypeBuilder[schema.MetaType]().
		Path(schema.PathFromGo(t.PkgPath(), t.Name())).
		Variant(vb)
	if err != nil {
		panic(err)
	}
	return ty
}

type fieldTag struct {
	name    string
	doc     string
	index   int
	skip    bool
	compact bool
	renamed bool
}

func parseTag(sf reflect.StructField) fieldTag {
	tag := fieldTag{name: toSnakeCase(sf.Name), index: -1, doc: sf.Tag.Get("doc")}
	raw, ok := sf.Tag.Lookup("scale")
	if !ok {
		return tag
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "-":
			tag.skip = true
		case part == "compact":
			tag.compact = true
		case strings.HasPrefix(part, "name="):
			tag.name = strings.TrimPrefix(part, "name=")
			tag.renamed = true
		case strings.HasPrefix(part, "index="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "index=")); err == nil && n >= 0 {
				tag.index = n
			}
		}
	}
	return tag
}

// toSnakeCase converts a Go identifier to snake_case, keeping acronyms
// together: UserID becomes user_id, HTTPServer becomes http_server.
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
