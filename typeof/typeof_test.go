package typeof_test

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/interner"
	"github.com/wippyai/typeinfo/registry"
	"github.com/wippyai/typeinfo/schema"
	"github.com/wippyai/typeinfo/typeof"
)

type Transfer struct {
	Plain  typeof.U128
	Packed typeof.U128 `scale:"compact"`
	Hash   [32]byte
	Nonce  uint64 `scale:"compact"`
}

type Node struct {
	Value uint32
	Next  *Node
}

type Shape struct {
	typeof.Enum
	Circle *uint32
	Rect   *struct {
		Width  uint32
		Height uint32
	}
	Empty *struct{} `scale:"index=5"`
}

type Tagged struct {
	ID     uint32
	Marker typeof.Phantom[string]
}

type Annotated struct {
	UserID   uint64 `doc:"Owning account."`
	Ignored  string `scale:"-"`
	Label    string `scale:"name=title"`
	internal bool
}

type Ledger struct {
	Balances map[string]uint32
}

type BadFloat struct {
	Ratio float64
}

type BadNested struct {
	Inner []struct {
		Callback func()
	}
}

type BadCompact struct {
	Count uint32
	Label string `scale:"compact"`
}

type BadEnum struct {
	typeof.Enum
	Value uint32
}

func register(t *testing.T, roots ...schema.MetaType) *registry.Registry {
	t.Helper()
	r := registry.NewWithDefaults()
	r.RegisterAll(roots...)
	require.Empty(t, r.Incomplete())
	return r
}

func resolve(t *testing.T, r *registry.Registry, id uint32) *schema.Type[uint32] {
	t.Helper()
	ty, ok := r.Resolve(interner.FromIndex(id))
	require.True(t, ok, "type %d", id)
	return ty
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		mt   schema.MetaType
		kind schema.PrimitiveKind
	}{
		{typeof.Of[bool](), schema.Bool},
		{typeof.Of[string](), schema.Str},
		{typeof.Of[typeof.Char](), schema.Char},
		{typeof.Of[uint8](), schema.U8},
		{typeof.Of[uint16](), schema.U16},
		{typeof.Of[uint32](), schema.U32},
		{typeof.Of[uint64](), schema.U64},
		{typeof.Of[uint](), schema.U64},
		{typeof.Of[typeof.U128](), schema.U128},
		{typeof.Of[typeof.U256](), schema.U256},
		{typeof.Of[int8](), schema.I8},
		{typeof.Of[int16](), schema.I16},
		{typeof.Of[int32](), schema.I32},
		{typeof.Of[int64](), schema.I64},
		{typeof.Of[int](), schema.I64},
		{typeof.Of[typeof.I128](), schema.I128},
		{typeof.Of[typeof.I256](), schema.I256},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.True(t, tt.mt.Equal(schema.Prim(tt.kind)))
			def, ok := tt.mt.Resolve().Def.(*schema.Primitive)
			require.True(t, ok)
			assert.Equal(t, tt.kind, def.Prim)
		})
	}
}

func TestOf_Cached(t *testing.T) {
	a := typeof.Of[Node]()
	b := typeof.For(reflect.TypeFor[Node]())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(typeof.Of[Shape]()))
}

func TestCompactFields(t *testing.T) {
	r := register(t, typeof.Of[Transfer]())
	require.Equal(t, 7, r.Len())

	root := resolve(t, r, 0)
	assert.Equal(t, "Transfer", root.Path.Ident())
	fields := root.Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 4)

	assert.Equal(t, "plain", *fields[0].Name)
	assert.False(t, fields[0].Compact)
	assert.Equal(t, "packed", *fields[1].Name)
	assert.True(t, fields[1].Compact)
	assert.NotEqual(t, fields[0].Type, fields[1].Type)

	packed := resolve(t, r, fields[1].Type)
	assert.Equal(t, fields[0].Type, packed.Def.(*schema.Compact[uint32]).Inner)

	hash := resolve(t, r, fields[2].Type)
	arr := hash.Def.(*schema.Array[uint32])
	assert.Equal(t, uint32(32), arr.Len)
	assert.Equal(t, schema.U8, resolve(t, r, arr.Elem).Def.(*schema.Primitive).Prim)

	nonce := resolve(t, r, fields[3].Type)
	inner := nonce.Def.(*schema.Compact[uint32]).Inner
	assert.Equal(t, schema.U64, resolve(t, r, inner).Def.(*schema.Primitive).Prim)
	assert.Equal(t, "uint64", fields[3].TypeName)
}

func TestSelfReferentialStruct(t *testing.T) {
	r := register(t, typeof.Of[Node]())
	require.Equal(t, 3, r.Len())

	node := resolve(t, r, 0)
	fields := node.Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "next", *fields[1].Name)

	opt := resolve(t, r, fields[1].Type)
	assert.Equal(t, schema.Path{"Option"}, opt.Path)
	require.Len(t, opt.Params, 1)
	assert.Equal(t, uint32(0), *opt.Params[0].Type)
	variants := opt.Def.(*schema.VariantDef[uint32]).Variants
	require.Len(t, variants, 2)
	assert.Equal(t, "None", variants[0].Name)
	assert.Equal(t, uint32(0), variants[1].Fields[0].Type)
}

func TestEnum(t *testing.T) {
	r := register(t, typeof.Of[Shape]())
	shape := resolve(t, r, 0)
	assert.Equal(t, "Shape", shape.Path.Ident())

	variants := shape.Def.(*schema.VariantDef[uint32]).Variants
	require.Len(t, variants, 3)

	assert.Equal(t, "Circle", variants[0].Name)
	assert.Equal(t, uint8(0), *variants[0].Index)
	require.Len(t, variants[0].Fields, 1)
	assert.False(t, variants[0].Fields[0].IsNamed())

	assert.Equal(t, "Rect", variants[1].Name)
	assert.Equal(t, uint8(1), *variants[1].Index)
	require.Len(t, variants[1].Fields, 2)
	assert.Equal(t, "width", *variants[1].Fields[0].Name)
	assert.Equal(t, "height", *variants[1].Fields[1].Name)

	assert.Equal(t, "Empty", variants[2].Name)
	assert.Equal(t, uint8(5), *variants[2].Index)
	assert.Empty(t, variants[2].Fields)
}

func TestPhantomFieldsDropped(t *testing.T) {
	r := register(t, typeof.Of[Tagged]())
	require.Equal(t, 2, r.Len())
	fields := resolve(t, r, 0).Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 1)
	assert.Equal(t, "id", *fields[0].Name)
}

func TestFieldTags(t *testing.T) {
	r := register(t, typeof.Of[Annotated]())
	fields := resolve(t, r, 0).Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 2)

	assert.Equal(t, "user_id", *fields[0].Name)
	assert.Equal(t, []string{"Owning account."}, fields[0].Docs)
	assert.Equal(t, "title", *fields[1].Name)
}

func TestMap(t *testing.T) {
	r := register(t, typeof.Of[map[string]uint32]())
	require.Equal(t, 5, r.Len())

	m := resolve(t, r, 0)
	assert.Equal(t, schema.Path{"BTreeMap"}, m.Path)
	require.Len(t, m.Params, 2)
	assert.Equal(t, uint32(1), *m.Params[0].Type)
	assert.Equal(t, uint32(2), *m.Params[1].Type)

	entries := resolve(t, r, 3).Def.(*schema.Sequence[uint32])
	assert.Equal(t, uint32(4), entries.Elem)
	assert.Equal(t, []uint32{1, 2}, resolve(t, r, 4).Def.(*schema.Tuple[uint32]).Elems)

	again := register(t, typeof.Of[Ledger](), typeof.Of[map[string]uint32]())
	assert.Equal(t, 6, again.Len(), "map type shared between field and root")
}

func TestProviders(t *testing.T) {
	r := register(t, typeof.Of[typeof.Result[uint32, string]]())
	res := resolve(t, r, 0)
	assert.Equal(t, schema.Path{"Result"}, res.Path)
	variants := res.Def.(*schema.VariantDef[uint32]).Variants
	require.Len(t, variants, 2)
	assert.Equal(t, "Ok", variants[0].Name)
	assert.Equal(t, "Err", variants[1].Name)

	r = register(t, typeof.Of[typeof.BitVec]())
	bits := resolve(t, r, 0).Def.(*schema.BitSequence[uint32])
	assert.Equal(t, schema.U8, resolve(t, r, bits.Store).Def.(*schema.Primitive).Prim)
	assert.Equal(t, schema.Path{"bitvec", "order", "Lsb0"}, resolve(t, r, bits.Order).Path)

	r = register(t, typeof.Of[typeof.Compact[uint32]]())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, uint32(1), resolve(t, r, 0).Def.(*schema.Compact[uint32]).Inner)
}

func TestEmptyTuple(t *testing.T) {
	r := register(t, typeof.Of[struct{}]())
	tup := resolve(t, r, 0).Def.(*schema.Tuple[uint32])
	assert.Empty(t, tup.Elems)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		path []string
	}{
		{"float field", reflect.TypeFor[BadFloat](), []string{"Ratio"}},
		{"nested func", reflect.TypeFor[BadNested](), []string{"Inner", "Callback"}},
		{"channel", reflect.TypeFor[chan int](), nil},
		{"enum value field", reflect.TypeFor[BadEnum](), []string{"Value"}},
		{"compact string", reflect.TypeFor[BadCompact](), []string{"Label"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := typeof.Check(tt.typ)
			require.Error(t, err)

			var e *errors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, errors.KindUnsupported, e.Kind)
			assert.Equal(t, errors.PhaseBuild, e.Phase)
			assert.Equal(t, tt.path, e.Path)
		})
	}

	for _, ok := range []reflect.Type{
		reflect.TypeFor[Transfer](),
		reflect.TypeFor[Node](),
		reflect.TypeFor[Shape](),
		reflect.TypeFor[Ledger](),
		reflect.TypeFor[typeof.Result[uint32, string]](),
	} {
		assert.NoError(t, typeof.Check(ok), ok.String())
	}

	assert.Error(t, typeof.Check(nil))
}

func TestFor_UnsupportedPanics(t *testing.T) {
	mt := typeof.Of[BadFloat]()
	assert.Panics(t, func() {
		register(t, mt)
	})
	assert.Panics(t, func() {
		typeof.For(nil)
	})
	assert.Panics(t, func() {
		register(t, typeof.Of[BadCompact]())
	})
}
