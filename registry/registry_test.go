package registry

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/interner"
	"github.com/wippyai/typeinfo/schema"
)

func collect(r *Registry) map[uint32]*schema.Type[uint32] {
	out := make(map[uint32]*schema.Type[uint32])
	for id, ty := range r.Types() {
		out[id] = ty
	}
	return out
}

func TestRegister_SequentialIDs(t *testing.T) {
	r := NewWithDefaults()
	tuple := tupleOf(u32(), boolT())

	syms := r.RegisterAll(u32(), boolT(), optionOf(tuple))
	require.Equal(t, 4, r.Len())

	assert.Equal(t, uint32(0), syms[0].Index(), "u32")
	assert.Equal(t, uint32(1), syms[1].Index(), "bool")
	assert.Equal(t, uint32(2), syms[2].Index(), "Option is reserved before its parameter")

	tupleSym, ok := r.Lookup(tuple.Identity())
	require.True(t, ok)
	assert.Equal(t, uint32(3), tupleSym.Index())

	i := uint32(0)
	for id := range r.Types() {
		assert.Equal(t, i, id)
		i++
	}

	opt, ok := r.Resolve(syms[2])
	require.True(t, ok)
	require.NotNil(t, opt.Params[0].Type)
	assert.Equal(t, uint32(3), *opt.Params[0].Type)
	some := opt.Def.(*schema.VariantDef[uint32]).Variants[1]
	assert.Equal(t, uint32(3), some.Fields[0].Type)

	tup, _ := r.Resolve(tupleSym)
	assert.Equal(t, []uint32{0, 1}, tup.Def.(*schema.Tuple[uint32]).Elems)
}

func TestRegister_SelfReference(t *testing.T) {
	var self mt
	self = schema.NewMetaType("Node", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().
			Path(schema.MustPath("Node")).
			MustComposite(schema.NamedFields[mt]().
				Named("a", self, "Node").
				Named("b", self, "Node").
				Named("c", self, "Node"))
	})

	r := NewWithDefaults()
	sym := r.Register(self)
	require.Equal(t, 1, r.Len())

	ty, ok := r.Resolve(sym)
	require.True(t, ok)
	fields := ty.Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 3)
	for _, f := range fields {
		assert.Equal(t, sym.Index(), f.Type)
	}
}

func TestRegister_MutualRecursion(t *testing.T) {
	var a, b mt
	a = schema.NewMetaType("A", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().Path(schema.MustPath("A")).
			MustComposite(schema.NamedFields[mt]().Named("b", vecOf(b), "Vec<B>"))
	})
	b = schema.NewMetaType("B", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().Path(schema.MustPath("B")).
			MustComposite(schema.NamedFields[mt]().
				Named("a", optionOf(a), "Option<A>").
				Named("x", u8(), "u8"))
	})

	r := NewWithDefaults()
	symA := r.Register(a)
	require.Equal(t, 5, r.Len(), "A, Vec<B>, B, Option<A>, u8")
	assert.Empty(t, r.Incomplete())

	symB, ok := r.Lookup("B")
	require.True(t, ok)
	optA, ok := r.Lookup("Option<A>")
	require.True(t, ok)

	tyOpt, _ := r.Resolve(optA)
	assert.Equal(t, symA.Index(), *tyOpt.Params[0].Type)

	tyB, _ := r.Resolve(symB)
	assert.Equal(t, optA.Index(), tyB.Def.(*schema.Composite[uint32]).Fields[0].Type)
}

func TestRegister_CompactAndArrays(t *testing.T) {
	root := schema.NewMetaType("Balances", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().
			Path(schema.MustPath("Balances")).
			MustComposite(schema.NamedFields[mt]().
				Field(schema.NewField("plain", u128()).WithTypeName("u128")).
				Field(schema.NewField("packed", compactOf(u128())).WithTypeName("u128").AsCompact()).
				Field(schema.NewField("hash", arrayOf(32, u8())).WithTypeName("[u8; 32]")).
				Field(schema.NewField("nonce", compactOf(u64())).WithTypeName("u64").AsCompact()))
	})

	r := NewWithDefaults()
	sym := r.Register(root)
	require.Equal(t, 7, r.Len())

	ty, _ := r.Resolve(sym)
	fields := ty.Def.(*schema.Composite[uint32]).Fields
	require.Len(t, fields, 4)

	kinds := make([]schema.DefKind, 0, 4)
	for _, f := range fields {
		ft, ok := r.Resolve(interner.FromIndex(f.Type))
		require.True(t, ok)
		kinds = append(kinds, ft.Def.Kind())
	}
	assert.Equal(t, []schema.DefKind{schema.KindPrimitive, schema.KindCompact, schema.KindArray, schema.KindCompact}, kinds)
	assert.True(t, fields[1].Compact)
	assert.NotEqual(t, fields[0].Type, fields[1].Type)

	packed, _ := r.Resolve(interner.FromIndex(fields[1].Type))
	assert.Equal(t, fields[0].Type, packed.Def.(*schema.Compact[uint32]).Inner)
}

func TestRegister_Idempotent(t *testing.T) {
	calls := 0
	opt := counted(optionOf(u32()), &calls)

	r := NewWithDefaults()
	first := r.Register(opt)
	before := collect(r)
	second := r.Register(opt)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, before, collect(r))
}

func TestRegister_Deterministic(t *testing.T) {
	build := func() map[uint32]*schema.Type[uint32] {
		r := NewWithDefaults()
		r.RegisterAll(optionOf(tupleOf(u8(), u64())), vecOf(u32()), u8())
		return collect(r)
	}
	assert.Equal(t, build(), build())
}

func TestRegister_MarkerErasure(t *testing.T) {
	t.Run("dropped by builder", func(t *testing.T) {
		root := schema.NewMetaType("Tagged", func() schema.Type[mt] {
			return schema.NewTypeBuilder[mt]().Path(schema.MustPath("Tagged")).
				MustComposite(schema.NamedFields[mt]().
					Named("value", u32(), "u32").
					Named("marker", schema.Marker(), "Marker"))
		})
		r := NewWithDefaults()
		sym := r.Register(root)
		assert.Equal(t, 2, r.Len())
		_, ok := r.Lookup(schema.MarkerID)
		assert.False(t, ok, "marker must not be registered")
		ty, _ := r.Resolve(sym)
		assert.Len(t, ty.Def.(*schema.Composite[uint32]).Fields, 1)
	})

	t.Run("dropped by registry", func(t *testing.T) {
		custom := schema.NewMetaType("Phantom", func() schema.Type[mt] {
			return schema.Type[mt]{Def: schema.NewTuple[mt]()}
		})
		root := schema.NewMetaType("Holder", func() schema.Type[mt] {
			return schema.Type[mt]{
				Path: schema.Path{"Holder"},
				Def: schema.NewVariantDef(
					schema.NewVariant("A", schema.NewField("", custom), schema.NewField("", u8())),
				),
			}
		})
		r := New(Options{Marker: "Phantom"})
		sym := r.Register(root)
		assert.Equal(t, 2, r.Len())
		ty, _ := r.Resolve(sym)
		fields := ty.Def.(*schema.VariantDef[uint32]).Variants[0].Fields
		require.Len(t, fields, 1)
		assert.Equal(t, uint32(1), fields[0].Type)
	})
}

func TestRegister_EraseParams(t *testing.T) {
	holder := schema.NewMetaType("Holder<u64>", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().
			Path(schema.MustPath("Holder")).
			Params(schema.NewTypeParameter("T", u64()), schema.NewTypeParameter("U", u8())).
			MustComposite(schema.NamedFields[mt]().Named("inner", u64(), "T"))
	})

	r := New(Options{Params: EraseParams})
	sym := r.Register(holder)
	assert.Equal(t, 2, r.Len(), "u8 is only reachable through an erased parameter")

	ty, _ := r.Resolve(sym)
	require.Len(t, ty.Params, 2)
	assert.Equal(t, "T", ty.Params[0].Name)
	assert.Nil(t, ty.Params[0].Type)
	assert.Nil(t, ty.Params[1].Type)
}

func TestRegister_PanickingThunk(t *testing.T) {
	boom := schema.NewMetaType("Boom", func() schema.Type[mt] {
		panic("cannot describe")
	})
	root := schema.NewMetaType("Root", func() schema.Type[mt] {
		return schema.Type[mt]{Path: schema.Path{"Root"}, Def: schema.NewSequence(boom)}
	})

	core, logs := observer.New(zapcore.ErrorLevel)
	r := New(Options{Logger: zap.New(core)})

	assert.PanicsWithValue(t, "cannot describe", func() { r.Register(root) })
	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.Incomplete(), 2)
	_, ok := r.Resolve(interner.FromIndex(0))
	assert.False(t, ok)
	assert.Equal(t, 2, logs.FilterMessage("type expansion aborted").Len())
}

func TestRegister_NilDefinition(t *testing.T) {
	empty := schema.NewMetaType("Empty", func() schema.Type[mt] {
		return schema.Type[mt]{Path: schema.Path{"Empty"}}
	})
	r := NewWithDefaults()

	defer func() {
		p := recover()
		err, ok := p.(error)
		require.True(t, ok, "panic value %v", p)
		assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindInvalidInput}))
		assert.Equal(t, []interner.Symbol{1}, r.Incomplete())
	}()
	r.Register(empty)
}

func TestRegister_InternsStrings(t *testing.T) {
	point := schema.NewMetaType("Point", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().
			Path(schema.MustPath("geo", "Point")).
			Docs("A point.").
			MustComposite(schema.NamedFields[mt]().
				Named("x", u32(), "u32").
				Named("y", u32(), "u32"))
	})
	r := NewWithDefaults()
	r.Register(point)

	assert.Equal(t, []string{"geo", "Point", "x", "u32", "y", "A point."}, r.Strings())
	assert.Equal(t, interner.Symbol(4), r.RegisterString("u32"))
}

func TestRegister_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(Options{Logger: zap.New(core)})
	r.Register(vecOf(u8()))

	assert.Equal(t, 2, logs.FilterMessage("type reserved").Len())
	assert.Equal(t, 2, logs.FilterMessage("type registered").Len())
}

func TestResolve_OutOfRange(t *testing.T) {
	r := NewWithDefaults()
	r.Register(u8())
	_, ok := r.Resolve(0)
	assert.False(t, ok)
	_, ok = r.Resolve(2)
	assert.False(t, ok)
	id, ok := r.Identity(1)
	assert.True(t, ok)
	assert.Equal(t, schema.U8, id)
}
