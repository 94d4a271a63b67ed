package typeof

import (
	"math/big"

	"github.com/wippyai/typeinfo/schema"
)

// TypeInfoProvider is implemented by types that describe themselves.
// TypeInfo is called on the zero value.
type TypeInfoProvider interface {
	TypeInfo() schema.Type[schema.MetaType]
}

// U128 is an unsigned 128-bit integer stored as little-endian words.
type U128 [2]uint64

// I128 is a signed 128-bit integer stored as little-endian words.
type I128 [2]uint64

// U256 is an unsigned 256-bit integer stored as little-endian words.
type U256 [4]uint64

// I256 is a signed 256-bit integer stored as little-endian words.
type I256 [4]uint64

// Big returns u as a big.Int.
func (u U128) Big() *big.Int {
	return wordsToBig(u[:])
}

// Big returns u as a big.Int.
func (u U256) Big() *big.Int {
	return wordsToBig(u[:])
}

func wordsToBig(words []uint64) *big.Int {
	v := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(words[i]))
	}
	return v
}

// Char is a Unicode scalar value described as the char primitive.
// Plain rune fields are described as i32.
type Char rune

// Compact wraps an integer that is compact-encoded.
type Compact[T any] struct {
	Value T
}

// TypeInfo implements TypeInfoProvider.
func (Compact[T]) TypeInfo() schema.Type[schema.MetaType] {
	return schema.Type[schema.MetaType]{Def: schema.NewCompact(Of[T]())}
}

// Result holds either an Ok or an Err value.
type Result[T, E any] struct {
	Ok    T
	Err   E
	IsErr bool
}

// TypeInfo implements TypeInfoProvider.
func (Result[T, E]) TypeInfo() schema.Type[schema.MetaType] {
	ok, err := Of[T](), Of[E]()
	return schema.NewTypeBuilder[schema.MetaType]().
		Path(schema.Path{"Result"}).
		Params(schema.NewTypeParameter("T", ok), schema.NewTypeParameter("E", err)).
		MustVariant(schema.VariantsWithFields[schema.MetaType]().
			Variant(schema.NewVariant("Ok", schema.NewField("", ok).WithTypeName("T")).WithIndex(0)).
			Variant(schema.NewVariant("Err", schema.NewField("", err).WithTypeName("E")).WithIndex(1)))
}

// BitVec is a sequence of bits stored least significant bit first.
type BitVec struct {
	Bytes []byte
	Len   int
}

// TypeInfo implements TypeInfoProvider.
func (BitVec) TypeInfo() schema.Type[schema.MetaType] {
	return schema.Type[schema.MetaType]{Def: schema.NewBitSequence(schema.Prim(schema.U8), Of[Lsb0]())}
}

// Lsb0 orders bits least significant first.
type Lsb0 struct{}

// TypeInfo implements TypeInfoProvider.
func (Lsb0) TypeInfo() schema.Type[schema.MetaType] {
	return orderType("Lsb0")
}

// Msb0 orders bits most significant first.
type Msb0 struct{}

// TypeInfo implements TypeInfoProvider.
func (Msb0) TypeInfo() schema.Type[schema.MetaType] {
	return orderType("Msb0")
}

func orderType(name string) schema.Type[schema.MetaType] {
	return schema.NewTypeBuilder[schema.MetaType]().
		Path(schema.Path{"bitvec", "order", name}).
		MustComposite(schema.NoFields[schema.MetaType]())
}

// Phantom is a zero-sized field type. Fields of this type are dropped.
type Phantom[T any] struct{}

func (Phantom[T]) phantom() {}

// Enum is embedded as the first field of a struct to describe it as a
// tagged union. Every other exported field must be a pointer and becomes
// one variant; at most one is expected to be set at a time.
type Enum struct{}
