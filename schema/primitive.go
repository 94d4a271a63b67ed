package schema

import "strconv"

// PrimitiveKind enumerates built-in scalars. The numeric value is the
// binary encoding.
type PrimitiveKind uint8

const (
	Bool PrimitiveKind = iota
	Char
	Str
	U8
	U16
	U32
	U64
	U128
	U256
	I8
	I16
	I32
	I64
	I128
	I256
)

var primitiveNames = [...]string{
	Bool: "bool",
	Char: "char",
	Str:  "str",
	U8:   "u8",
	U16:  "u16",
	U32:  "u32",
	U64:  "u64",
	U128: "u128",
	U256: "u256",
	I8:   "i8",
	I16:  "i16",
	I32:  "i32",
	I64:  "i64",
	I128: "i128",
	I256: "i256",
}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "PrimitiveKind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a known kind.
func (k PrimitiveKind) Valid() bool {
	return int(k) < len(primitiveNames)
}

// IsInteger reports whether k is a signed or unsigned integer.
func (k PrimitiveKind) IsInteger() bool {
	return k >= U8 && k <= I256
}

// Bits returns the width of integer kinds, 0 otherwise.
func (k PrimitiveKind) Bits() int {
	switch k {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	case U256, I256:
		return 256
	}
	return 0
}

// ParsePrimitiveKind maps a textual name back to its kind.
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	for i, name := range primitiveNames {
		if name == s {
			return PrimitiveKind(i), true
		}
	}
	return 0, false
}

// PrimitiveType returns the anonymous Type of a primitive.
func PrimitiveType[R any](k PrimitiveKind) Type[R] {
	return Type[R]{Def: NewPrimitive(k)}
}
