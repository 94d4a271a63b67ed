// Package typeof derives type descriptions from Go types by reflection.
//
// For returns a schema.MetaType whose identity is the reflect.Type and
// whose thunk describes the type on demand:
//
//	bool, string              bool, str
//	uint8..uint64, int8..int64 fixed-width integers (int and uint are 64-bit)
//	U128, I128, U256, I256    wide integers
//	Char                      char
//	*T                        Option<T>
//	[]T                       sequence of T
//	[N]T                      array of N T
//	map[K]V                   BTreeMap<K, V> over a sequence of (K, V)
//	struct{}                  unit (empty tuple)
//	named struct              composite with snake_case field names
//	struct embedding Enum     variant, one variant per pointer field
//	Result[T, E]              Result<T, E>
//	Compact[T]                compact-encoded T
//	BitVec                    bit sequence of u8 in Lsb0 order
//	Phantom[T]                the erased marker type
//
// Struct fields are controlled with the scale tag:
//
//	`scale:"-"`        skip the field
//	`scale:"compact"`  encode the field compactly
//	`scale:"name=x"`   rename the field or variant
//	`scale:"index=n"`  set the wire index of an enum variant
//
// and documented with the doc tag. Any type can describe itself by
// implementing TypeInfoProvider. Floats, complex numbers, channels,
// functions and interfaces have no description; Check reports them.
package typeof
