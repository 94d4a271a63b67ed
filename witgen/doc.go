// Package witgen renders portable type tables as WebAssembly Interface Types.
//
// Every type in the table is converted to a go.bytecodealliance.org/wit type.
// Types with a path become named definitions in a single interface:
//
//	composite, named fields     record
//	composite, unnamed fields   type x = tuple<...>
//	variant, no payloads        enum
//	variant                     variant
//	Option / Result shapes      option<T> / result<T, E>
//	sequence, array             list<T>
//	compact                     the inner type
//	bit sequence                list<u8>
//
// Integers wider than 64 bits become tuples of u64 words. WIT has no
// recursive types, so a cycle in the table fails with KindUnsupported.
package witgen
