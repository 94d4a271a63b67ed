// Package schema is the type description language.
//
// A Type describes one data type by its Path, its type parameters, its
// structural TypeDef and its documentation. The type parameter R is the
// reference type used wherever one type points at another: MetaType in the
// live graph handed to a registry, uint32 ids in a portable table.
//
// TypeDef is a closed union over eight shapes:
//
//	Composite    struct-like, named or unnamed fields
//	VariantDef   tagged union
//	Sequence     runtime-length list
//	Array        fixed-length list
//	Tuple        anonymous product
//	Primitive    bool, char, str and fixed-width integers
//	Compact      compact-encoded wrapper of an integer type
//	BitSequence  bit vector with a store and an order type
//
// Types are plain data. The builders in this package check shape rules at
// construction time and return errors from the errors package.
package schema
