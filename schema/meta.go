package schema

import "fmt"

// MetaType is a reference in the live type graph: a comparable identity
// and a thunk that produces the type's description on demand.
// Two MetaTypes are the same type exactly when their identities are equal.
type MetaType struct {
	id      any
	resolve func() Type[MetaType]
}

// NewMetaType creates a reference. identity must be comparable and unique
// per distinct type; resolve is called at most once per registry.
func NewMetaType(identity any, resolve func() Type[MetaType]) MetaType {
	return MetaType{id: identity, resolve: resolve}
}

// Identity returns the identity of the referenced type.
func (m MetaType) Identity() any {
	return m.id
}

// Resolve produces the description of the referenced type.
func (m MetaType) Resolve() Type[MetaType] {
	return m.resolve()
}

// IsZero reports whether m was never initialized.
func (m MetaType) IsZero() bool {
	return m.id == nil && m.resolve == nil
}

// Equal reports whether m and o reference the same type.
func (m MetaType) Equal(o MetaType) bool {
	return m.id == o.id
}

// IsMarker reports whether m is the erased marker type.
func (m MetaType) IsMarker() bool {
	return m.id == MarkerID
}

func (m MetaType) String() string {
	return fmt.Sprint(m.id)
}

type markerKey struct{}

// MarkerID is the identity of the zero-sized marker type. Fields of this
// type are dropped from field lists when built.
var MarkerID any = markerKey{}

// Marker returns the reference to the zero-sized marker type.
func Marker() MetaType {
	return NewMetaType(MarkerID, func() Type[MetaType] {
		return Type[MetaType]{Path: Path{"Marker"}, Def: NewComposite[MetaType]()}
	})
}

// Prim returns the reference to a primitive type. Its identity is the kind.
func Prim(k PrimitiveKind) MetaType {
	return NewMetaType(k, func() Type[MetaType] { return PrimitiveType[MetaType](k) })
}
