package portable

import "github.com/wippyai/typeinfo/codec"

// MarshalBinary returns the codec encoding of the table.
func (r *Registry) MarshalBinary() ([]byte, error) {
	return codec.Encode(r.types), nil
}

// UnmarshalBinary replaces the table with a decoded and validated one.
func (r *Registry) UnmarshalBinary(data []byte) error {
	dec, err := Decode(data)
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}

// Decode parses and validates an encoded table.
func Decode(data []byte) (*Registry, error) {
	types, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromTypes(types)
}
