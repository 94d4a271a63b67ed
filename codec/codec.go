// Package codec implements the binary layout of portable type tables.
//
// A table is a length-prefixed sequence of {id, type} records where id is a
// compact-encoded uint32 equal to the record's position. Definitions are
// prefixed with a one-byte tag:
//
//	0 composite  1 variant  2 sequence  3 array
//	4 tuple      5 primitive  6 compact  7 bitsequence
//
// Tags are never reused. Strings and lists carry compact length prefixes;
// optional values carry a 0/1 byte.
package codec

import (
	stderrors "errors"
	"io"
	"strconv"

	"github.com/wippyai/typeinfo/codec/internal/scale"
	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/schema"
)

// Type is a type description whose references are table ids.
type Type = schema.Type[uint32]

// Encode returns the binary form of a table. types[i] is written with id i.
func Encode(types []Type) []byte {
	w := scale.NewWriter()
	w.WriteLen(len(types))
	for i := range types {
		w.WriteCompact(uint64(i))
		writeType(w, &types[i])
	}
	return w.Bytes()
}

// EncodeType returns the binary form of a single type description.
// Equal descriptions always produce equal bytes.
func EncodeType(t *Type) []byte {
	w := scale.NewWriter()
	writeType(w, t)
	return w.Bytes()
}

// Decode parses a table produced by Encode. Ids must be dense and in order.
// References are not range checked.
func Decode(data []byte) ([]Type, error) {
	r := scale.FromBytes(data)
	n, err := r.ReadLen()
	if err != nil {
		return nil, decodeErr(r, []string{"types"}, err)
	}
	types := make([]Type, 0, n)
	for i := 0; i < n; i++ {
		path := []string{"types", strconv.Itoa(i)}
		id, err := r.ReadCompactU32()
		if err != nil {
			return nil, decodeErr(r, append(path, "id"), err)
		}
		if int(id) != i {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).
				Value(id).
				Detail("id %d at position %d", id, i).
				Build()
		}
		t, err := readType(r, path)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if r.Remaining() > 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("%d trailing bytes", r.Remaining()).
			Build()
	}
	return types, nil
}

// DecodeType parses a single type description produced by EncodeType.
func DecodeType(data []byte) (Type, error) {
	r := scale.FromBytes(data)
	t, err := readType(r, nil)
	if err != nil {
		return Type{}, err
	}
	if r.Remaining() > 0 {
		return Type{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("%d trailing bytes", r.Remaining()).
			Build()
	}
	return t, nil
}

func decodeErr(r *scale.Reader, path []string, err error) error {
	kind := errors.KindInvalidData
	switch {
	case stderrors.Is(err, scale.ErrOverflow):
		kind = errors.KindOverflow
	case stderrors.Is(err, scale.ErrInvalidUTF8):
		kind = errors.KindInvalidUTF8
	case stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		kind = errors.KindOutOfBounds
	}
	return errors.New(errors.PhaseDecode, kind).
		Path(path...).
		Value(r.Position()).
		Cause(err).
		Build()
}
