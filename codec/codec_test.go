package codec

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/schema"
)

func str(s string) *string { return &s }

func sampleTable() []Type {
	u8 := uint32(1)
	idx0, idx1 := uint8(0), uint8(1)
	disc := uint64(42)
	return []Type{
		{
			Path:   schema.Path{"app", "Account"},
			Params: []schema.TypeParameter[uint32]{{Name: "T", Type: &u8}, {Name: "U"}},
			Def: &schema.Composite[uint32]{Fields: []schema.Field[uint32]{
				{Name: str("id"), Type: 1, TypeName: "u8"},
				{Name: str("balance"), Type: 2, TypeName: "u128", Compact: true, Docs: []string{"free"}},
				{Name: str("tags"), Type: 4},
				{Name: str("next"), Type: 0},
			}},
			Docs: []string{"An account."},
		},
		{Def: &schema.Primitive{Prim: schema.U8}},
		{Def: &schema.Compact[uint32]{Inner: 3}},
		{Def: &schema.Primitive{Prim: schema.U128}},
		{Def: &schema.Sequence[uint32]{Elem: 5}},
		{Def: &schema.Tuple[uint32]{Elems: []uint32{1, 6}}},
		{Def: &schema.Array[uint32]{Len: 32, Elem: 1}},
		{
			Path: schema.Path{"Status"},
			Def: &schema.VariantDef[uint32]{Variants: []schema.Variant[uint32]{
				{Name: "Idle", Index: &idx0},
				{Name: "Busy", Index: &idx1, Discriminant: &disc, Fields: []schema.Field[uint32]{{Type: 1}}},
			}},
		},
		{Def: &schema.BitSequence[uint32]{Store: 1, Order: 9}},
		{Path: schema.Path{"Lsb0"}, Def: &schema.Composite[uint32]{}},
		{Def: &schema.Tuple[uint32]{}},
	}
}

func TestEncodeDecode(t *testing.T) {
	table := sampleTable()
	data := Encode(table)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("Decode(Encode(table)) differs:\n got %#v\nwant %#v", got, table)
	}
	if !bytes.Equal(Encode(got), data) {
		t.Error("re-encoding changed the bytes")
	}
}

func TestEncodeType_Layout(t *testing.T) {
	tests := []struct {
		name string
		ty   Type
		want []byte
	}{
		{
			name: "primitive u32",
			ty:   Type{Def: &schema.Primitive{Prim: schema.U32}},
			want: []byte{0x00, 0x00, 0x05, 0x05, 0x00},
		},
		{
			name: "sequence",
			ty:   Type{Def: &schema.Sequence[uint32]{Elem: 64}},
			want: []byte{0x00, 0x00, 0x02, 0x01, 0x01, 0x00},
		},
		{
			name: "array",
			ty:   Type{Def: &schema.Array[uint32]{Len: 32, Elem: 1}},
			want: []byte{0x00, 0x00, 0x03, 0x20, 0x00, 0x00, 0x00, 0x04, 0x00},
		},
		{
			name: "named path",
			ty:   Type{Path: schema.Path{"A"}, Def: &schema.Tuple[uint32]{}},
			want: []byte{0x04, 0x04, 'A', 0x00, 0x04, 0x00, 0x00},
		},
		{
			name: "field",
			ty: Type{Def: &schema.Composite[uint32]{Fields: []schema.Field[uint32]{
				{Name: str("x"), Type: 2, Compact: true},
			}}},
			want: []byte{0x00, 0x00, 0x00, 0x04, 0x01, 0x04, 'x', 0x08, 0x00, 0x01, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeType(&tt.ty)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeType: got %x, want %x", got, tt.want)
			}
			back, err := DecodeType(got)
			if err != nil {
				t.Fatalf("DecodeType: %v", err)
			}
			if !reflect.DeepEqual(back, tt.ty) {
				t.Errorf("DecodeType = %#v, want %#v", back, tt.ty)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	valid := Encode([]Type{{Def: &schema.Primitive{Prim: schema.Bool}}})

	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"empty input", nil, errors.KindOutOfBounds},
		{"truncated", valid[:len(valid)-1], errors.KindOutOfBounds},
		{"unknown def tag", []byte{0x04, 0x00, 0x00, 0x00, 0x09, 0x00}, errors.KindInvalidTag},
		{"unknown primitive", []byte{0x04, 0x00, 0x00, 0x00, 0x05, 0x20, 0x00}, errors.KindInvalidTag},
		{"sparse id", []byte{0x04, 0x04, 0x00, 0x00, 0x05, 0x00, 0x00}, errors.KindInvalidData},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00), errors.KindInvalidData},
		{"bad utf8", []byte{0x04, 0x00, 0x04, 0x04, 0xff, 0x00, 0x05, 0x00, 0x00}, errors.KindInvalidUTF8},
		{"bad option", []byte{0x04, 0x00, 0x00, 0x04, 0x04, 'T', 0x02}, errors.KindInvalidData},
		{"oversized compact", []byte{0x27}, errors.KindOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("err = %T, want *errors.Error", err)
			}
			if e.Phase != errors.PhaseDecode {
				t.Errorf("Phase = %v, want decode", e.Phase)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (%v)", e.Kind, tt.kind, err)
			}
		})
	}
}

func TestEncodeType_Canonical(t *testing.T) {
	a := Type{Path: schema.Path{"X"}, Def: &schema.Composite[uint32]{Fields: []schema.Field[uint32]{{Name: str("f"), Type: 3}}}}
	b := Type{Path: schema.Path{"X"}, Def: &schema.Composite[uint32]{Fields: []schema.Field[uint32]{{Name: str("f"), Type: 3}}}}
	c := Type{Path: schema.Path{"X"}, Def: &schema.Composite[uint32]{Fields: []schema.Field[uint32]{{Name: str("f"), Type: 4}}}}

	if !bytes.Equal(EncodeType(&a), EncodeType(&b)) {
		t.Error("equal types encoded differently")
	}
	if bytes.Equal(EncodeType(&a), EncodeType(&c)) {
		t.Error("different types encoded equally")
	}
}
