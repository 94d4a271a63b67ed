package portable

import (
	"encoding/json"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/schema"
)

// Textual layout shared by JSON and YAML. Definitions are a single-key
// object named by the definition kind; empty lists are omitted.

type entryText struct {
	ID   uint32   `json:"id" yaml:"id"`
	Type typeText `json:"type" yaml:"type"`
}

type typeText struct {
	Path   []string    `json:"path,omitempty" yaml:"path,omitempty"`
	Params []paramText `json:"params,omitempty" yaml:"params,omitempty"`
	Def    defText     `json:"def" yaml:"def"`
	Docs   []string    `json:"docs,omitempty" yaml:"docs,omitempty"`
}

type paramText struct {
	Name string  `json:"name" yaml:"name"`
	Type *uint32 `json:"type,omitempty" yaml:"type,omitempty"`
}

type defText struct {
	Composite   *compositeText `json:"composite,omitempty" yaml:"composite,omitempty"`
	Variant     *variantsText  `json:"variant,omitempty" yaml:"variant,omitempty"`
	Sequence    *refText       `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Array       *arrayText     `json:"array,omitempty" yaml:"array,omitempty"`
	Tuple       *[]uint32      `json:"tuple,omitempty" yaml:"tuple,omitempty"`
	Primitive   *string        `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Compact     *refText       `json:"compact,omitempty" yaml:"compact,omitempty"`
	BitSequence *bitsText      `json:"bitsequence,omitempty" yaml:"bitsequence,omitempty"`
}

type compositeText struct {
	Fields []fieldText `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type variantsText struct {
	Variants []variantText `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type variantText struct {
	Name         string      `json:"name" yaml:"name"`
	Fields       []fieldText `json:"fields,omitempty" yaml:"fields,omitempty"`
	Index        *uint8      `json:"index,omitempty" yaml:"index,omitempty"`
	Discriminant *uint64     `json:"discriminant,omitempty" yaml:"discriminant,omitempty"`
	Docs         []string    `json:"docs,omitempty" yaml:"docs,omitempty"`
}

type fieldText struct {
	Name     *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Type     uint32   `json:"type" yaml:"type"`
	TypeName string   `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Compact  bool     `json:"compact,omitempty" yaml:"compact,omitempty"`
	Docs     []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

type refText struct {
	Type uint32 `json:"type" yaml:"type"`
}

type arrayText struct {
	Len  uint32 `json:"len" yaml:"len"`
	Type uint32 `json:"type" yaml:"type"`
}

type bitsText struct {
	Store uint32 `json:"bit_store_type" yaml:"bit_store_type"`
	Order uint32 `json:"bit_order_type" yaml:"bit_order_type"`
}

// MarshalJSON implements json.Marshaler.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toText())
}

// UnmarshalJSON implements json.Unmarshaler. The result is validated.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var entries []entryText
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse JSON table")
	}
	return r.fromText(entries)
}

// MarshalYAML implements yaml.Marshaler.
func (r *Registry) MarshalYAML() (any, error) {
	return r.toText(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The result is validated.
func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	var entries []entryText
	if err := node.Decode(&entries); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse YAML table")
	}
	return r.fromText(entries)
}

func (r *Registry) toText() []entryText {
	out := make([]entryText, len(r.types))
	for i := range r.types {
		out[i] = entryText{ID: uint32(i), Type: typeToText(&r.types[i])}
	}
	return out
}

func (r *Registry) fromText(entries []entryText) error {
	types := make([]Type, len(entries))
	for i, e := range entries {
		if int(e.ID) != i {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path("types", strconv.Itoa(i), "id").
				Value(e.ID).
				Detail("id %d at position %d", e.ID, i).
				Build()
		}
		t, err := typeFromText(e.Type, []string{"types", strconv.Itoa(i)})
		if err != nil {
			return err
		}
		types[i] = t
	}
	dec, err := FromTypes(types)
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}

func typeToText(t *Type) typeText {
	out := typeText{Path: t.Path, Docs: t.Docs}
	for _, p := range t.Params {
		out.Params = append(out.Params, paramText{Name: p.Name, Type: p.Type})
	}
	switch d := t.Def.(type) {
	case *schema.Composite[uint32]:
		out.Def.Composite = &compositeText{Fields: fieldsToText(d.Fields)}
	case *schema.VariantDef[uint32]:
		vt := &variantsText{}
		for _, v := range d.Variants {
			vt.Variants = append(vt.Variants, variantText{
				Name:         v.Name,
				Fields:       fieldsToText(v.Fields),
				Index:        v.Index,
				Discriminant: v.Discriminant,
				Docs:         v.Docs,
			})
		}
		out.Def.Variant = vt
	case *schema.Sequence[uint32]:
		out.Def.Sequence = &refText{Type: d.Elem}
	case *schema.Array[uint32]:
		out.Def.Array = &arrayText{Len: d.Len, Type: d.Elem}
	case *schema.Tuple[uint32]:
		elems := append([]uint32{}, d.Elems...)
		out.Def.Tuple = &elems
	case *schema.Primitive:
		name := d.Prim.String()
		out.Def.Primitive = &name
	case *schema.Compact[uint32]:
		out.Def.Compact = &refText{Type: d.Inner}
	case *schema.BitSequence[uint32]:
		out.Def.BitSequence = &bitsText{Store: d.Store, Order: d.Order}
	}
	return out
}

func fieldsToText(fields []schema.Field[uint32]) []fieldText {
	var out []fieldText
	for _, f := range fields {
		out = append(out, fieldText{
			Name:     f.Name,
			Type:     f.Type,
			TypeName: f.TypeName,
			Compact:  f.Compact,
			Docs:     f.Docs,
		})
	}
	return out
}

func typeFromText(in typeText, path []string) (Type, error) {
	t := Type{}
	if len(in.Path) > 0 {
		t.Path = in.Path
	}
	if len(in.Docs) > 0 {
		t.Docs = in.Docs
	}
	for _, p := range in.Params {
		t.Params = append(t.Params, schema.TypeParameter[uint32]{Name: p.Name, Type: p.Type})
	}

	var defs []schema.TypeDef[uint32]
	d := in.Def
	if d.Composite != nil {
		defs = append(defs, &schema.Composite[uint32]{Fields: fieldsFromText(d.Composite.Fields)})
	}
	if d.Variant != nil {
		var vs []schema.Variant[uint32]
		for _, v := range d.Variant.Variants {
			vs = append(vs, schema.Variant[uint32]{
				Name:         v.Name,
				Fields:       fieldsFromText(v.Fields),
				Index:        v.Index,
				Discriminant: v.Discriminant,
				Docs:         nilIfEmpty(v.Docs),
			})
		}
		defs = append(defs, &schema.VariantDef[uint32]{Variants: vs})
	}
	if d.Sequence != nil {
		defs = append(defs, &schema.Sequence[uint32]{Elem: d.Sequence.Type})
	}
	if d.Array != nil {
		defs = append(defs, &schema.Array[uint32]{Len: d.Array.Len, Elem: d.Array.Type})
	}
	if d.Tuple != nil {
		defs = append(defs, &schema.Tuple[uint32]{Elems: nilIfEmpty(*d.Tuple)})
	}
	if d.Primitive != nil {
		k, ok := schema.ParsePrimitiveKind(*d.Primitive)
		if !ok {
			return Type{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(append(path, "def", "primitive")...).
				Value(*d.Primitive).
				Detail("unknown primitive %q", *d.Primitive).
				Build()
		}
		defs = append(defs, &schema.Primitive{Prim: k})
	}
	if d.Compact != nil {
		defs = append(defs, &schema.Compact[uint32]{Inner: d.Compact.Type})
	}
	if d.BitSequence != nil {
		defs = append(defs, &schema.BitSequence[uint32]{Store: d.BitSequence.Store, Order: d.BitSequence.Order})
	}
	if len(defs) != 1 {
		return Type{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(append(path, "def")...).
			Detail("definition must have exactly one kind, found %d", len(defs)).
			Build()
	}
	t.Def = defs[0]
	return t, nil
}

func fieldsFromText(in []fieldText) []schema.Field[uint32] {
	var out []schema.Field[uint32]
	for _, f := range in {
		out = append(out, schema.Field[uint32]{
			Name:     f.Name,
			Type:     f.Type,
			TypeName: f.TypeName,
			Compact:  f.Compact,
			Docs:     nilIfEmpty(f.Docs),
		})
	}
	return out
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
