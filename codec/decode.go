package codec

import (
	"strconv"

	"github.com/wippyai/typeinfo/codec/internal/scale"
	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/schema"
)

// decoder carries the reader and turns low-level failures into
// errors that name the element being decoded.
type decoder struct {
	r   *scale.Reader
	err error
}

func (d *decoder) fail(path []string, err error) {
	if d.err == nil {
		d.err = decodeErr(d.r, path, err)
	}
}

func (d *decoder) compact(path []string) uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ReadCompactU32()
	if err != nil {
		d.fail(path, err)
	}
	return v
}

func (d *decoder) length(path []string) int {
	if d.err != nil {
		return 0
	}
	n, err := d.r.ReadLen()
	if err != nil {
		d.fail(path, err)
	}
	return n
}

func (d *decoder) str(path []string) string {
	if d.err != nil {
		return ""
	}
	s, err := d.r.ReadStr()
	if err != nil {
		d.fail(path, err)
	}
	return s
}

func (d *decoder) option(path []string) bool {
	if d.err != nil {
		return false
	}
	some, err := d.r.ReadOption()
	if err != nil {
		d.fail(path, err)
	}
	return some
}

func (d *decoder) u8(path []string) byte {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.fail(path, err)
	}
	return b
}

func (d *decoder) strings(path []string) []string {
	n := d.length(path)
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.str(append(path, strconv.Itoa(i))))
	}
	return out
}

func readType(r *scale.Reader, path []string) (Type, error) {
	d := &decoder{r: r}
	var t Type
	if p := d.strings(sub(path, "path")); len(p) > 0 {
		t.Path = p
	}
	if n := d.length(sub(path, "params")); n > 0 {
		t.Params = make([]schema.TypeParameter[uint32], 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			pp := sub(path, "params", strconv.Itoa(i))
			p := schema.TypeParameter[uint32]{Name: d.str(pp)}
			if d.option(pp) {
				id := d.compact(pp)
				p.Type = &id
			}
			t.Params = append(t.Params, p)
		}
	}
	t.Def = d.def(sub(path, "def"))
	t.Docs = d.strings(sub(path, "docs"))
	if d.err != nil {
		return Type{}, d.err
	}
	return t, nil
}

func (d *decoder) def(path []string) schema.TypeDef[uint32] {
	tag := d.u8(path)
	if d.err != nil {
		return nil
	}
	switch schema.DefKind(tag) {
	case schema.KindComposite:
		return &schema.Composite[uint32]{Fields: d.fields(path)}
	case schema.KindVariant:
		n := d.length(path)
		var vs []schema.Variant[uint32]
		for i := 0; i < n && d.err == nil; i++ {
			vp := sub(path, strconv.Itoa(i))
			v := schema.Variant[uint32]{Name: d.str(vp)}
			v.Fields = d.fields(vp)
			if d.option(sub(vp, "index")) {
				idx := d.u8(sub(vp, "index"))
				v.Index = &idx
			}
			if d.option(sub(vp, "discriminant")) && d.err == nil {
				disc, err := d.r.ReadU64LE()
				if err != nil {
					d.fail(sub(vp, "discriminant"), err)
				}
				v.Discriminant = &disc
			}
			v.Docs = d.strings(sub(vp, "docs"))
			vs = append(vs, v)
		}
		return &schema.VariantDef[uint32]{Variants: vs}
	case schema.KindSequence:
		return &schema.Sequence[uint32]{Elem: d.compact(path)}
	case schema.KindArray:
		if d.err != nil {
			return nil
		}
		n, err := d.r.ReadU32LE()
		if err != nil {
			d.fail(path, err)
			return nil
		}
		return &schema.Array[uint32]{Len: n, Elem: d.compact(path)}
	case schema.KindTuple:
		n := d.length(path)
		var elems []uint32
		for i := 0; i < n && d.err == nil; i++ {
			elems = append(elems, d.compact(sub(path, strconv.Itoa(i))))
		}
		return &schema.Tuple[uint32]{Elems: elems}
	case schema.KindPrimitive:
		k := schema.PrimitiveKind(d.u8(path))
		if d.err == nil && !k.Valid() {
			d.err = errors.InvalidTag(errors.PhaseDecode, path, "primitive", byte(k))
		}
		return &schema.Primitive{Prim: k}
	case schema.KindCompact:
		return &schema.Compact[uint32]{Inner: d.compact(path)}
	case schema.KindBitSequence:
		store := d.compact(path)
		return &schema.BitSequence[uint32]{Store: store, Order: d.compact(path)}
	}
	d.err = errors.InvalidTag(errors.PhaseDecode, path, "type definition", tag)
	return nil
}

func (d *decoder) fields(path []string) []schema.Field[uint32] {
	n := d.length(sub(path, "fields"))
	var fields []schema.Field[uint32]
	for i := 0; i < n && d.err == nil; i++ {
		fp := sub(path, "fields", strconv.Itoa(i))
		var f schema.Field[uint32]
		if d.option(fp) {
			name := d.str(fp)
			f.Name = &name
		}
		f.Type = d.compact(fp)
		if d.option(fp) {
			f.TypeName = d.str(fp)
		}
		if d.err == nil {
			c, err := d.r.ReadBool()
			if err != nil {
				d.fail(fp, err)
			}
			f.Compact = c
		}
		f.Docs = d.strings(sub(fp, "docs"))
		fields = append(fields, f)
	}
	return fields
}

// sub returns a fresh path so callers may append to it safely.
func sub(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	out = append(out, path...)
	return append(out, elems...)
}
