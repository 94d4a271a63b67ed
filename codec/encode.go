package codec

import (
	"github.com/wippyai/typeinfo/codec/internal/scale"
	"github.com/wippyai/typeinfo/schema"
)

func writeType(w *scale.Writer, t *Type) {
	writeStrings(w, t.Path)
	w.WriteLen(len(t.Params))
	for _, p := range t.Params {
		w.WriteStr(p.Name)
		w.WriteOption(p.Type != nil)
		if p.Type != nil {
			w.WriteCompact(uint64(*p.Type))
		}
	}
	writeDef(w, t.Def)
	writeStrings(w, t.Docs)
}

func writeDef(w *scale.Writer, def schema.TypeDef[uint32]) {
	w.Byte(def.Kind().Tag())
	switch d := def.(type) {
	case *schema.Composite[uint32]:
		writeFields(w, d.Fields)
	case *schema.VariantDef[uint32]:
		w.WriteLen(len(d.Variants))
		for _, v := range d.Variants {
			w.WriteStr(v.Name)
			writeFields(w, v.Fields)
			w.WriteOption(v.Index != nil)
			if v.Index != nil {
				w.Byte(*v.Index)
			}
			w.WriteOption(v.Discriminant != nil)
			if v.Discriminant != nil {
				w.WriteU64LE(*v.Discriminant)
			}
			writeStrings(w, v.Docs)
		}
	case *schema.Sequence[uint32]:
		w.WriteCompact(uint64(d.Elem))
	case *schema.Array[uint32]:
		w.WriteU32LE(d.Len)
		w.WriteCompact(uint64(d.Elem))
	case *schema.Tuple[uint32]:
		w.WriteLen(len(d.Elems))
		for _, e := range d.Elems {
			w.WriteCompact(uint64(e))
		}
	case *schema.Primitive:
		w.Byte(byte(d.Prim))
	case *schema.Compact[uint32]:
		w.WriteCompact(uint64(d.Inner))
	case *schema.BitSequence[uint32]:
		w.WriteCompact(uint64(d.Store))
		w.WriteCompact(uint64(d.Order))
	}
}

func writeFields(w *scale.Writer, fields []schema.Field[uint32]) {
	w.WriteLen(len(fields))
	for _, f := range fields {
		w.WriteOption(f.Name != nil)
		if f.Name != nil {
			w.WriteStr(*f.Name)
		}
		w.WriteCompact(uint64(f.Type))
		w.WriteOption(f.TypeName != "")
		if f.TypeName != "" {
			w.WriteStr(f.TypeName)
		}
		w.WriteBool(f.Compact)
		writeStrings(w, f.Docs)
	}
}

func writeStrings(w *scale.Writer, ss []string) {
	w.WriteLen(len(ss))
	for _, s := range ss {
		w.WriteStr(s)
	}
}
