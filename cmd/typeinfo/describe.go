package main

import (
	"strconv"
	"strings"

	"github.com/wippyai/typeinfo/portable"
	"github.com/wippyai/typeinfo/schema"
)

// maxInline bounds how deep anonymous types are spelled out inline.
const maxInline = 8

// refName renders a reference to id the way it would appear in a field.
func refName(reg *portable.Registry, id uint32) string {
	return inline(reg, id, 0)
}

func inline(reg *portable.Registry, id uint32, depth int) string {
	ty, ok := reg.Resolve(id)
	if !ok || depth > maxInline {
		return "#" + strconv.FormatUint(uint64(id), 10)
	}
	if !ty.Path.IsEmpty() {
		name := ty.Path.String()
		var args []string
		for _, p := range ty.Params {
			if p.Type != nil {
				args = append(args, inline(reg, *p.Type, depth+1))
			}
		}
		if len(args) > 0 {
			name += "<" + strings.Join(args, ", ") + ">"
		}
		return name
	}

	sub := func(ref uint32) string { return inline(reg, ref, depth+1) }
	switch d := ty.Def.(type) {
	case *schema.Primitive:
		return d.Prim.String()
	case *schema.Sequence[uint32]:
		return "[" + sub(d.Elem) + "]"
	case *schema.Array[uint32]:
		return "[" + sub(d.Elem) + "; " + strconv.FormatUint(uint64(d.Len), 10) + "]"
	case *schema.Tuple[uint32]:
		parts := make([]string, len(d.Elems))
		for i, e := range d.Elems {
			parts[i] = sub(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *schema.Compact[uint32]:
		return "Compact<" + sub(d.Inner) + ">"
	case *schema.BitSequence[uint32]:
		return "BitVec<" + sub(d.Store) + ", " + sub(d.Order) + ">"
	case *schema.Composite[uint32]:
		return "{" + fieldList(reg, d.Fields, depth) + "}"
	case *schema.VariantDef[uint32]:
		names := make([]string, len(d.Variants))
		for i, v := range d.Variants {
			names[i] = v.Name
		}
		return "enum{" + strings.Join(names, " | ") + "}"
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

func fieldList(reg *portable.Registry, fields []schema.Field[uint32], depth int) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		t := inline(reg, f.Type, depth+1)
		if f.IsNamed() {
			t = *f.Name + ": " + t
		}
		parts[i] = t
	}
	return strings.Join(parts, ", ")
}

// definition renders the full declaration of id over several lines.
func definition(reg *portable.Registry, id uint32) string {
	ty, ok := reg.Resolve(id)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, line := range ty.Docs {
		b.WriteString("/// " + line + "\n")
	}
	name := refName(reg, id)
	switch d := ty.Def.(type) {
	case *schema.Composite[uint32]:
		b.WriteString("struct " + name)
		writeFields(&b, reg, d.Fields, "")
		b.WriteByte('\n')
	case *schema.VariantDef[uint32]:
		b.WriteString("enum " + name + " {\n")
		for _, v := range d.Variants {
			for _, line := range v.Docs {
				b.WriteString("    /// " + line + "\n")
			}
			b.WriteString("    " + v.Name)
			writeFields(&b, reg, v.Fields, "    ")
			if v.Index != nil {
				b.WriteString(" = " + strconv.Itoa(int(*v.Index)))
			} else if v.Discriminant != nil {
				b.WriteString(" = " + strconv.FormatUint(*v.Discriminant, 10))
			}
			b.WriteString(",\n")
		}
		b.WriteString("}\n")
	default:
		b.WriteString("type #" + strconv.FormatUint(uint64(id), 10) + " = " + inline(reg, id, 1) + "\n")
	}
	return b.String()
}

func writeFields(b *strings.Builder, reg *portable.Registry, fields []schema.Field[uint32], indent string) {
	if len(fields) == 0 {
		return
	}
	if !fields[0].IsNamed() {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = refName(reg, f.Type)
		}
		b.WriteString("(" + strings.Join(parts, ", ") + ")")
		return
	}
	b.WriteString(" {\n")
	for _, f := range fields {
		for _, line := range f.Docs {
			b.WriteString(indent + "    /// " + line + "\n")
		}
		t := refName(reg, f.Type)
		if f.Compact {
			t += " (compact)"
		}
		b.WriteString(indent + "    " + *f.Name + ": " + t + ",\n")
	}
	b.WriteString(indent + "}")
}
