package witgen

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

const indent = "  "

// WIT renders the package as WIT source text.
func (p *Package) WIT() string {
	var b strings.Builder
	b.WriteString("package ")
	b.WriteString(p.Name)
	b.WriteString(";\n\ninterface ")
	b.WriteString(ident(p.Interface))
	b.WriteString(" {\n")
	for i, td := range p.Types {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDef(&b, td)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeDef(b *strings.Builder, td *wit.TypeDef) {
	writeDocs(b, indent, td.Docs)
	name := ident(*td.Name)
	switch k := td.Kind.(type) {
	case *wit.Record:
		b.WriteString(indent + "record " + name + " {\n")
		for _, f := range k.Fields {
			writeDocs(b, indent+indent, f.Docs)
			b.WriteString(indent + indent + ident(f.Name) + ": " + typeString(f.Type) + ",\n")
		}
		b.WriteString(indent + "}\n")
	case *wit.Variant:
		b.WriteString(indent + "variant " + name + " {\n")
		for _, c := range k.Cases {
			writeDocs(b, indent+indent, c.Docs)
			b.WriteString(indent + indent + ident(c.Name))
			if c.Type != nil {
				b.WriteString("(" + typeString(c.Type) + ")")
			}
			b.WriteString(",\n")
		}
		b.WriteString(indent + "}\n")
	case *wit.Enum:
		b.WriteString(indent + "enum " + name + " {\n")
		for _, c := range k.Cases {
			writeDocs(b, indent+indent, c.Docs)
			b.WriteString(indent + indent + ident(c.Name) + ",\n")
		}
		b.WriteString(indent + "}\n")
	default:
		b.WriteString(indent + "type " + name + " = " + kindString(td.Kind) + ";\n")
	}
}

func writeDocs(b *strings.Builder, prefix string, docs wit.Docs) {
	if docs.Contents == "" {
		return
	}
	for _, line := range strings.Split(docs.Contents, "\n") {
		b.WriteString(prefix + "/// " + line + "\n")
	}
}

// typeString renders a reference to t: the name of a named definition or
// the inline spelling of an anonymous one.
func typeString(t wit.Type) string {
	switch t := t.(type) {
	case *wit.TypeDef:
		if t.Name != nil {
			return ident(*t.Name)
		}
		return kindString(t.Kind)
	case wit.Bool:
		return "bool"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.S8:
		return "s8"
	case wit.S16:
		return "s16"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	}
	return "_"
}

func kindString(k wit.TypeDefKind) string {
	switch k := k.(type) {
	case *wit.List:
		return "list<" + typeString(k.Type) + ">"
	case *wit.Option:
		return "option<" + typeString(k.Type) + ">"
	case *wit.Tuple:
		parts := make([]string, len(k.Types))
		for i, t := range k.Types {
			parts[i] = typeString(t)
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	case *wit.Result:
		switch {
		case k.OK == nil && k.Err == nil:
			return "result"
		case k.Err == nil:
			return "result<" + typeString(k.OK) + ">"
		case k.OK == nil:
			return "result<_, " + typeString(k.Err) + ">"
		}
		return "result<" + typeString(k.OK) + ", " + typeString(k.Err) + ">"
	case wit.Type:
		return typeString(k)
	}
	return "_"
}
