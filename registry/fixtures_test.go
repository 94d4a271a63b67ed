package registry

import (
	"strings"

	"github.com/wippyai/typeinfo/schema"
)

type mt = schema.MetaType

func u8() mt   { return schema.Prim(schema.U8) }
func u32() mt  { return schema.Prim(schema.U32) }
func u64() mt  { return schema.Prim(schema.U64) }
func u128() mt { return schema.Prim(schema.U128) }
func boolT() mt {
	return schema.Prim(schema.Bool)
}

func idOf(elems []mt) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func tupleOf(elems ...mt) mt {
	return schema.NewMetaType("("+idOf(elems)+")", func() schema.Type[mt] {
		return schema.Type[mt]{Def: schema.NewTuple(elems...)}
	})
}

func optionOf(inner mt) mt {
	return schema.NewMetaType("Option<"+inner.String()+">", func() schema.Type[mt] {
		return schema.NewTypeBuilder[mt]().
			Path(schema.MustPath("Option")).
			Params(schema.NewTypeParameter("T", inner)).
			MustVariant(schema.VariantsWithFields[mt]().
				Variant(schema.NewVariant[mt]("None").WithIndex(0)).
				Variant(schema.NewVariant("Some", schema.NewField("", inner)).WithIndex(1)))
	})
}

func compactOf(inner mt) mt {
	return schema.NewMetaType("Compact<"+inner.String()+">", func() schema.Type[mt] {
		return schema.Type[mt]{Def: schema.NewCompact(inner)}
	})
}

func arrayOf(n uint32, elem mt) mt {
	return schema.NewMetaType("["+elem.String()+"]", func() schema.Type[mt] {
		return schema.Type[mt]{Def: schema.NewArray(n, elem)}
	})
}

func vecOf(elem mt) mt {
	return schema.NewMetaType("Vec<"+elem.String()+">", func() schema.Type[mt] {
		return schema.Type[mt]{Def: schema.NewSequence(elem)}
	})
}

// counted wraps a meta type and counts how often its thunk runs.
func counted(m mt, calls *int) mt {
	return schema.NewMetaType(m.Identity(), func() schema.Type[mt] {
		*calls++
		return m.Resolve()
	})
}
