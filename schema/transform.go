package schema

// MapType converts every type reference in t with ref and every string
// with str. References and strings are visited in declaration order:
// path, params, definition, docs. A nil str leaves strings unchanged.
func MapType[A, B any](t Type[A], ref func(A) B, str func(string) string) Type[B] {
	if str == nil {
		str = func(s string) string { return s }
	}
	out := Type[B]{Path: mapStrings(t.Path, str)}
	if len(t.Params) > 0 {
		out.Params = make([]TypeParameter[B], len(t.Params))
		for i, p := range t.Params {
			out.Params[i].Name = str(p.Name)
			if p.Type != nil {
				r := ref(*p.Type)
				out.Params[i].Type = &r
			}
		}
	}
	out.Def = MapDef(t.Def, ref, str)
	out.Docs = mapStrings(t.Docs, str)
	return out
}

// MapDef converts a definition the way MapType does.
func MapDef[A, B any](def TypeDef[A], ref func(A) B, str func(string) string) TypeDef[B] {
	if str == nil {
		str = func(s string) string { return s }
	}
	switch d := def.(type) {
	case *Composite[A]:
		return &Composite[B]{Fields: mapFields(d.Fields, ref, str)}
	case *VariantDef[A]:
		var vs []Variant[B]
		if len(d.Variants) > 0 {
			vs = make([]Variant[B], len(d.Variants))
		}
		for i, v := range d.Variants {
			vs[i] = Variant[B]{
				Name:         str(v.Name),
				Fields:       mapFields(v.Fields, ref, str),
				Index:        v.Index,
				Discriminant: v.Discriminant,
				Docs:         mapStrings(v.Docs, str),
			}
		}
		return &VariantDef[B]{Variants: vs}
	case *Sequence[A]:
		return &Sequence[B]{Elem: ref(d.Elem)}
	case *Array[A]:
		return &Array[B]{Len: d.Len, Elem: ref(d.Elem)}
	case *Tuple[A]:
		var elems []B
		if len(d.Elems) > 0 {
			elems = make([]B, len(d.Elems))
		}
		for i, e := range d.Elems {
			elems[i] = ref(e)
		}
		return &Tuple[B]{Elems: elems}
	case *Primitive:
		return &Primitive{Prim: d.Prim}
	case *Compact[A]:
		return &Compact[B]{Inner: ref(d.Inner)}
	case *BitSequence[A]:
		store := ref(d.Store)
		return &BitSequence[B]{Store: store, Order: ref(d.Order)}
	}
	return nil
}

func mapFields[A, B any](fields []Field[A], ref func(A) B, str func(string) string) []Field[B] {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field[B], len(fields))
	for i, f := range fields {
		if f.Name != nil {
			n := str(*f.Name)
			out[i].Name = &n
		}
		out[i].Type = ref(f.Type)
		out[i].TypeName = str(f.TypeName)
		out[i].Compact = f.Compact
		out[i].Docs = mapStrings(f.Docs, str)
	}
	return out
}

func mapStrings[S ~[]string](in S, str func(string) string) S {
	if len(in) == 0 {
		return nil
	}
	out := make(S, len(in))
	for i, s := range in {
		out[i] = str(s)
	}
	return out
}

// Refs returns every type reference in t in the order MapType visits them.
func Refs[R any](t Type[R]) []R {
	var refs []R
	MapType(t, func(r R) R {
		refs = append(refs, r)
		return r
	}, nil)
	return refs
}
