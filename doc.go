// Package typeinfo builds compact, deduplicated tables of type descriptions
// for a binary codec.
//
// A producer describes each data type once as a schema.Type over
// schema.MetaType references. Registering a root walks every reachable
// type, assigns each distinct identity a sequential id in first-seen order
// and stores the description with all references replaced by ids. The
// resulting portable table is self-contained: it can be encoded, shipped
// and read back without the original declarations.
//
// # Architecture Overview
//
//	typeinfo/         Build helpers tying the packages below together
//	├── interner/     Sequential symbols for comparable keys
//	├── schema/       Type model, paths and builders
//	├── registry/     Cycle-safe recursive registration
//	├── portable/     Dense id-indexed tables, retain, JSON and YAML forms
//	├── codec/        SCALE binary encoding of tables
//	├── typeof/       Type descriptions derived from Go types by reflection
//	├── witgen/       WIT export of tables
//	├── section/      Tables in WebAssembly custom sections
//	├── catalog/      SQLite catalogue of stored tables
//	├── errors/       Structured error types
//	└── cmd/typeinfo  Command line tool
//
// # Quick Start
//
// Describe Go types and build their table:
//
//	type Point struct {
//	    X uint32
//	    Y uint32
//	}
//
//	reg, err := typeinfo.BuildTypes(reflect.TypeFor[Point]())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := reg.MarshalBinary()
//
// Or describe types by hand:
//
//	point := schema.NewMetaType("Point", func() schema.Type[schema.MetaType] {
//	    return schema.NewTypeBuilder[schema.MetaType]().
//	        Path(schema.MustPath("geo", "Point")).
//	        MustComposite(schema.NamedFields[schema.MetaType]().
//	            Named("x", schema.Prim(schema.U32), "u32").
//	            Named("y", schema.Prim(schema.U32), "u32"))
//	})
//	reg, err := typeinfo.Build(point)
//
// # Recursion
//
// A type's id is reserved before its description is expanded, so
// self-referential and mutually recursive types terminate and refer to
// their own ids.
//
// # Errors
//
// All errors are *errors.Error with a Phase and a Kind, except path
// validation which returns *errors.PathError:
//
//	var e *errors.Error
//	if errors.As(err, &e) && e.Kind == errors.KindIncomplete {
//	    // a type was reserved but never described
//	}
package typeinfo
