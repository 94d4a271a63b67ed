package typeof

import (
	"reflect"

	"github.com/wippyai/typeinfo/errors"
)

// Check reports the first part of t that For cannot describe, without
// panicking. Types implementing TypeInfoProvider are trusted as is.
func Check(t reflect.Type) error {
	if t == nil {
		return errors.New(errors.PhaseBuild, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	c := checker{seen: make(map[reflect.Type]bool)}
	return c.check(t, nil)
}

type checker struct {
	seen map[reflect.Type]bool
}

func (c *checker) check(t reflect.Type, path []string) error {
	if c.seen[t] {
		return nil
	}
	c.seen[t] = true

	if t.Kind() != reflect.Pointer && t.Implements(phantomType) {
		return nil
	}
	if isProvider(t) {
		return nil
	}
	if _, ok := primitiveKind(t); ok {
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice:
		return c.check(t.Elem(), path)
	case reflect.Array:
		if uint64(t.Len()) > uint64(^uint32(0)) {
			return unsupported(t, path, "array length exceeds u32")
		}
		return c.check(t.Elem(), path)
	case reflect.Map:
		if err := c.check(t.Key(), append(path, "key")); err != nil {
			return err
		}
		return c.check(t.Elem(), append(path, "value"))
	case reflect.Struct:
		return c.checkStruct(t, path)
	}
	return unsupported(t, path, "no description for kind "+t.Kind().String())
}

func (c *checker) checkStruct(t reflect.Type, path []string) error {
	enum := isEnum(t)
	start := 0
	if enum {
		start = 1
	}
	next := 0
	for i := start; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := parseTag(sf)
		if tag.skip {
			continue
		}
		fieldPath := append(append([]string(nil), path...), sf.Name)
		ft := sf.Type
		if enum {
			if ft.Kind() != reflect.Pointer {
				return unsupported(t, fieldPath, "enum variant fields must be pointers")
			}
			idx := next
			if tag.index >= 0 {
				idx = tag.index
			}
			if idx > 255 {
				return unsupported(t, fieldPath, "variant index exceeds 255")
			}
			next = idx + 1
			ft = ft.Elem()
		} else if tag.compact && !compactable(ft) {
			return unsupported(t, fieldPath, "compact tag needs an integer or a TypeInfoProvider")
		}
		if err := c.check(ft, fieldPath); err != nil {
			return err
		}
	}
	return nil
}
