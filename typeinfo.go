package typeinfo

import (
	"fmt"
	"reflect"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/portable"
	"github.com/wippyai/typeinfo/registry"
	"github.com/wippyai/typeinfo/schema"
	"github.com/wippyai/typeinfo/typeof"
)

// Build registers roots in order with default options and returns the
// portable table.
func Build(roots ...schema.MetaType) (*portable.Registry, error) {
	return BuildWithOptions(registry.DefaultOptions(), roots...)
}

// BuildWithOptions registers roots in order and returns the portable table.
// Panics raised while expanding a type are returned as errors.
func BuildWithOptions(opts registry.Options, roots ...schema.MetaType) (reg *portable.Registry, err error) {
	r := registry.New(opts)
	defer func() {
		if p := recover(); p != nil {
			reg, err = nil, recovered(p)
		}
	}()
	r.RegisterAll(roots...)
	return portable.TryNew(r)
}

// BuildTypes describes the given Go types with the typeof package and
// builds their table. Every type is checked before registration.
func BuildTypes(types ...reflect.Type) (*portable.Registry, error) {
	roots := make([]schema.MetaType, len(types))
	for i, t := range types {
		if err := typeof.Check(t); err != nil {
			return nil, err
		}
		roots[i] = typeof.For(t)
	}
	return Build(roots...)
}

func recovered(p any) error {
	switch v := p.(type) {
	case *errors.Error:
		return v
	case *errors.PathError:
		return v
	case error:
		return errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, v, "type expansion panicked")
	}
	return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
		Value(p).
		Detail("type expansion panicked: %s", fmt.Sprint(p)).
		Build()
}
