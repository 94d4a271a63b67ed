package registry

import (
	"go.uber.org/zap"

	"github.com/wippyai/typeinfo/schema"
)

// ParamPolicy decides what happens to type parameters during registration.
type ParamPolicy uint8

const (
	// KeepParams registers every bound type parameter.
	KeepParams ParamPolicy = iota
	// EraseParams keeps parameter names but drops their types. Types
	// referenced only through parameters are not registered.
	EraseParams
)

func (p ParamPolicy) String() string {
	if p == EraseParams {
		return "erase"
	}
	return "keep"
}

// Options configures registry behavior.
type Options struct {
	Logger *zap.Logger
	// Marker is the identity of the zero-sized marker type. Fields of this
	// type are dropped. Nil means schema.MarkerID.
	Marker any
	Params ParamPolicy
}

// DefaultOptions returns default registry configuration.
func DefaultOptions() Options {
	return Options{
		Marker: schema.MarkerID,
		Params: KeepParams,
	}
}
