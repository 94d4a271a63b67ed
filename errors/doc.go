// Package errors provides structured error types for the typeinfo module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: element path, Go/schema type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidTag).
//		Path("types", "3", "def").
//		TypeName("TypeDef").
//		Detail("unknown tag %d", tag).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//	err := errors.MissingPath("composite")
//
// Path validation reports a *PathError, which matches the ErrMissingSegments
// and ErrInvalidIdentifier sentinels under errors.Is.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
