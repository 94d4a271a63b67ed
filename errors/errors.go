package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild    Phase = "build"    // type description construction
	PhaseRegister Phase = "register" // recursive registration
	PhasePortable Phase = "portable" // registry to portable table
	PhaseEncode   Phase = "encode"   // portable table to bytes
	PhaseDecode   Phase = "decode"   // bytes to portable table
	PhaseExport   Phase = "export"   // WIT generation
	PhaseSection  Phase = "section"  // wasm custom section handling
	PhaseStore    Phase = "store"    // catalogue persistence
	PhaseLoad     Phase = "load"     // file and catalogue reads
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindInvalidShape   Kind = "invalid_shape"
	KindInvalidTag     Kind = "invalid_tag"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOverflow       Kind = "overflow"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindMissingPath    Kind = "missing_path"
	KindDuplicate      Kind = "duplicate"
	KindIncomplete     Kind = "incomplete"
	KindNilPointer     Kind = "nil_pointer"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.TypeName != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.TypeName != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", type ")
			b.WriteString(e.TypeName)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("type ")
			b.WriteString(e.TypeName)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// TypeName sets the described type's name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidTag creates an error for an unknown union tag in encoded data
func InvalidTag(phase Phase, path []string, what string, tag byte) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidTag,
		Path:   path,
		Detail: fmt.Sprintf("unknown %s tag %d", what, tag),
		Value:  tag,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidShape creates an error for a type description whose parts do not fit its kind
func InvalidShape(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindInvalidShape,
		Path:   path,
		Detail: detail,
	}
}

// MissingPath creates the error returned when a named type is finalized without a path
func MissingPath(what string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindMissingPath,
		Detail: fmt.Sprintf("%s built without a path", what),
	}
}

// Incomplete creates the error for a registry slot that was reserved but never filled
func Incomplete(symbol uint32, identity any) *Error {
	return &Error{
		Phase:  PhasePortable,
		Kind:   KindIncomplete,
		Detail: fmt.Sprintf("symbol %d reserved for %v was never resolved", symbol, identity),
		Value:  identity,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// PathReason tells why a path failed validation
type PathReason uint8

const (
	// MissingSegments means the path had no segments at all
	MissingSegments PathReason = iota + 1
	// InvalidIdentifier means one segment is not an identifier
	InvalidIdentifier
)

func (r PathReason) String() string {
	switch r {
	case MissingSegments:
		return "missing segments"
	case InvalidIdentifier:
		return "invalid identifier"
	default:
		return "PathReason(" + strconv.Itoa(int(r)) + ")"
	}
}

// PathError is returned by path validation.
// SegmentIndex is only meaningful for InvalidIdentifier.
type PathError struct {
	Segment      string
	SegmentIndex int
	Reason       PathReason
}

// Sentinels for errors.Is; they match any PathError with the same reason.
var (
	ErrMissingSegments   = &PathError{Reason: MissingSegments, SegmentIndex: -1}
	ErrInvalidIdentifier = &PathError{Reason: InvalidIdentifier, SegmentIndex: -1}
)

func (e *PathError) Error() string {
	if e.Reason == InvalidIdentifier {
		return fmt.Sprintf("[%s] invalid path: segment %d (%q) is not an identifier", PhaseBuild, e.SegmentIndex, e.Segment)
	}
	return fmt.Sprintf("[%s] invalid path: %s", PhaseBuild, e.Reason)
}

// Is matches another PathError with the same reason. A negative
// SegmentIndex on the target matches any index.
func (e *PathError) Is(target error) bool {
	t, ok := target.(*PathError)
	if !ok {
		return false
	}
	if e.Reason != t.Reason {
		return false
	}
	return t.SegmentIndex < 0 || t.SegmentIndex == e.SegmentIndex
}
