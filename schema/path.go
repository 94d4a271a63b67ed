package schema

import (
	"strings"

	"github.com/wippyai/typeinfo/errors"
)

// Path is the qualified name of a type, outermost segment first.
// The empty Path belongs to anonymous types such as tuples and primitives.
type Path []string

// NewPath validates segments and returns them as a Path.
func NewPath(segments ...string) (Path, error) {
	if len(segments) == 0 {
		return nil, &errors.PathError{Reason: errors.MissingSegments}
	}
	for i, s := range segments {
		if !IsIdent(s) {
			return nil, &errors.PathError{Reason: errors.InvalidIdentifier, SegmentIndex: i, Segment: s}
		}
	}
	return append(Path(nil), segments...), nil
}

// MustPath is like NewPath but panics on invalid segments.
func MustPath(segments ...string) Path {
	p, err := NewPath(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// PathFromModule splits a "::" separated module path and appends ident.
// An empty ident is allowed and yields the namespace alone.
func PathFromModule(module string, ident ...string) (Path, error) {
	var segments []string
	if module != "" {
		segments = strings.Split(module, "::")
	}
	segments = append(segments, ident...)
	return NewPath(segments...)
}

// PathFromGo builds a Path from a Go package import path and a type name.
// Characters that cannot appear in an identifier are replaced with '_',
// and generic arguments in name are dropped. An empty name yields an
// empty Path.
func PathFromGo(pkgPath, name string) Path {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return nil
	}
	var p Path
	for _, part := range strings.FieldsFunc(pkgPath, func(r rune) bool { return r == '/' || r == '.' }) {
		p = append(p, sanitize(part))
	}
	return append(p, sanitize(name))
}

func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if !isIdentTail(c) {
			b[i] = '_'
		}
	}
	if len(b) == 0 || !isIdentHead(b[0]) {
		return "_" + string(b)
	}
	return string(b)
}

// IsIdent reports whether s is an ASCII identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentHead(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentTail(s[i]) {
			return false
		}
	}
	return true
}

func isIdentHead(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentTail(c byte) bool {
	return isIdentHead(c) || (c >= '0' && c <= '9')
}

// IsEmpty reports whether p names no type.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// Ident returns the last segment, or "" for an empty Path.
func (p Path) Ident() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Namespace returns every segment but the last.
func (p Path) Namespace() []string {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

func (p Path) String() string {
	return strings.Join(p, "::")
}
