package witgen

import (
	"strings"
	"unicode"
)

var keywords = map[string]bool{
	"as": true, "async": true, "bool": true, "borrow": true, "char": true,
	"constructor": true, "enum": true, "export": true, "f32": true, "f64": true,
	"flags": true, "from": true, "func": true, "future": true, "import": true,
	"include": true, "interface": true, "list": true, "option": true, "own": true,
	"package": true, "record": true, "resource": true, "result": true, "s8": true,
	"s16": true, "s32": true, "s64": true, "static": true, "stream": true,
	"string": true, "tuple": true, "type": true, "u8": true, "u16": true,
	"u32": true, "u64": true, "use": true, "variant": true, "with": true, "world": true,
}

// kebab converts an identifier in any of Go, snake or camel case to a
// WIT kebab-case name.
func kebab(s string) string {
	runes := []rune(s)
	var b strings.Builder
	dash := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
			b.WriteByte('-')
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			dash()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					dash()
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsDigit(r) && b.Len() == 0 {
				b.WriteString("n")
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			dash()
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ident escapes WIT keywords.
func ident(name string) string {
	if keywords[name] {
		return "%" + name
	}
	return name
}
