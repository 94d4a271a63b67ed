package witgen

import "testing"

func TestKebab(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Point", "point"},
		{"user_id", "user-id"},
		{"HTTPServer", "http-server"},
		{"BTreeMap", "b-tree-map"},
		{"Value2", "value2"},
		{"__x__", "x"},
		{"2fa", "n2fa"},
	}
	for _, tt := range tests {
		if got := kebab(tt.in); got != tt.want {
			t.Errorf("kebab(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdent(t *testing.T) {
	if got := ident("record"); got != "%record" {
		t.Errorf("ident(record) = %q", got)
	}
	if got := ident("point"); got != "point" {
		t.Errorf("ident(point) = %q", got)
	}
}
