package typeof

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"A":          "a",
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"getHTTP":    "get_http",
		"Value2":     "value2",
		"Already_ok": "already_ok",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
