package symbols

import "testing"

func TestStripQualifiers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"main.User", "User"},
		{"map[string][]*api.User", "map[string][]*User"},
		{"box.Box[github.com/acme/api.User]", "Box[User]"},
		{"pair.Pair[string,gopkg.in/yaml.v3.Node]", "Pair[string,Node]"},
		{`struct { A api.T "json:\"a.b\"" }`, `struct { A T "json:\"a.b\"" }`},
		{"func(context.Context) error", "func(Context) error"},
		{"func(...symbols.Field) error", "func(...Field) error"},
		{"func(string, ...interface {})", "func(string, ...interface {})"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripQualifiers(tt.in); got != tt.want {
				t.Errorf("StripQualifiers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
