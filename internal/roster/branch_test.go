package roster

import "testing"

func TestExtractBranch(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"22BCE10100", "BCE", true},
		{"2024MIM007", "MIM", true},
		{"BCY001", "BCY", true},
		{"12345", "", false},
		{"", "", false},
		{"  22bce10100  ", "BCE", true}, // normalized before matching
		{"X-22-MIM-99", "MIM", true},    // fallback: first run of capitals, X is too short
		{"9BCEX", "BCEX", true},         // fallback pattern
	}
	for _, c := range cases {
		got, ok := ExtractBranch(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ExtractBranch(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
