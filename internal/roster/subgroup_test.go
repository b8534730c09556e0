package roster

import "testing"

func TestEligible(t *testing.T) {
	cases := []struct {
		branch    string
		hasBranch bool
		subgroup  string
		want      bool
	}{
		{"", false, "", true},           // unrestricted admits unknown branch
		{"", false, "BCE", false},       // restricted, branch unknown
		{"bce", true, "BCE,MIM", true},  // case-insensitive membership
		{"cse", true, "BCE,MIM", false},
		{"BCE", true, "BCE", true},      // single-code subgroup
		{"BCE", true, " bce , mim ", true},
		{"MIM", true, ",,", true},       // only empty tokens: unrestricted
	}
	for _, c := range cases {
		if got := Eligible(c.branch, c.hasBranch, c.subgroup); got != c.want {
			t.Fatalf("Eligible(%q,%v,%q) = %v; want %v", c.branch, c.hasBranch, c.subgroup, got, c.want)
		}
	}
}

func TestParseSubgroupString(t *testing.T) {
	if s := ParseSubgroup(" mim ,bce").String(); s != "BCE,MIM" {
		t.Fatalf("String() = %q; want BCE,MIM", s)
	}
	if !ParseSubgroup("").Unrestricted() {
		t.Fatalf("empty subgroup should be unrestricted")
	}
	if ParseSubgroup("BCE").Unrestricted() {
		t.Fatalf("single-code subgroup should not be unrestricted")
	}
}
