package integrity

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   Counters
		want Level
	}{
		{"clean", Counters{}, Clean},
		{"one tab switch is clean", Counters{TabSwitchCount: 1}, Clean},
		{"two tab switches flagged", Counters{TabSwitchCount: 2}, Flagged},
		{"six tab switches high risk", Counters{TabSwitchCount: 6}, HighRisk},
		{"five violations flagged", Counters{Proctoring: ProctoringData{TotalViolations: 5}}, Flagged},
		{"nine violations high risk", Counters{Proctoring: ProctoringData{TotalViolations: 9}}, HighRisk},
		{
			"legacy and proctoring tab switches combine",
			Counters{TabSwitchCount: 3, Proctoring: ProctoringData{TabSwitching: 3, TotalViolations: 3}},
			HighRisk,
		},
		{
			"total derived from categories when not supplied",
			Counters{Proctoring: ProctoringData{WindowBlur: 3, PhoneDetected: 2}},
			Flagged,
		},
		{"esc presses alone never flag", Counters{EscCount: 10}, Clean},
	}
	for _, c := range cases {
		got := Classify(c.in)
		if got.Level != c.want {
			t.Fatalf("%s: Classify = %v; want %v", c.name, got.Level, c.want)
		}
		if got.Label != labels[c.want] {
			t.Fatalf("%s: label %q does not match level %v", c.name, got.Label, c.want)
		}
	}
}
