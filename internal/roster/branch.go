package roster

import (
	"regexp"
	"strings"
)

// branchPattern pairs a compiled expression with the index of the capture
// group that holds the branch code. Patterns are tried in order and the
// first match wins.
type branchPattern struct {
	re    *regexp.Regexp
	group int
}

var branchPatterns = []branchPattern{
	{regexp.MustCompile(`^\d{2}([A-Z]{2,4})\d+$`), 1},  // 22BCE10100 -> BCE
	{regexp.MustCompile(`^\d{4}([A-Z]{2,4})\d+$`), 1},  // 2024MIM007 -> MIM
	{regexp.MustCompile(`^([A-Z]{2,4})\d+$`), 1},       // BCY001 -> BCY
	{regexp.MustCompile(`[A-Z]{2,4}`), 0},              // fallback: first run of capitals
}

// ExtractBranch pulls the program/branch code out of a raw registration
// number. The second return is false when no pattern matches.
func ExtractBranch(regNo string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(regNo))
	if s == "" {
		return "", false
	}
	for _, p := range branchPatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		return m[p.group], true
	}
	return "", false
}
