package roster

import (
	"sort"
	"strings"
)

type subgroupKind int

const (
	subgroupUnrestricted subgroupKind = iota
	subgroupSingle
	subgroupMulti
)

// Subgroup is an assignment's branch restriction. An empty restriction
// admits every student; otherwise the student's branch must appear in the
// code set (case-insensitive).
type Subgroup struct {
	kind  subgroupKind
	codes map[string]struct{}
}

// ParseSubgroup accepts "", a single code, or a comma-separated list.
func ParseSubgroup(raw string) Subgroup {
	codes := map[string]struct{}{}
	for _, tok := range strings.Split(raw, ",") {
		if c := strings.ToUpper(strings.TrimSpace(tok)); c != "" {
			codes[c] = struct{}{}
		}
	}
	switch len(codes) {
	case 0:
		return Subgroup{kind: subgroupUnrestricted}
	case 1:
		return Subgroup{kind: subgroupSingle, codes: codes}
	default:
		return Subgroup{kind: subgroupMulti, codes: codes}
	}
}

// Eligible reports whether a student with the given branch may attempt an
// assignment carrying this restriction. hasBranch=false means the branch
// could not be resolved from the registration number.
func (s Subgroup) Eligible(branch string, hasBranch bool) bool {
	switch s.kind {
	case subgroupUnrestricted:
		return true
	default:
		if !hasBranch {
			return false
		}
		_, ok := s.codes[strings.ToUpper(strings.TrimSpace(branch))]
		return ok
	}
}

func (s Subgroup) Unrestricted() bool { return s.kind == subgroupUnrestricted }

func (s Subgroup) String() string {
	if s.kind == subgroupUnrestricted {
		return ""
	}
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// Eligible is the package-level entry point used by grading and results:
// subgroup comes in as the raw stored string.
func Eligible(branch string, hasBranch bool, subgroup string) bool {
	return ParseSubgroup(subgroup).Eligible(branch, hasBranch)
}
