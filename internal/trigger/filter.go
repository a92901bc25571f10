package trigger

import "github.com/EdBehn/sunraster/internal/model"

// Match reports whether name passes the filter set.
//
// filter logic:
// filter is empty OR ((includes are empty OR an include matches) AND no exclude matches)
func Match(fs model.FilterSet, name string) bool {
	if len(fs.Include) == 0 && len(fs.Exclude) == 0 {
		return true
	}

	if len(fs.Include) > 0 {
		found := false
		for _, pattern := range fs.Include {
			if wildcardMatch(pattern, name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, pattern := range fs.Exclude {
		if wildcardMatch(pattern, name) {
			return false
		}
	}

	return true
}

// wildcardMatch matches name against a pattern where '*' spans any run of
// characters, including path separators. This is the only metacharacter the
// descriptor's filters support.
func wildcardMatch(pattern, name string) bool {
	// Iterative two-pointer matching with backtracking on the last star.
	p, n := 0, 0
	star, mark := -1, 0

	for n < len(name) {
		switch {
		case p < len(pattern) && (pattern[p] == name[n]):
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = n
			p++
		case star >= 0:
			p = star + 1
			mark++
			n = mark
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
