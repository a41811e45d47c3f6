package domain

import "sort"

// UnionSkills merges skill lists into a sorted, deduplicated slice.
func UnionSkills(sets ...[]string) []string {
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, s := range set {
			if s != "" {
				seen[s] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HasAllSkills reports whether have covers every skill in want.
func HasAllSkills(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	for _, s := range want {
		if !set[s] {
			return false
		}
	}
	return true
}

// MissingSkills returns the skills in want absent from have, sorted.
func MissingSkills(have, want []string) []string {
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	var missing []string
	for _, s := range want {
		if !set[s] {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	return missing
}
