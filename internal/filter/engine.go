package filter

import (
	"strings"

	"internhub/internal/domain/internship"
)

// Apply returns the listings matching every active dimension of s, ordered by
// s.Sort. The input slice is never modified.
func Apply(listings []internship.Internship, s State) []internship.Internship {
	out := make([]internship.Internship, 0, len(listings))

	search := strings.ToLower(strings.TrimSpace(s.Search))
	skills := activeSkills(s.Skills)

	var mode internship.WorkMode
	modeActive := !isWildcard(s.WorkMode)
	if modeActive {
		mode = internship.ParseWorkMode(s.WorkMode)
	}

	for i := range listings {
		it := &listings[i]
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		if !isWildcard(s.Sector) && !containsFold(it.SectorTags, s.Sector) {
			continue
		}
		if !isWildcard(s.Location) && !matchesLocation(it.Location, s.Location) {
			continue
		}
		if len(skills) > 0 && !hasAllSkills(it.Skills, skills) {
			continue
		}
		if modeActive && (mode == internship.WorkModeUnknown || it.WorkMode != mode) {
			continue
		}
		if s.MinStipend > 0 {
			v, ok := ParseStipend(it.Stipend)
			if !ok || v < s.MinStipend {
				continue
			}
		}
		out = append(out, *it)
	}

	sortInPlace(out, s.Sort, s.ReferenceLocation)
	return out
}

func matchesSearch(it *internship.Internship, q string) bool {
	fields := [...]string{it.Title, it.Role, it.Company, it.Location.String()}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, s := range it.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, s := range it.SectorTags {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func matchesLocation(loc internship.Location, want string) bool {
	want = strings.TrimSpace(want)
	if strings.EqualFold(loc.String(), want) {
		return true
	}
	return loc.City != "" && strings.EqualFold(loc.City, want)
}

func containsFold(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

// hasAllSkills expects want already lower-cased.
func hasAllSkills(have []string, want []string) bool {
	if len(have) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
