// Package filter narrows internship listings by the user's current selections
// and extracts the facet values used to populate filter controls.
package filter

import (
	"strings"

	"internhub/internal/domain/internship"
)

// All is the wildcard value for any single-valued dimension.
const All = "all"

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortStipend   SortKey = "stipend"
	SortProximity SortKey = "proximity"
	SortNewest    SortKey = "newest"
	SortDeadline  SortKey = "deadline"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRelevance:
		return SortRelevance, true
	case SortStipend, "stipend_desc":
		return SortStipend, true
	case SortProximity:
		return SortProximity, true
	case SortNewest:
		return SortNewest, true
	case SortDeadline:
		return SortDeadline, true
	default:
		return SortRelevance, false
	}
}

// ValidWorkMode reports whether s is the wildcard or a recognized work mode.
func ValidWorkMode(s string) bool {
	return isWildcard(s) || internship.ParseWorkMode(s).Valid()
}

// State is the flat record of filter selections. Zero value matches everything.
type State struct {
	Search     string   `json:"search"`
	Sector     string   `json:"sector"`
	Location   string   `json:"location"`
	Skills     []string `json:"skills"`
	WorkMode   string   `json:"work_mode"`
	MinStipend int      `json:"min_stipend"`
	Sort       SortKey  `json:"sort"`

	// ReferenceLocation anchors SortProximity.
	ReferenceLocation string `json:"reference_location,omitempty"`
}

func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

func activeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if isWildcard(s) {
			continue
		}
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
