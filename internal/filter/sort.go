package filter

import (
	"sort"
	"strings"

	"internhub/internal/domain/internship"
)

// Sort returns a sorted copy of listings. Ties keep their input order.
func Sort(listings []internship.Internship, key SortKey, reference string) []internship.Internship {
	out := make([]internship.Internship, len(listings))
	copy(out, listings)
	sortInPlace(out, key, reference)
	return out
}

func sortInPlace(items []internship.Internship, key SortKey, reference string) {
	switch key {
	case SortStipend:
		vals := make([]int, len(items))
		for i := range items {
			vals[i], _ = ParseStipend(items[i].Stipend)
		}
		stableBy(items, func(i, j int) bool { return vals[i] > vals[j] }, vals)
	case SortProximity:
		ref := strings.TrimSpace(reference)
		if ref == "" {
			return
		}
		near := make([]int, len(items))
		for i := range items {
			if matchesLocation(items[i].Location, ref) {
				near[i] = 1
			}
		}
		stableBy(items, func(i, j int) bool { return near[i] > near[j] }, near)
	case SortNewest:
		keys := make([]int64, len(items))
		for i := range items {
			if items[i].PostedAt != nil {
				keys[i] = items[i].PostedAt.Unix()
			} else {
				keys[i] = -1 << 62
			}
		}
		stableBy(items, func(i, j int) bool { return keys[i] > keys[j] }, keys)
	case SortDeadline:
		keys := make([]int64, len(items))
		for i := range items {
			if items[i].Deadline != nil {
				keys[i] = items[i].Deadline.Unix()
			} else {
				keys[i] = 1 << 62
			}
		}
		stableBy(items, func(i, j int) bool { return keys[i] < keys[j] }, keys)
	}
}

// stableBy sorts items and the parallel key slice together so less can index
// precomputed keys instead of reparsing per comparison.
func stableBy[K any](items []internship.Internship, less func(i, j int) bool, keys []K) {
	sort.Stable(pairSorter[K]{items: items, keys: keys, less: less})
}

type pairSorter[K any] struct {
	items []internship.Internship
	keys  []K
	less  func(i, j int) bool
}

func (p pairSorter[K]) Len() int           { return len(p.items) }
func (p pairSorter[K]) Less(i, j int) bool { return p.less(i, j) }
func (p pairSorter[K]) Swap(i, j int) {
	p.items[i], p.items[j] = p.items[j], p.items[i]
	p.keys[i], p.keys[j] = p.keys[j], p.keys[i]
}
