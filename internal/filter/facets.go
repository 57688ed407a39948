package filter

import (
	"sort"
	"strings"

	"internhub/internal/domain/internship"
)

const (
	MaxFacetListings  = 10000
	MaxTagsPerListing = 50
)

type Facets struct {
	Sectors   []string `json:"sectors"`
	Locations []string `json:"locations"`
}

// ExtractFacets collects the distinct sectors and locations across listings.
// Values are de-duplicated case-insensitively (first spelling wins) and
// returned sorted. Input beyond the caps is ignored.
func ExtractFacets(listings []internship.Internship) Facets {
	n := len(listings)
	if n > MaxFacetListings {
		n = MaxFacetListings
	}

	sectors := map[string]string{}
	locations := map[string]string{}
	for i := 0; i < n; i++ {
		it := &listings[i]

		tags := it.SectorTags
		if len(tags) > MaxTagsPerListing {
			tags = tags[:MaxTagsPerListing]
		}
		for _, t := range tags {
			addFacet(sectors, t)
		}
		addFacet(locations, it.Location.String())
	}

	return Facets{Sectors: sortedValues(sectors), Locations: sortedValues(locations)}
}

func addFacet(m map[string]string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	k := strings.ToLower(v)
	if _, ok := m[k]; ok {
		return
	}
	m[k] = v
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
