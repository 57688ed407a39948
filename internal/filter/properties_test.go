package filter

import (
	"reflect"
	"testing"

	"internhub/internal/domain/internship"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	sectorPool   = []interface{}{"Technology", "Finance", "Design", "Marketing", "Healthcare"}
	locationPool = []interface{}{"Bangalore", "Mumbai", "Pune", "Delhi", ""}
	skillPool    = []interface{}{"Go", "React", "SQL", "Excel", "Figma"}
	modePool     = []interface{}{internship.WorkModeRemote, internship.WorkModeOnSite, internship.WorkModeHybrid, internship.WorkModeUnknown}
	stipendPool  = []interface{}{"₹5000", "₹10,000", "₹20000/month", "Unpaid", ""}
	titlePool    = []interface{}{"Frontend Intern", "Finance Analyst", "Design Intern", "Data Intern", "Ops"}
)

func genListing() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(titlePool...),
		gen.SliceOfN(2, gen.OneConstOf(sectorPool...)),
		gen.OneConstOf(locationPool...),
		gen.SliceOfN(3, gen.OneConstOf(skillPool...)),
		gen.OneConstOf(modePool...),
		gen.OneConstOf(stipendPool...),
		gen.Bool(),
	).Map(func(v []interface{}) internship.Internship {
		it := internship.Internship{
			ID:       uuid.New(),
			Title:    v[0].(string),
			Location: internship.Location{Raw: v[2].(string)},
			WorkMode: v[4].(internship.WorkMode),
			Stipend:  v[5].(string),
		}
		// Some records carry no tags at all.
		if v[6].(bool) {
			it.SectorTags = v[1].([]string)
			it.Skills = v[3].([]string)
		}
		return it
	})
}

func genListings() gopter.Gen {
	return gen.SliceOf(genListing())
}

func genState() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "intern", "finance", "go", "pune"),
		gen.OneConstOf(append([]interface{}{"all", ""}, sectorPool...)...),
		gen.OneConstOf(append([]interface{}{"all"}, locationPool...)...),
		gen.SliceOfN(1, gen.OneConstOf(append([]interface{}{"all"}, skillPool...)...)),
		gen.OneConstOf("all", "", "remote", "on-site", "hybrid"),
		gen.OneConstOf(0, 0, 8000, 15000),
	).Map(func(v []interface{}) State {
		return State{
			Search:     v[0].(string),
			Sector:     v[1].(string),
			Location:   v[2].(string),
			Skills:     v[3].([]string),
			WorkMode:   v[4].(string),
			MinStipend: v[5].(int),
		}
	})
}

func TestApplyProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("apply is idempotent and leaves input untouched", prop.ForAll(
		func(listings []internship.Internship, s State) bool {
			before := make([]internship.Internship, len(listings))
			copy(before, listings)

			a := Apply(listings, s)
			b := Apply(listings, s)
			return reflect.DeepEqual(a, b) && reflect.DeepEqual(before, listings)
		},
		genListings(), genState(),
	))

	properties.Property("wildcards return the input in order", prop.ForAll(
		func(listings []internship.Internship, wildcard string) bool {
			s := State{Sector: wildcard, Location: wildcard, WorkMode: wildcard, Skills: []string{wildcard}}
			got := Apply(listings, s)
			if len(got) != len(listings) {
				return false
			}
			for i := range got {
				if got[i].ID != listings[i].ID {
					return false
				}
			}
			return true
		},
		genListings(), gen.OneConstOf("all", "", "ALL"),
	))

	properties.Property("combined filters equal the intersection of single filters", prop.ForAll(
		func(listings []internship.Internship, a, b State) bool {
			onlyA := State{Search: a.Search, Sector: a.Sector, MinStipend: a.MinStipend}
			onlyB := State{Location: b.Location, Skills: b.Skills, WorkMode: b.WorkMode}
			both := State{
				Search: a.Search, Sector: a.Sector, MinStipend: a.MinStipend,
				Location: b.Location, Skills: b.Skills, WorkMode: b.WorkMode,
			}

			inB := map[uuid.UUID]bool{}
			for _, it := range Apply(listings, onlyB) {
				inB[it.ID] = true
			}
			var want []uuid.UUID
			for _, it := range Apply(listings, onlyA) {
				if inB[it.ID] {
					want = append(want, it.ID)
				}
			}

			got := Apply(listings, both)
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i].ID != want[i] {
					return false
				}
			}
			return true
		},
		genListings(), genState(), genState(),
	))

	properties.Property("facets are sorted and drawn from the listings", prop.ForAll(
		func(listings []internship.Internship) bool {
			f := ExtractFacets(listings)
			for i := 1; i < len(f.Sectors); i++ {
				if f.Sectors[i-1] >= f.Sectors[i] {
					return false
				}
			}
			for i := 1; i < len(f.Locations); i++ {
				if f.Locations[i-1] >= f.Locations[i] {
					return false
				}
			}
			for _, s := range f.Sectors {
				if len(Apply(listings, State{Sector: s})) == 0 {
					return false
				}
			}
			return true
		},
		genListings(),
	))

	properties.TestingRun(t)
}
