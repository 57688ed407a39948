package matching

import (
	"testing"

	"internhub/internal/domain/internship"
)

func TestCalculate_FullMatch(t *testing.T) {
	it := internship.Internship{
		Skills:     []string{"Go", "PostgreSQL"},
		SectorTags: []string{"Technology"},
		WorkMode:   internship.WorkModeRemote,
	}
	res := Calculate(Candidate{
		Skills:            []string{"golang", "postgres"},
		PreferredSectors:  []string{"technology"},
		PreferredWorkMode: internship.WorkModeRemote,
	}, it)

	if res.MatchScore != 100 {
		t.Fatalf("expected 100, got %d", res.MatchScore)
	}
	if len(res.MatchedSkills) != 2 || len(res.MissingSkills) != 0 {
		t.Fatalf("unexpected skills %+v", res)
	}
}

func TestCalculate_PartialSkills(t *testing.T) {
	it := internship.Internship{
		Skills:   []string{"Go", "Docker", "Kubernetes", "SQL"},
		WorkMode: internship.WorkModeOnSite,
	}
	res := Calculate(Candidate{
		Skills:            []string{"go", "k8s"},
		PreferredWorkMode: internship.WorkModeRemote,
	}, it)

	// 80 * 2/4 skills + 10 sector (no preference) + 0 work mode
	if res.MatchScore != 50 {
		t.Fatalf("expected 50, got %d", res.MatchScore)
	}
	if res.WorkModeMatch {
		t.Fatalf("expected work mode mismatch")
	}
	if len(res.MissingSkills) != 2 || res.MissingSkills[0] != "Docker" || res.MissingSkills[1] != "SQL" {
		t.Fatalf("unexpected missing skills %v", res.MissingSkills)
	}
}

func TestCalculate_ListingWithoutSkills(t *testing.T) {
	res := Calculate(Candidate{PreferredSectors: []string{"Finance"}}, internship.Internship{SectorTags: []string{"Design"}})
	if res.MatchScore != 90 {
		t.Fatalf("expected 90, got %d", res.MatchScore)
	}
	if res.SectorMatch {
		t.Fatalf("expected sector mismatch")
	}
}

func TestCalculate_DuplicateListingSkillsCountOnce(t *testing.T) {
	res := Calculate(Candidate{Skills: []string{"JavaScript"}}, internship.Internship{Skills: []string{"JS", "javascript"}})
	if len(res.MatchedSkills) != 1 {
		t.Fatalf("expected synonyms to collapse, got %v", res.MatchedSkills)
	}
	if res.MatchScore != 100 {
		t.Fatalf("expected 100, got %d", res.MatchScore)
	}
}
