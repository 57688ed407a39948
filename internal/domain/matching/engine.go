package matching

import (
	"math"
	"strings"

	"internhub/internal/domain/internship"
)

const (
	skillWeight    = 80.0
	sectorWeight   = 10.0
	workModeWeight = 10.0
)

// Candidate is the slice of a student profile the engine scores against.
type Candidate struct {
	Skills            []string
	PreferredSectors  []string
	PreferredWorkMode internship.WorkMode
}

type Result struct {
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	SectorMatch   bool     `json:"sector_match"`
	WorkModeMatch bool     `json:"work_mode_match"`
}

// Calculate scores a listing for a candidate on a 0-100 scale. Skills carry
// most of the weight; sector and work mode preferences count only when the
// candidate has stated one, otherwise they are awarded in full.
func Calculate(c Candidate, it internship.Internship) Result {
	have := make(map[string]struct{}, len(c.Skills))
	for _, s := range c.Skills {
		if k := canonicalSkill(s); k != "" {
			have[k] = struct{}{}
		}
	}

	matched := make([]string, 0, len(it.Skills))
	missing := make([]string, 0)
	seen := make(map[string]struct{}, len(it.Skills))
	for _, s := range it.Skills {
		k := canonicalSkill(s)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := have[k]; ok {
			matched = append(matched, strings.TrimSpace(s))
		} else {
			missing = append(missing, strings.TrimSpace(s))
		}
	}

	total := skillWeight
	if n := len(matched) + len(missing); n > 0 {
		total = skillWeight * float64(len(matched)) / float64(n)
	}

	sectorOK := len(c.PreferredSectors) == 0 || sharesSector(c.PreferredSectors, it.SectorTags)
	if sectorOK {
		total += sectorWeight
	}

	modeOK := c.PreferredWorkMode == internship.WorkModeUnknown || c.PreferredWorkMode == it.WorkMode
	if modeOK {
		total += workModeWeight
	}

	return Result{
		MatchScore:    clampInt(int(math.Round(total)), 0, 100),
		MatchedSkills: matched,
		MissingSkills: missing,
		SectorMatch:   sectorOK,
		WorkModeMatch: modeOK,
	}
}

func sharesSector(preferred, tags []string) bool {
	for _, p := range preferred {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		for _, t := range tags {
			if strings.EqualFold(p, strings.TrimSpace(t)) {
				return true
			}
		}
	}
	return false
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
