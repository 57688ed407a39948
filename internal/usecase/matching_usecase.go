package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"internhub/internal/domain/internship"
	"internhub/internal/domain/matching"
	"internhub/internal/domain/user"
)

// Generator is the AI request queue as seen by use cases.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type MatchView struct {
	Internship internship.Internship
	Result     matching.Result
}

type MatchingUsecase interface {
	Match(ctx context.Context, userID, internshipID uuid.UUID) (MatchView, error)
	Commentary(ctx context.Context, userID, internshipID uuid.UUID) (string, error)
}

type Matching struct {
	catalog  ListingCatalog
	profiles user.ProfileRepository
	ai       Generator
}

func NewMatchingUsecase(c ListingCatalog, profiles user.ProfileRepository, ai Generator) *Matching {
	return &Matching{catalog: c, profiles: profiles, ai: ai}
}

func (u *Matching) Match(ctx context.Context, userID, internshipID uuid.UUID) (MatchView, error) {
	view, _, err := u.match(ctx, userID, internshipID)
	return view, err
}

// Commentary asks the AI for a short fit assessment. Identical profiles
// asking about the same listing share one cached answer.
func (u *Matching) Commentary(ctx context.Context, userID, internshipID uuid.UUID) (string, error) {
	view, prof, err := u.match(ctx, userID, internshipID)
	if err != nil {
		return "", err
	}

	text, err := u.ai.Generate(ctx, commentaryPrompt(prof, view))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return text, nil
}

func (u *Matching) match(ctx context.Context, userID, internshipID uuid.UUID) (MatchView, user.Profile, error) {
	if userID == uuid.Nil {
		return MatchView{}, user.Profile{}, ErrUnauthorized
	}

	it, err := NewInternshipUsecase(u.catalog).Get(ctx, internshipID)
	if err != nil {
		return MatchView{}, user.Profile{}, err
	}

	prof, err := u.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return MatchView{}, user.Profile{}, ErrInternal
	}

	res := matching.Calculate(matching.Candidate{
		Skills:            prof.Skills,
		PreferredSectors:  prof.PreferredSectors,
		PreferredWorkMode: prof.PreferredWorkMode,
	}, it)
	return MatchView{Internship: it, Result: res}, prof, nil
}

func commentaryPrompt(p user.Profile, v MatchView) string {
	it := v.Internship
	var b strings.Builder
	b.WriteString("Assess how well this student fits the internship in at most 120 words. ")
	b.WriteString("Name one concrete next step to close the biggest gap.\n\n")

	fmt.Fprintf(&b, "Internship: %s at %s\n", it.Title, it.Company)
	if loc := it.Location.String(); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	if it.WorkMode != internship.WorkModeUnknown {
		fmt.Fprintf(&b, "Work mode: %s\n", it.WorkMode)
	}
	if it.Stipend != "" {
		fmt.Fprintf(&b, "Stipend: %s\n", it.Stipend)
	}
	if len(it.SectorTags) > 0 {
		fmt.Fprintf(&b, "Sectors: %s\n", strings.Join(it.SectorTags, ", "))
	}
	if len(it.Skills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(it.Skills, ", "))
	}

	b.WriteString("\nStudent skills: ")
	if len(p.Skills) > 0 {
		b.WriteString(strings.Join(p.Skills, ", "))
	} else {
		b.WriteString("none listed")
	}
	b.WriteString("\n")
	if len(p.PreferredSectors) > 0 {
		fmt.Fprintf(&b, "Preferred sectors: %s\n", strings.Join(p.PreferredSectors, ", "))
	}
	if p.PreferredLocation != "" {
		fmt.Fprintf(&b, "Preferred location: %s\n", p.PreferredLocation)
	}

	r := v.Result
	fmt.Fprintf(&b, "\nMatch score: %d/100\n", r.MatchScore)
	if len(r.MatchedSkills) > 0 {
		fmt.Fprintf(&b, "Matched skills: %s\n", strings.Join(r.MatchedSkills, ", "))
	}
	if len(r.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Missing skills: %s\n", strings.Join(r.MissingSkills, ", "))
	}
	return b.String()
}
