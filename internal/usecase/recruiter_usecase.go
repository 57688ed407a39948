package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/repository"
)

type CreateListingInput struct {
	Title       string
	Role        string
	Company     string
	City        string
	State       string
	Stipend     string
	Duration    string
	SectorTags  []string
	Skills      []string
	WorkMode    string
	Description string
	ApplyURL    string
	Deadline    *time.Time
}

// Refresher reloads the shared catalog after a write.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

type RecruiterUsecase interface {
	CreateListing(ctx context.Context, recruiterID uuid.UUID, in CreateListingInput) (internship.Internship, error)
	ListOwn(ctx context.Context, recruiterID uuid.UUID) ([]internship.Internship, error)
	Applicants(ctx context.Context, recruiterID, internshipID uuid.UUID) ([]repository.ApplicantView, error)
	UpdateStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, status string) (application.Application, error)
}

type Recruiter struct {
	internships repository.InternshipRepository
	apps        repository.ApplicationRepository
	refresher   Refresher
	log         *logrus.Entry
	now         func() time.Time
}

func NewRecruiterUsecase(internships repository.InternshipRepository, apps repository.ApplicationRepository, refresher Refresher, logger *logrus.Logger) *Recruiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recruiter{
		internships: internships,
		apps:        apps,
		refresher:   refresher,
		log:         logger.WithField("component", "recruiter"),
		now:         time.Now,
	}
}

func (u *Recruiter) CreateListing(ctx context.Context, recruiterID uuid.UUID, in CreateListingInput) (internship.Internship, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if title == "" || company == "" {
		return internship.Internship{}, ErrInvalidInput
	}
	mode := internship.ParseWorkMode(in.WorkMode)
	if strings.TrimSpace(in.WorkMode) != "" && mode == internship.WorkModeUnknown {
		return internship.Internship{}, ErrInvalidInput
	}

	now := u.now().UTC()
	if in.Deadline != nil && in.Deadline.Before(now) {
		return internship.Internship{}, ErrInvalidInput
	}

	rid := recruiterID
	it := internship.Internship{
		ID:          uuid.New(),
		Title:       title,
		Role:        strings.TrimSpace(in.Role),
		Company:     company,
		Location:    internship.Location{City: strings.TrimSpace(in.City), State: strings.TrimSpace(in.State)},
		Stipend:     strings.TrimSpace(in.Stipend),
		Duration:    strings.TrimSpace(in.Duration),
		SectorTags:  trimAll(in.SectorTags),
		Skills:      trimAll(in.Skills),
		WorkMode:    mode,
		Description: strings.TrimSpace(in.Description),
		ApplyURL:    strings.TrimSpace(in.ApplyURL),
		PostedAt:    &now,
		Deadline:    in.Deadline,
		RecruiterID: &rid,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.internships.Create(ctx, it); err != nil {
		return internship.Internship{}, ErrInternal
	}

	if u.refresher != nil {
		if _, err := u.refresher.Refresh(ctx); err != nil {
			u.log.WithError(err).Warn("catalog refresh after create failed")
		}
	}
	return it, nil
}

func (u *Recruiter) ListOwn(ctx context.Context, recruiterID uuid.UUID) ([]internship.Internship, error) {
	out, err := u.internships.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Recruiter) Applicants(ctx context.Context, recruiterID, internshipID uuid.UUID) ([]repository.ApplicantView, error) {
	if err := u.requireOwner(ctx, recruiterID, internshipID); err != nil {
		return nil, err
	}
	out, err := u.apps.ListByInternship(ctx, internshipID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Recruiter) UpdateStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, status string) (application.Application, error) {
	to, ok := application.ParseStatus(status)
	if !ok {
		return application.Application{}, ErrInvalidInput
	}

	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	if err := u.requireOwner(ctx, recruiterID, a.InternshipID); err != nil {
		if errors.Is(err, ErrInternshipNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	if !application.CanTransition(a.Status, to) {
		return application.Application{}, ErrInvalidTransition
	}

	if err := u.apps.UpdateStatus(ctx, applicationID, to); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	a.Status = to
	a.UpdatedAt = u.now().UTC()
	return a, nil
}

func (u *Recruiter) requireOwner(ctx context.Context, recruiterID, internshipID uuid.UUID) error {
	it, err := u.internships.GetByID(ctx, internshipID)
	if err != nil {
		if errors.Is(err, repository.ErrInternshipNotFound) {
			return ErrInternshipNotFound
		}
		return ErrInternal
	}
	if it.RecruiterID == nil || *it.RecruiterID != recruiterID {
		return ErrForbidden
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
