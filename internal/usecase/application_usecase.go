package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"internhub/internal/domain/application"
	"internhub/internal/repository"
)

const maxApplicationNoteLen = 1000

type ApplicationUsecase interface {
	Apply(ctx context.Context, userID, internshipID uuid.UUID, note string) (application.Application, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]repository.ApplicationView, error)
	Withdraw(ctx context.Context, userID, applicationID uuid.UUID) error
}

type Applications struct {
	apps    repository.ApplicationRepository
	catalog ListingCatalog
}

func NewApplicationUsecase(apps repository.ApplicationRepository, c ListingCatalog) *Applications {
	return &Applications{apps: apps, catalog: c}
}

func (u *Applications) Apply(ctx context.Context, userID, internshipID uuid.UUID, note string) (application.Application, error) {
	if userID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	note = strings.TrimSpace(note)
	if len(note) > maxApplicationNoteLen {
		return application.Application{}, ErrInvalidInput
	}
	if _, err := NewInternshipUsecase(u.catalog).Get(ctx, internshipID); err != nil {
		return application.Application{}, err
	}

	a := application.Application{
		ID:           uuid.New(),
		UserID:       userID,
		InternshipID: internshipID,
		Status:       application.StatusApplied,
		Note:         note,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, application.ErrAlreadyApplied):
			return application.Application{}, ErrAlreadyApplied
		case errors.Is(err, application.ErrUnknownListing):
			return application.Application{}, ErrInternshipNotFound
		}
		return application.Application{}, ErrInternal
	}

	created, err := u.apps.GetByID(ctx, a.ID)
	if err != nil {
		return a, nil
	}
	return created, nil
}

func (u *Applications) ListMine(ctx context.Context, userID uuid.UUID) ([]repository.ApplicationView, error) {
	out, err := u.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// Withdraw is allowed until the application reaches a final status.
func (u *Applications) Withdraw(ctx context.Context, userID, applicationID uuid.UUID) error {
	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	if a.UserID != userID {
		return ErrApplicationNotFound
	}
	if a.Status.Terminal() {
		return ErrInvalidTransition
	}

	if err := u.apps.UpdateStatus(ctx, applicationID, application.StatusWithdrawn); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}
	return nil
}
