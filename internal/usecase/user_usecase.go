package usecase

import (
	"context"

	"github.com/google/uuid"

	ucuser "internhub/internal/usecase/user"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (ucuser.Me, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (ucuser.Me, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users ucuser.Repository) *User {
	return &User{svc: ucuser.NewService(users)}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (ucuser.Me, error) {
	return u.svc.GetMe(ctx, userID)
}

func (u *User) UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (ucuser.Me, error) {
	return u.svc.UpdateMe(ctx, userID, in)
}
