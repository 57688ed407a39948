package dto

import (
	"time"

	"github.com/google/uuid"

	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
	useruc "internhub/internal/usecase/user"
)

type ProfileResponse struct {
	ID                uuid.UUID           `json:"id"`
	Email             string              `json:"email"`
	Role              user.Role           `json:"role"`
	FullName          *string             `json:"full_name"`
	Skills            []string            `json:"skills"`
	PreferredSectors  []string            `json:"preferred_sectors"`
	PreferredLocation string              `json:"preferred_location"`
	PreferredWorkMode internship.WorkMode `json:"preferred_work_mode"`
	CreatedAt         time.Time           `json:"created_at"`
}

func NewProfileResponse(me useruc.Me) ProfileResponse {
	return ProfileResponse{
		ID:                me.User.ID,
		Email:             me.User.Email,
		Role:              me.User.Role,
		FullName:          me.Profile.FullName,
		Skills:            nonNil(me.Profile.Skills),
		PreferredSectors:  nonNil(me.Profile.PreferredSectors),
		PreferredLocation: me.Profile.PreferredLocation,
		PreferredWorkMode: me.Profile.PreferredWorkMode,
		CreatedAt:         me.User.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
