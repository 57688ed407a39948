package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"internhub/internal/domain/internship"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// ParseRole defaults to student for an empty value.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleStudent:
		return RoleStudent, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is what a student tells us about themselves. It seeds the match
// engine and the default proximity reference for saved filters.
type Profile struct {
	UserID            uuid.UUID
	FullName          *string
	Skills            []string
	PreferredSectors  []string
	PreferredLocation string
	PreferredWorkMode internship.WorkMode
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
