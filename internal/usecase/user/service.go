package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

const maxProfileListLen = 50

type Repository interface {
	user.Repository
	user.ProfileRepository
}

// Me is the account plus its profile. A student who never saved a profile
// gets an empty one.
type Me struct {
	User    user.User
	Profile user.Profile
}

// UpdateProfileInput replaces only the fields that are set.
type UpdateProfileInput struct {
	FullName          *string
	Skills            []string
	PreferredSectors  []string
	PreferredLocation *string
	PreferredWorkMode *string
}

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Me, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Me{}, err
		}
		return Me{}, ErrInternal
	}

	prof, err := s.profile(ctx, userID)
	if err != nil {
		return Me{}, err
	}
	return Me{User: sanitizeUser(usr), Profile: prof}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	return s.profile(ctx, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (Me, error) {
	prof, err := s.profile(ctx, userID)
	if err != nil {
		return Me{}, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			prof.FullName = nil
		} else {
			prof.FullName = &name
		}
	}
	if in.Skills != nil {
		skills, ok := cleanList(in.Skills)
		if !ok {
			return Me{}, ErrInvalidInput
		}
		prof.Skills = skills
	}
	if in.PreferredSectors != nil {
		sectors, ok := cleanList(in.PreferredSectors)
		if !ok {
			return Me{}, ErrInvalidInput
		}
		prof.PreferredSectors = sectors
	}
	if in.PreferredLocation != nil {
		prof.PreferredLocation = strings.TrimSpace(*in.PreferredLocation)
	}
	if in.PreferredWorkMode != nil {
		raw := strings.TrimSpace(*in.PreferredWorkMode)
		mode := internship.ParseWorkMode(raw)
		if raw != "" && !strings.EqualFold(raw, "all") && mode == internship.WorkModeUnknown {
			return Me{}, ErrInvalidInput
		}
		prof.PreferredWorkMode = mode
	}

	if err := s.users.UpsertProfile(ctx, prof); err != nil {
		return Me{}, ErrInternal
	}
	return s.GetMe(ctx, userID)
}

func (s *Service) profile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	prof, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{UserID: userID, Skills: []string{}, PreferredSectors: []string{}}, nil
		}
		return user.Profile{}, ErrInternal
	}
	return prof, nil
}

// cleanList trims, drops blanks and case-insensitive duplicates, keeping the
// first spelling seen.
func cleanList(in []string) ([]string, bool) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out, len(out) <= maxProfileListLen
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
