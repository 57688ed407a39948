package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"internhub/internal/catalog"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
	"internhub/internal/filter"
	"internhub/internal/repository"
)

type ListingCatalog interface {
	Snapshot() []internship.Internship
	Get(id uuid.UUID) (internship.Internship, error)
}

type ListResult struct {
	Items []internship.Internship
	Total int
}

type InternshipUsecase interface {
	List(ctx context.Context, s filter.State) (ListResult, error)
	Facets(ctx context.Context) filter.Facets
	Get(ctx context.Context, id uuid.UUID) (internship.Internship, error)
}

type Internships struct {
	catalog ListingCatalog
}

func NewInternshipUsecase(c ListingCatalog) *Internships {
	return &Internships{catalog: c}
}

func (u *Internships) List(_ context.Context, s filter.State) (ListResult, error) {
	if err := validateState(s); err != nil {
		return ListResult{}, err
	}
	items := filter.Apply(u.catalog.Snapshot(), s)
	return ListResult{Items: items, Total: len(items)}, nil
}

func (u *Internships) Facets(_ context.Context) filter.Facets {
	return filter.ExtractFacets(u.catalog.Snapshot())
}

func (u *Internships) Get(_ context.Context, id uuid.UUID) (internship.Internship, error) {
	it, err := u.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return internship.Internship{}, ErrInternshipNotFound
		}
		return internship.Internship{}, ErrInternal
	}
	return it, nil
}

func validateState(s filter.State) error {
	if s.MinStipend < 0 {
		return ErrInvalidInput
	}
	if _, ok := filter.ParseSortKey(string(s.Sort)); !ok {
		return ErrInvalidInput
	}
	if !filter.ValidWorkMode(s.WorkMode) {
		return ErrInvalidInput
	}
	return nil
}

type SavedFilterUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (filter.State, error)
	Save(ctx context.Context, userID uuid.UUID, s filter.State) (filter.State, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) (ListResult, filter.State, error)
}

type SavedFilters struct {
	store    repository.FilterStateRepository
	profiles user.ProfileRepository
	catalog  ListingCatalog
}

func NewSavedFilterUsecase(store repository.FilterStateRepository, profiles user.ProfileRepository, c ListingCatalog) *SavedFilters {
	return &SavedFilters{store: store, profiles: profiles, catalog: c}
}

// Get returns the zero state when nothing was saved.
func (u *SavedFilters) Get(ctx context.Context, userID uuid.UUID) (filter.State, error) {
	s, _, err := u.store.Load(ctx, userID)
	if err != nil {
		return filter.State{}, ErrInternal
	}
	return s, nil
}

func (u *SavedFilters) Save(ctx context.Context, userID uuid.UUID, s filter.State) (filter.State, error) {
	if err := validateState(s); err != nil {
		return filter.State{}, err
	}
	s = normalizeState(s)
	if err := u.store.Save(ctx, userID, s); err != nil {
		return filter.State{}, filterStoreErr(err)
	}
	return s, nil
}

func (u *SavedFilters) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := u.store.Clear(ctx, userID); err != nil {
		return filterStoreErr(err)
	}
	return nil
}

func filterStoreErr(err error) error {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return errors.Join(ErrFiltersUnavailable, err)
	}
	return ErrInternal
}

// ListForUser applies the saved state. Proximity sorting falls back to the
// profile's preferred location when the state names no reference.
func (u *SavedFilters) ListForUser(ctx context.Context, userID uuid.UUID) (ListResult, filter.State, error) {
	s, err := u.Get(ctx, userID)
	if err != nil {
		return ListResult{}, filter.State{}, err
	}
	if strings.TrimSpace(s.ReferenceLocation) == "" && u.profiles != nil {
		prof, err := u.profiles.GetProfile(ctx, userID)
		switch {
		case err == nil:
			s.ReferenceLocation = prof.PreferredLocation
		case !errors.Is(err, user.ErrNotFound):
			return ListResult{}, filter.State{}, ErrInternal
		}
	}

	items := filter.Apply(u.catalog.Snapshot(), s)
	return ListResult{Items: items, Total: len(items)}, s, nil
}

func normalizeState(s filter.State) filter.State {
	s.Search = strings.TrimSpace(s.Search)
	s.Sector = strings.TrimSpace(s.Sector)
	s.Location = strings.TrimSpace(s.Location)
	s.WorkMode = strings.TrimSpace(s.WorkMode)
	s.ReferenceLocation = strings.TrimSpace(s.ReferenceLocation)
	s.Sort, _ = filter.ParseSortKey(string(s.Sort))

	skills := make([]string, 0, len(s.Skills))
	for _, sk := range s.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	s.Skills = skills
	return s
}
