package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"internhub/internal/catalog"
	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
	"internhub/internal/filter"
	"internhub/internal/repository"
)

type fakeCatalog struct {
	items []internship.Internship
}

func (f fakeCatalog) Snapshot() []internship.Internship { return f.items }

func (f fakeCatalog) Get(id uuid.UUID) (internship.Internship, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return internship.Internship{}, catalog.ErrNotFound
}

type fakeProfiles struct {
	profiles map[uuid.UUID]user.Profile
	err      error
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	if f.err != nil {
		return user.Profile{}, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p user.Profile) error {
	if f.profiles == nil {
		f.profiles = map[uuid.UUID]user.Profile{}
	}
	f.profiles[p.UserID] = p
	return nil
}

type fakeFilterStore struct {
	states map[uuid.UUID]filter.State
	err    error
}

func (f *fakeFilterStore) Load(_ context.Context, userID uuid.UUID) (filter.State, bool, error) {
	if f.err != nil {
		return filter.State{}, false, f.err
	}
	s, ok := f.states[userID]
	return s, ok, nil
}

func (f *fakeFilterStore) Save(_ context.Context, userID uuid.UUID, s filter.State) error {
	if f.err != nil {
		return f.err
	}
	if f.states == nil {
		f.states = map[uuid.UUID]filter.State{}
	}
	f.states[userID] = s
	return nil
}

func (f *fakeFilterStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(f.states, userID)
	return f.err
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeApps struct {
	apps      map[uuid.UUID]application.Application
	createErr error
	updates   []application.Status
}

func newFakeApps(apps ...application.Application) *fakeApps {
	f := &fakeApps{apps: map[uuid.UUID]application.Application{}}
	for _, a := range apps {
		f.apps[a.ID] = a
	}
	return f
}

func (f *fakeApps) Create(_ context.Context, a application.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.apps {
		if existing.UserID == a.UserID && existing.InternshipID == a.InternshipID {
			return application.ErrAlreadyApplied
		}
	}
	f.apps[a.ID] = a
	return nil
}

func (f *fakeApps) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (f *fakeApps) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.ApplicationView, error) {
	var out []repository.ApplicationView
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, repository.ApplicationView{Application: a})
		}
	}
	return out, nil
}

func (f *fakeApps) ListByInternship(_ context.Context, internshipID uuid.UUID) ([]repository.ApplicantView, error) {
	var out []repository.ApplicantView
	for _, a := range f.apps {
		if a.InternshipID == internshipID {
			out = append(out, repository.ApplicantView{Application: a})
		}
	}
	return out, nil
}

func (f *fakeApps) UpdateStatus(_ context.Context, id uuid.UUID, status application.Status) error {
	a, ok := f.apps[id]
	if !ok {
		return application.ErrNotFound
	}
	a.Status = status
	f.apps[id] = a
	f.updates = append(f.updates, status)
	return nil
}

type fakeInternships struct {
	byID    map[uuid.UUID]internship.Internship
	created []internship.Internship
}

func newFakeInternships(items ...internship.Internship) *fakeInternships {
	f := &fakeInternships{byID: map[uuid.UUID]internship.Internship{}}
	for _, it := range items {
		f.byID[it.ID] = it
	}
	return f
}

func (f *fakeInternships) ListActive(context.Context) ([]internship.Internship, error) {
	out := make([]internship.Internship, 0, len(f.byID))
	for _, it := range f.byID {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeInternships) GetByID(_ context.Context, id uuid.UUID) (internship.Internship, error) {
	it, ok := f.byID[id]
	if !ok {
		return internship.Internship{}, repository.ErrInternshipNotFound
	}
	return it, nil
}

func (f *fakeInternships) ListByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]internship.Internship, error) {
	var out []internship.Internship
	for _, it := range f.byID {
		if it.RecruiterID != nil && *it.RecruiterID == recruiterID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInternships) Create(_ context.Context, it internship.Internship) error {
	f.byID[it.ID] = it
	f.created = append(f.created, it)
	return nil
}

func (f *fakeInternships) UpsertBySourceKey(context.Context, []internship.Internship) (int, error) {
	return 0, nil
}

func (f *fakeInternships) Fingerprint(context.Context) (repository.Fingerprint, error) {
	return repository.Fingerprint{Count: len(f.byID)}, nil
}

type countingRefresher struct{ calls int }

func (r *countingRefresher) Refresh(context.Context) (bool, error) {
	r.calls++
	return true, nil
}

type fakeUsers struct {
	byID map[uuid.UUID]user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]user.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}
