package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/filter"
)

func internshipRow(id uuid.UUID, title, mode string, updated time.Time) fakeRow {
	return fakeRow{vals: []any{
		id, "", title, "", "Acme", "Pune", "Maharashtra", "",
		"₹10,000/month", "3 months", []string{"Technology"}, []string{"Go"}, mode, "", "",
		nil, nil, nil, true, updated, updated,
	}}
}

func TestInternshipRepository_ListActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()
	db := &fakeDB{queryRows: map[string][]fakeRow{
		"where is_active = true": {
			internshipRow(a, "Backend Intern", "Remote", now),
			internshipRow(b, "Data Intern", "wfo", now),
		},
	}}

	items, err := NewPostgresInternshipRepository(db).ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != a || items[0].WorkMode != internship.WorkModeRemote {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[0].Location.String() != "Pune, Maharashtra" {
		t.Fatalf("unexpected location %q", items[0].Location.String())
	}
	if items[1].PostedAt != nil {
		t.Fatalf("expected nil posted_at")
	}
}

func TestInternshipRepository_GetByIDNotFound(t *testing.T) {
	_, err := NewPostgresInternshipRepository(&fakeDB{}).GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrInternshipNotFound) {
		t.Fatalf("expected ErrInternshipNotFound, got %v", err)
	}
}

func TestInternshipRepository_UpsertSkipsKeylessListings(t *testing.T) {
	db := &fakeDB{execRows: 1}
	n, err := NewPostgresInternshipRepository(db).UpsertBySourceKey(context.Background(), []internship.Internship{
		{SourceKey: "board:1", Title: "A"},
		{Title: "no key"},
		{SourceKey: "board:2", Title: "B"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 2 || len(db.execs) != 2 {
		t.Fatalf("expected 2 upserts, got n=%d execs=%d", n, len(db.execs))
	}
	if !db.committed {
		t.Fatalf("expected commit")
	}
	if id, _ := db.execs[0].args[0].(uuid.UUID); id == uuid.Nil {
		t.Fatalf("expected generated id")
	}
}

func TestInternshipRepository_Fingerprint(t *testing.T) {
	latest := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{rowByPfx: map[string]fakeRow{
		"select count(*)": {vals: []any{7, &latest}},
	}}

	fp, err := NewPostgresInternshipRepository(db).Fingerprint(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fp.Count != 7 || !fp.LatestUpdate.Equal(latest) {
		t.Fatalf("unexpected fingerprint %+v", fp)
	}
}

func TestApplicationRepository_DuplicateMapsToAlreadyApplied(t *testing.T) {
	db := &fakeDB{execErr: &pgconn.PgError{Code: "23505"}}
	err := NewPostgresApplicationRepository(db).Create(context.Background(), application.Application{
		ID: uuid.New(), UserID: uuid.New(), InternshipID: uuid.New(), Status: application.StatusApplied,
	})
	if !errors.Is(err, application.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplicationRepository_MissingListingMapsToUnknownListing(t *testing.T) {
	db := &fakeDB{execErr: &pgconn.PgError{Code: "23503"}}
	err := NewPostgresApplicationRepository(db).Create(context.Background(), application.Application{
		ID: uuid.New(), UserID: uuid.New(), InternshipID: uuid.New(), Status: application.StatusApplied,
	})
	if !errors.Is(err, application.ErrUnknownListing) {
		t.Fatalf("expected ErrUnknownListing, got %v", err)
	}
}

func TestApplicationRepository_UpdateStatusMissing(t *testing.T) {
	db := &fakeDB{execRows: 0}
	err := NewPostgresApplicationRepository(db).UpdateStatus(context.Background(), uuid.New(), application.StatusShortlisted)
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type memoryJSONStore struct {
	data map[string]any
}

func (m *memoryJSONStore) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*(out.(*filter.State)) = v.(filter.State)
	return true, nil
}

func (m *memoryJSONStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryJSONStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestFilterStateRepository_RoundTripUnderFixedKey(t *testing.T) {
	store := &memoryJSONStore{data: map[string]any{}}
	repo := NewRedisFilterStateRepository(store)
	ctx := context.Background()
	uid := uuid.New()

	if _, ok, err := repo.Load(ctx, uid); ok || err != nil {
		t.Fatalf("expected empty load, got ok=%v err=%v", ok, err)
	}

	s := filter.State{Sector: "Finance", Sort: filter.SortStipend}
	if err := repo.Save(ctx, uid, s); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := store.data["filters:"+uid.String()+":internship_filters"]; !ok {
		t.Fatalf("expected record under fixed key, got %v", store.data)
	}

	got, ok, err := repo.Load(ctx, uid)
	if err != nil || !ok || got.Sector != "Finance" || got.Sort != filter.SortStipend {
		t.Fatalf("unexpected load %+v %v %v", got, ok, err)
	}

	if err := repo.Clear(ctx, uid); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok, _ := repo.Load(ctx, uid); ok {
		t.Fatalf("expected cleared state")
	}
}
