package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"internhub/internal/domain/internship"
	"internhub/internal/logging"
	"internhub/internal/repository"
)

type fakeSource struct {
	mu       sync.Mutex
	items    []internship.Internship
	err      error
	fpErr    error
	listHits int
}

func (s *fakeSource) ListActive(context.Context) ([]internship.Internship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listHits++
	return s.items, s.err
}

func (s *fakeSource) Fingerprint(context.Context) (repository.Fingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fpErr != nil {
		return repository.Fingerprint{}, s.fpErr
	}
	fp := repository.Fingerprint{Count: len(s.items)}
	for _, it := range s.items {
		if it.UpdatedAt.After(fp.LatestUpdate) {
			fp.LatestUpdate = it.UpdatedAt
		}
	}
	return fp, nil
}

type recordingNotifier struct {
	counts []int
}

func (n *recordingNotifier) NotifyInternshipsUpdated(count int, _ string) {
	n.counts = append(n.counts, count)
}

const fallbackJSON = `[
  {"title": "Marketing Intern", "company": "Brightside", "location": "Mumbai", "sector_tags": ["Marketing"], "stipend": "₹8,000/month"},
  {"title": "Design Intern", "company": "Pixel", "location": {"city": "Pune", "state": "Maharashtra"}, "work_mode": "Hybrid"}
]`

func writeFallback(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "internships.json")
	if err := os.WriteFile(p, []byte(fallbackJSON), 0o600); err != nil {
		t.Fatalf("write fallback: %v", err)
	}
	return p
}

func listing(title string, updated time.Time) internship.Internship {
	return internship.Internship{ID: uuid.New(), Title: title, IsActive: true, UpdatedAt: updated}
}

func TestLoad_PrefersDatabase(t *testing.T) {
	now := time.Now().UTC()
	src := &fakeSource{items: []internship.Internship{listing("A", now)}}
	c := New(src, writeFallback(t), nil, logging.Discard())

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Origin() != OriginDatabase || len(c.Snapshot()) != 1 {
		t.Fatalf("expected database snapshot, got %s with %d", c.Origin(), len(c.Snapshot()))
	}
}

func TestLoad_FallsBackOnErrorOrEmpty(t *testing.T) {
	for _, src := range []*fakeSource{{err: errors.New("db down")}, {}} {
		c := New(src, writeFallback(t), nil, logging.Discard())
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if c.Origin() != OriginFallback {
			t.Fatalf("expected fallback origin, got %s", c.Origin())
		}
		items := c.Snapshot()
		if len(items) != 2 {
			t.Fatalf("expected 2 fallback listings, got %d", len(items))
		}
		if items[1].Location.City != "Pune" || items[1].WorkMode != internship.WorkModeHybrid {
			t.Fatalf("unexpected decoded listing %+v", items[1])
		}
		if items[0].ID == uuid.Nil || !items[0].IsActive {
			t.Fatalf("expected derived id and active flag, got %+v", items[0])
		}
		if _, err := c.Get(items[0].ID); err != nil {
			t.Fatalf("expected lookup by id: %v", err)
		}
	}
}

func TestLoad_NoSourceAndNoFile(t *testing.T) {
	c := New(&fakeSource{}, "", nil, logging.Discard())
	if err := c.Load(context.Background()); !errors.Is(err, ErrNoListings) {
		t.Fatalf("expected ErrNoListings, got %v", err)
	}
}

func TestDecodeListings_StableIDs(t *testing.T) {
	a, err := DecodeListings([]byte(fallbackJSON))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := DecodeListings([]byte(fallbackJSON))
	if a[0].ID != b[0].ID || a[0].ID == a[1].ID {
		t.Fatalf("expected stable distinct ids")
	}
}

func TestRefresh_NotifiesOnlyOnChange(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{items: []internship.Internship{listing("A", t0)}}
	n := &recordingNotifier{}
	c := New(src, "", n, logging.Discard())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	changed, err := c.Refresh(context.Background())
	if err != nil || changed {
		t.Fatalf("expected no change, got %v %v", changed, err)
	}
	if src.listHits != 1 {
		t.Fatalf("unchanged fingerprint must skip the full reload, got %d list calls", src.listHits)
	}

	src.mu.Lock()
	src.items = append(src.items, listing("B", t0.Add(time.Hour)))
	src.mu.Unlock()

	changed, err = c.Refresh(context.Background())
	if err != nil || !changed {
		t.Fatalf("expected change, got %v %v", changed, err)
	}
	if len(n.counts) != 1 || n.counts[0] != 2 {
		t.Fatalf("expected one notification with count 2, got %v", n.counts)
	}
	if len(c.Snapshot()) != 2 {
		t.Fatalf("expected new snapshot")
	}
}

func TestGet_Unknown(t *testing.T) {
	c := New(nil, "", nil, logging.Discard())
	if _, err := c.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeLocker struct {
	grant    bool
	released int
}

func (l *fakeLocker) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return l.grant, nil
}

func (l *fakeLocker) Release(context.Context, string, string) error {
	l.released++
	return nil
}

func TestScheduler_RefreshesOnlyWithLock(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{items: []internship.Internship{listing("A", t0)}}
	n := &recordingNotifier{}
	c := New(src, "", n, logging.Discard())

	denied := &fakeLocker{grant: false}
	NewScheduler(c, denied, "@every 1m", logging.Discard()).runRefresh(context.Background())
	if len(c.Snapshot()) != 0 || denied.released != 0 {
		t.Fatalf("expected no refresh without the lock")
	}

	granted := &fakeLocker{grant: true}
	NewScheduler(c, granted, "@every 1m", logging.Discard()).runRefresh(context.Background())
	if len(c.Snapshot()) != 1 || granted.released != 1 {
		t.Fatalf("expected refresh and lock release, snapshot=%d released=%d", len(c.Snapshot()), granted.released)
	}
	if len(n.counts) != 1 {
		t.Fatalf("expected a notification, got %v", n.counts)
	}
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(New(nil, "", nil, logging.Discard()), nil, "not a spec", logging.Discard())
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected invalid spec error")
	}
}
