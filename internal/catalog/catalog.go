// Package catalog owns the in-memory set of active internship listings that
// every read path filters over.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"internhub/internal/domain/internship"
	"internhub/internal/repository"
)

const (
	OriginDatabase = "database"
	OriginFallback = "fallback"
)

var (
	ErrNoListings = errors.New("no internship listings available")
	ErrNotFound   = errors.New("internship not found")
)

// fallbackNamespace derives stable ids for file listings that carry none.
var fallbackNamespace = uuid.MustParse("6f1c1d8e-8f0b-4a8e-9a51-3c2d0c7f4b10")

type Source interface {
	ListActive(ctx context.Context) ([]internship.Internship, error)
	Fingerprint(ctx context.Context) (repository.Fingerprint, error)
}

type Notifier interface {
	NotifyInternshipsUpdated(count int, source string)
}

type snapshot struct {
	items    []internship.Internship
	byID     map[uuid.UUID]int
	origin   string
	fp       repository.Fingerprint
	loadedAt time.Time
}

type Catalog struct {
	source       Source
	fallbackPath string
	notifier     Notifier
	log          *logrus.Entry

	refreshMu sync.Mutex
	current   atomic.Pointer[snapshot]
}

func New(source Source, fallbackPath string, notifier Notifier, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Catalog{
		source:       source,
		fallbackPath: strings.TrimSpace(fallbackPath),
		notifier:     notifier,
		log:          logger.WithField("component", "catalog"),
	}
	c.current.Store(&snapshot{byID: map[uuid.UUID]int{}})
	return c
}

// Load replaces the snapshot unconditionally. The database is preferred; a
// failed or empty read falls back to the bundled JSON file.
func (c *Catalog) Load(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	snap, err := c.build(ctx)
	if err != nil {
		return err
	}
	c.current.Store(snap)
	return nil
}

// Refresh reloads the listings and broadcasts an update when they changed.
// The database fingerprint is checked first so an idle catalog costs one
// aggregate query per tick.
func (c *Catalog) Refresh(ctx context.Context) (bool, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	prev := c.current.Load()
	if prev.origin == OriginDatabase && c.source != nil {
		fp, err := c.source.Fingerprint(ctx)
		if err == nil && sameFingerprint(fp, prev.fp) {
			return false, nil
		}
	}

	next, err := c.build(ctx)
	if err != nil {
		return false, err
	}
	if next.origin == prev.origin && sameFingerprint(next.fp, prev.fp) && len(prev.items) > 0 {
		return false, nil
	}

	c.current.Store(next)
	c.log.WithFields(logrus.Fields{
		"origin": next.origin,
		"count":  len(next.items),
	}).Info("catalog refreshed")
	if c.notifier != nil {
		c.notifier.NotifyInternshipsUpdated(len(next.items), next.origin)
	}
	return true, nil
}

// Snapshot returns the current listings. The slice is shared and must not be
// modified.
func (c *Catalog) Snapshot() []internship.Internship {
	return c.current.Load().items
}

func (c *Catalog) Get(id uuid.UUID) (internship.Internship, error) {
	snap := c.current.Load()
	i, ok := snap.byID[id]
	if !ok {
		return internship.Internship{}, ErrNotFound
	}
	return snap.items[i], nil
}

func (c *Catalog) Len() int {
	return len(c.current.Load().items)
}

func (c *Catalog) Origin() string {
	return c.current.Load().origin
}

func (c *Catalog) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}

func (c *Catalog) build(ctx context.Context) (*snapshot, error) {
	if c.source != nil {
		items, err := c.source.ListActive(ctx)
		switch {
		case err != nil:
			c.log.WithError(err).Warn("database listings unavailable, using fallback file")
		case len(items) == 0:
			c.log.Warn("database has no active listings, using fallback file")
		default:
			return newSnapshot(items, OriginDatabase), nil
		}
	}

	items, err := LoadFile(c.fallbackPath)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoListings
	}
	return newSnapshot(items, OriginFallback), nil
}

func sameFingerprint(a, b repository.Fingerprint) bool {
	return a.Count == b.Count && a.LatestUpdate.Equal(b.LatestUpdate)
}

func newSnapshot(items []internship.Internship, origin string) *snapshot {
	s := &snapshot{
		items:    items,
		byID:     make(map[uuid.UUID]int, len(items)),
		origin:   origin,
		loadedAt: time.Now().UTC(),
	}
	s.fp.Count = len(items)
	for i, it := range items {
		s.byID[it.ID] = i
		if it.UpdatedAt.After(s.fp.LatestUpdate) {
			s.fp.LatestUpdate = it.UpdatedAt.UTC()
		}
	}
	return s
}

// LoadFile reads listings in the JSON fallback format: an array of internship
// objects whose location may be a string or a {city, state} object. Every
// listing in the file is treated as active.
func LoadFile(path string) ([]internship.Internship, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no fallback file configured", ErrNoListings)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback listings: %w", err)
	}
	return DecodeListings(b)
}

func DecodeListings(b []byte) ([]internship.Internship, error) {
	var items []internship.Internship
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	for i := range items {
		it := &items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.NewSHA1(fallbackNamespace, []byte(it.Company+"\x00"+it.Title+"\x00"+it.Location.String()))
		}
		if it.SourceKey == "" {
			it.SourceKey = "file:" + it.ID.String()
		}
		it.IsActive = true
	}
	return items, nil
}
