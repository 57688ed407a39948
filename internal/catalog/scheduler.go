package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const refreshLockKey = "catalog:refresh:lock"

type Locker interface {
	SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, value string) error
}

// Scheduler refreshes the catalog on a cron spec. With several API instances
// behind one Redis only the instance holding the lock refreshes on a tick;
// the others pick the change up on their next tick through the fingerprint.
type Scheduler struct {
	cron    *cron.Cron
	catalog *Catalog
	locker  Locker
	spec    string
	holder  string
	lockTTL time.Duration
	timeout time.Duration
	log     *logrus.Entry
}

func NewScheduler(c *Catalog, locker Locker, spec string, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:    cron.New(),
		catalog: c,
		locker:  locker,
		spec:    spec,
		holder:  uuid.NewString(),
		lockTTL: time.Minute,
		timeout: 30 * time.Second,
		log:     logger.WithField("component", "catalog_scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("catalog refresh scheduled")
	return nil
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("catalog refresh stopped")
}

func (s *Scheduler) runRefresh(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.SetIfNotExists(ctx, refreshLockKey, s.holder, s.lockTTL)
		if err != nil {
			s.log.WithError(err).Warn("refresh lock failed, skipping tick")
			return
		}
		if !ok {
			s.log.Debug("another instance holds the refresh lock")
			return
		}
		defer func() {
			_ = s.locker.Release(context.Background(), refreshLockKey, s.holder)
		}()
	}

	changed, err := s.catalog.Refresh(ctx)
	if err != nil {
		s.log.WithError(err).Error("catalog refresh failed")
		return
	}
	s.log.WithField("changed", changed).Debug("catalog refresh tick")
}
