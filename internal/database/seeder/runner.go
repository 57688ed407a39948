package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"internhub/internal/database"
)

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *logrus.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := r.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.WithFields(logrus.Fields{
			"component": "seeder",
			"seeder":    s.Name(),
			"duration":  time.Since(start).String(),
		}).Info("seeder applied")
	}
	return nil
}
