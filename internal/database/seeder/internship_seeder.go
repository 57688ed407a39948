package seeder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"internhub/internal/database"
	"internhub/internal/ingest"
	"internhub/internal/repository"
)

// InternshipSeeder upserts listings from a file in the catalog fallback
// format. Re-running it updates rows in place by source key.
type InternshipSeeder struct {
	Path   string
	Logger *logrus.Logger
}

func (InternshipSeeder) Name() string { return "internships" }

func (s InternshipSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "internships",
		"id",
		"source_key",
		"title",
		"company",
		"city",
		"state",
		"location_raw",
		"stipend",
		"sector_tags",
		"skills",
		"work_mode",
		"is_active",
		"updated_at",
	); err != nil {
		return err
	}

	n, err := ingest.NewIngester(repository.NewPostgresInternshipRepository(db), s.Logger).FromFile(ctx, s.Path)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no listings in %s", s.Path)
	}
	return nil
}
