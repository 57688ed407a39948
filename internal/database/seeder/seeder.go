// Package seeder loads reference data into a migrated database.
package seeder

import (
	"context"

	"internhub/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
