package ingest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"internhub/internal/catalog"
	"internhub/internal/domain/internship"
)

type Upserter interface {
	UpsertBySourceKey(ctx context.Context, items []internship.Internship) (int, error)
}

type Scraper interface {
	Scrape(ctx context.Context) ([]internship.Internship, error)
}

type Ingester struct {
	repo Upserter
	log  *logrus.Entry
}

func NewIngester(repo Upserter, logger *logrus.Logger) *Ingester {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ingester{repo: repo, log: logger.WithField("component", "ingest")}
}

// FromFile upserts listings from a file in the catalog fallback format.
func (i *Ingester) FromFile(ctx context.Context, path string) (int, error) {
	items, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}
	return i.store(ctx, "file", items)
}

func (i *Ingester) FromScraper(ctx context.Context, s Scraper) (int, error) {
	items, err := s.Scrape(ctx)
	if err != nil {
		return 0, fmt.Errorf("scrape: %w", err)
	}
	return i.store(ctx, "board", items)
}

func (i *Ingester) store(ctx context.Context, source string, items []internship.Internship) (int, error) {
	n, err := i.repo.UpsertBySourceKey(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("upsert %s listings: %w", source, err)
	}
	i.log.WithFields(logrus.Fields{
		"source":   source,
		"read":     len(items),
		"upserted": n,
	}).Info("listings ingested")
	return n, nil
}
