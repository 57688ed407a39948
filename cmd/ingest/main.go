package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"internhub/internal/config"
	"internhub/internal/database/migration"
	dbpostgres "internhub/internal/database/postgres"
	"internhub/internal/database/seeder"
	"internhub/internal/ingest"
	"internhub/internal/logging"
	"internhub/internal/repository"
)

func main() {
	jsonPath := flag.String("json", "", "seed listings from a JSON file in the fallback format")
	boardURL := flag.String("board", "", "scrape an HTML internship board (defaults to INGEST_BOARD_URL)")
	pages := flag.Int("pages", 5, "maximum board list pages to follow")
	migrate := flag.Bool("migrate", true, "apply migrations before ingesting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logging.New(cfg.App)

	board := strings.TrimSpace(*boardURL)
	if board == "" && strings.TrimSpace(*jsonPath) == "" {
		board = cfg.Ingest.BoardURL
	}
	if board == "" && strings.TrimSpace(*jsonPath) == "" {
		log.Fatal("provide -json and/or -board")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer func() {
		_ = db.Close()
	}()

	if *migrate {
		if err := (migration.Runner{Logger: log}).Run(ctx, db.SQLDB()); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}

	if p := strings.TrimSpace(*jsonPath); p != "" {
		r := seeder.Runner{Logger: log, Seeders: []seeder.Seeder{seeder.InternshipSeeder{Path: p, Logger: log}}}
		if err := r.Run(ctx, db); err != nil {
			log.WithError(err).Fatal("json ingest failed")
		}
	}

	if board != "" {
		s, err := ingest.NewBoardScraper(board, ingest.BoardOptions{
			MaxPages:    *pages,
			Parallelism: cfg.Ingest.Parallelism,
			Delay:       cfg.Ingest.Delay,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("invalid board url")
		}
		ing := ingest.NewIngester(repository.NewPostgresInternshipRepository(db), log)
		if _, err := ing.FromScraper(ctx, s); err != nil {
			log.WithError(err).Fatal("board ingest failed")
		}
	}
}
