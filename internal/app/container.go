package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"internhub/internal/aiqueue"
	"internhub/internal/catalog"
	"internhub/internal/config"
	"internhub/internal/database"
	"internhub/internal/database/migration"
	dbpostgres "internhub/internal/database/postgres"
	"internhub/internal/infrastructure/cache"
	"internhub/internal/infrastructure/llm"
	"internhub/internal/infrastructure/persistence/postgres"
	"internhub/internal/pkg/jwt"
	"internhub/internal/repository"
	"internhub/internal/usecase"
	"internhub/internal/ws"
)

// Container owns every long-lived dependency of the API process.
type Container struct {
	Config config.Config
	Log    *logrus.Logger

	DB        database.DB
	Redis     *cache.Redis
	Hub       *ws.Hub
	Catalog   *catalog.Catalog
	Scheduler *catalog.Scheduler
	AI        *aiqueue.Queue
	JWT       jwt.Service

	Users        *postgres.UserRepository
	Internships  repository.InternshipRepository
	Applications repository.ApplicationRepository
	Filters      repository.FilterStateRepository

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, log *logrus.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := (migration.Runner{Logger: log}).Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	c := &Container{Config: cfg, Log: log, DB: db}

	c.Redis = cache.NewRedis(cfg.Redis, log)
	c.Hub = ws.NewHub(log)

	c.Users = postgres.NewUserRepository(db)
	c.Internships = repository.NewPostgresInternshipRepository(db)
	c.Applications = repository.NewPostgresApplicationRepository(db)
	c.Filters = repository.NewRedisFilterStateRepository(c.Redis)

	c.Catalog = catalog.New(c.Internships, cfg.Catalog.FallbackPath, c.Hub, log)
	if err := c.Catalog.Load(ctx); err != nil {
		// An empty catalog still serves auth and profile routes.
		log.WithError(err).Warn("catalog load failed, starting empty")
	}
	c.Scheduler = catalog.NewScheduler(c.Catalog, c.Redis, cfg.Catalog.RefreshSpec, log)

	c.AI = aiqueue.New(llm.NewClient(cfg.AI, log), queueConfig(cfg.AI), aiqueue.WithLogger(log))

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	return c, nil
}

func queueConfig(ai config.AIConfig) aiqueue.Config {
	return aiqueue.Config{
		RequestInterval: ai.RequestInterval,
		BaseRetryDelay:  ai.RetryBaseDelay,
		MaxRetries:      ai.MaxRetries,
		CacheTTL:        ai.CacheTTL,
		CacheCapacity:   ai.CacheCapacity,
		RequestTimeout:  ai.RequestTimeout,
	}
}

// Start launches the background workers: websocket hub, AI queue worker and
// the catalog refresh schedule.
func (c *Container) Start(ctx context.Context) error {
	hubCtx, cancel := context.WithCancel(ctx)
	c.stopHub = cancel
	go c.Hub.Run(hubCtx)

	c.AI.Start()

	if err := c.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start catalog scheduler: %w", err)
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.AI != nil {
		c.AI.Close()
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) Usecases() Usecases {
	return Usecases{
		Auth:         usecase.NewAuthUsecase(c.Users, c.JWT),
		User:         usecase.NewUserUsecase(c.Users),
		Internships:  usecase.NewInternshipUsecase(c.Catalog),
		Filters:      usecase.NewSavedFilterUsecase(c.Filters, c.Users, c.Catalog),
		Matching:     usecase.NewMatchingUsecase(c.Catalog, c.Users, c.AI),
		Assistant:    usecase.NewAssistantUsecase(c.AI, c.AI),
		Applications: usecase.NewApplicationUsecase(c.Applications, c.Catalog),
		Recruiter:    usecase.NewRecruiterUsecase(c.Internships, c.Applications, c.Catalog, c.Log),
	}
}

type Usecases struct {
	Auth         usecase.AuthUsecase
	User         usecase.UserUsecase
	Internships  usecase.InternshipUsecase
	Filters      usecase.SavedFilterUsecase
	Matching     usecase.MatchingUsecase
	Assistant    usecase.AssistantUsecase
	Applications usecase.ApplicationUsecase
	Recruiter    usecase.RecruiterUsecase
}
