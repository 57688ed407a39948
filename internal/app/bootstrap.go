package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"internhub/internal/config"
	"internhub/internal/delivery/http/handler"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/delivery/http/routes"
	v1 "internhub/internal/delivery/http/routes/v1"
	"internhub/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an already wired container.
func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	return New(cfg, c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logrus.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	uc := c.Usecases()
	health := handler.NewHealthHandler(c.Catalog, map[string]handler.Pinger{"database": c.DB})

	routes.NewRegistry(health, v1.Handlers{
		Auth:        middleware.NewAuthMiddleware(c.JWT),
		AuthHandler: handler.NewAuthHandler(uc.Auth),
		User:        handler.NewUserHandler(uc.User),
		Internship:  handler.NewInternshipHandler(uc.Internships),
		Filter:      handler.NewFilterHandler(uc.Filters),
		Match:       handler.NewMatchHandler(uc.Matching),
		Application: handler.NewApplicationHandler(uc.Applications),
		Assistant:   handler.NewAssistantHandler(uc.Assistant),
		Recruiter:   handler.NewRecruiterHandler(uc.Recruiter),
	}).Register(app)

	ws.NewHandler(c.Hub).RegisterRoutes(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
