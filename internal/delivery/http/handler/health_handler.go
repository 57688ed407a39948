package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"internhub/internal/pkg/response"
)

// Pinger is any dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CatalogInfo interface {
	Origin() string
	LoadedAt() time.Time
	Len() int
}

type HealthHandler struct {
	checks  map[string]Pinger
	catalog CatalogInfo
}

func NewHealthHandler(catalog CatalogInfo, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, catalog: catalog}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports 503 when any dependency fails its ping. The catalog keeps
// serving its last snapshot either way.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			deps[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	data := map[string]any{"dependencies": deps}
	if h.catalog != nil {
		data["catalog"] = map[string]any{
			"origin":    h.catalog.Origin(),
			"listings":  h.catalog.Len(),
			"loaded_at": h.catalog.LoadedAt(),
		}
	}
	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, data)
	}
	return response.Success(c, status, response.MessageOK, data)
}
