package v1

import (
	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/handler"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/domain/user"
)

// Handlers is everything the v1 API mounts. Nil handlers are skipped.
type Handlers struct {
	Auth        *middleware.AuthMiddleware
	AuthHandler *handler.AuthHandler
	User        *handler.UserHandler
	Internship  *handler.InternshipHandler
	Filter      *handler.FilterHandler
	Match       *handler.MatchHandler
	Application *handler.ApplicationHandler
	Assistant   *handler.AssistantHandler
	Recruiter   *handler.RecruiterHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.AuthHandler != nil {
		h.AuthHandler.RegisterRoutes(r.Group("/auth"))
	}
	if h.Internship != nil {
		h.Internship.RegisterRoutes(r.Group("/internships"))
	}

	if h.Auth == nil {
		return
	}
	protected := r.Group("", h.Auth.Middleware())

	if h.User != nil {
		h.User.RegisterRoutes(protected)
	}

	me := protected.Group("/me")
	if h.Filter != nil {
		h.Filter.RegisterRoutes(me)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(me)
	}
	if h.Application != nil {
		h.Application.RegisterRoutes(me)
	}

	if h.Assistant != nil {
		h.Assistant.RegisterRoutes(protected.Group("/assistant"))
	}
	if h.Recruiter != nil {
		h.Recruiter.RegisterRoutes(protected.Group("/recruiter", middleware.RequireRole(user.RoleRecruiter)))
	}
}
