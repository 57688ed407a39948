package handler

import (
	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/filter"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
)

type FilterHandler struct {
	uc usecase.SavedFilterUsecase
}

func NewFilterHandler(uc usecase.SavedFilterUsecase) *FilterHandler {
	return &FilterHandler{uc: uc}
}

func (h *FilterHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/filters", h.Get)
	r.Put("/filters", h.Save)
	r.Delete("/filters", h.Clear)
	r.Get("/internships", h.List)
}

func (h *FilterHandler) Get(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	s, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *FilterHandler) Save(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req filter.State
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.uc.Save(c.Context(), userID, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *FilterHandler) Clear(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.uc.Clear(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// List applies the saved filter state.
func (h *FilterHandler) List(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	res, s, err := h.uc.ListForUser(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.InternshipListResponse{
		Items:   res.Items,
		Total:   res.Total,
		Filters: s,
	})
}
