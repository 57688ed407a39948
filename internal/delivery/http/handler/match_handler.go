package handler

import (
	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/internships/:id/match", h.Match)
	r.Post("/internships/:id/commentary", h.Commentary)
}

func (h *MatchHandler) Match(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	view, err := h.uc.Match(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchResponse{
		Internship: view.Internship,
		Match:      view.Result,
	})
}

func (h *MatchHandler) Commentary(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	text, err := h.uc.Commentary(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CommentaryResponse{Commentary: text})
}
