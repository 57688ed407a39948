package handler

import (
	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
)

type AssistantHandler struct {
	uc usecase.AssistantUsecase
}

type chatRequest struct {
	Message string `json:"message"`
}

func NewAssistantHandler(uc usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

func (h *AssistantHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/chat", h.Chat)
	r.Get("/stats", h.Stats)
}

func (h *AssistantHandler) Chat(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	reply, err := h.uc.Chat(c.Context(), req.Message)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ChatResponse{Reply: reply})
}

func (h *AssistantHandler) Stats(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Stats(c.Context()))
}
