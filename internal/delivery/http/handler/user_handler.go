package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/domain/user"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
	useruc "internhub/internal/usecase/user"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	FullName          *string  `json:"full_name"`
	Skills            []string `json:"skills"`
	PreferredSectors  []string `json:"preferred_sectors"`
	PreferredLocation *string  `json:"preferred_location"`
	PreferredWorkMode *string  `json:"preferred_work_mode"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	me, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUserError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(me))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.FullName == nil && req.Skills == nil && req.PreferredSectors == nil &&
		req.PreferredLocation == nil && req.PreferredWorkMode == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	me, err := h.uc.UpdateMe(c.Context(), userID, useruc.UpdateProfileInput{
		FullName:          req.FullName,
		Skills:            req.Skills,
		PreferredSectors:  req.PreferredSectors,
		PreferredLocation: req.PreferredLocation,
		PreferredWorkMode: req.PreferredWorkMode,
	})
	if err != nil {
		return mapUserError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(me))
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
