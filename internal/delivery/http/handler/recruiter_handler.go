package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
)

type RecruiterHandler struct {
	uc usecase.RecruiterUsecase
}

type createListingRequest struct {
	Title       string     `json:"title"`
	Role        string     `json:"role"`
	Company     string     `json:"company"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Stipend     string     `json:"stipend"`
	Duration    string     `json:"duration"`
	SectorTags  []string   `json:"sector_tags"`
	Skills      []string   `json:"skills"`
	WorkMode    string     `json:"work_mode"`
	Description string     `json:"description"`
	ApplyURL    string     `json:"apply_url"`
	Deadline    *time.Time `json:"deadline"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewRecruiterHandler(uc usecase.RecruiterUsecase) *RecruiterHandler {
	return &RecruiterHandler{uc: uc}
}

func (h *RecruiterHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/internships", h.CreateListing)
	r.Get("/internships", h.ListOwn)
	r.Get("/internships/:id/applications", h.Applicants)
	r.Patch("/applications/:id", h.UpdateStatus)
}

func (h *RecruiterHandler) CreateListing(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	it, err := h.uc.CreateListing(c.Context(), userID, usecase.CreateListingInput{
		Title:       req.Title,
		Role:        req.Role,
		Company:     req.Company,
		City:        req.City,
		State:       req.State,
		Stipend:     req.Stipend,
		Duration:    req.Duration,
		SectorTags:  req.SectorTags,
		Skills:      req.Skills,
		WorkMode:    req.WorkMode,
		Description: req.Description,
		ApplyURL:    req.ApplyURL,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", it)
}

func (h *RecruiterHandler) ListOwn(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListOwn(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *RecruiterHandler) Applicants(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	views, err := h.uc.Applicants(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicantList(views))
}

func (h *RecruiterHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	a, err := h.uc.UpdateStatus(c.Context(), userID, id, req.Status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a))
}
