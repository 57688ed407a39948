package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"internhub/internal/delivery/http/dto"
	"internhub/internal/delivery/http/middleware"
	"internhub/internal/filter"
	"internhub/internal/pkg/response"
	"internhub/internal/usecase"
)

type InternshipHandler struct {
	uc usecase.InternshipUsecase
}

func NewInternshipHandler(uc usecase.InternshipUsecase) *InternshipHandler {
	return &InternshipHandler{uc: uc}
}

func (h *InternshipHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/facets", h.Facets)
	r.Get("/:id", h.Get)
}

func (h *InternshipHandler) List(c fiber.Ctx) error {
	state, err := filterStateFromQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.List(c.Context(), state)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.InternshipListResponse{
		Items:   res.Items,
		Total:   res.Total,
		Filters: state,
	})
}

func (h *InternshipHandler) Facets(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Facets(c.Context()))
}

func (h *InternshipHandler) Get(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	it, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, it)
}

// filterStateFromQuery reads q, sector, location, skills (comma separated),
// work_mode, min_stipend, sort and near.
func filterStateFromQuery(c fiber.Ctx) (filter.State, error) {
	s := filter.State{
		Search:            c.Query("q"),
		Sector:            c.Query("sector"),
		Location:          c.Query("location"),
		WorkMode:          c.Query("work_mode"),
		ReferenceLocation: c.Query("near"),
	}

	if !filter.ValidWorkMode(s.WorkMode) {
		return filter.State{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid work_mode", nil, nil)
	}

	if raw := strings.TrimSpace(c.Query("skills")); raw != "" {
		for _, sk := range strings.Split(raw, ",") {
			if sk = strings.TrimSpace(sk); sk != "" {
				s.Skills = append(s.Skills, sk)
			}
		}
	}

	if raw := strings.TrimSpace(c.Query("min_stipend")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter.State{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_stipend", nil, err)
		}
		s.MinStipend = v
	}

	sort, ok := filter.ParseSortKey(c.Query("sort"))
	if !ok {
		return filter.State{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid sort", nil, nil)
	}
	s.Sort = sort
	return s, nil
}
