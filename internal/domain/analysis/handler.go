package analysis

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analysis/questions", h.Questions)
	api.POST("/patients/:id/analyses", h.Submit)
	api.GET("/patients/:id/analyses", h.ListByPatient)
	api.GET("/patients/:id/analyses/current", h.Current)
	api.GET("/analyses/:id", h.Get)
}

// Questions serves the fixed questionnaire catalog grouped by category.
func (h *Handler) Questions(c echo.Context) error {
	type group struct {
		Category  Category   `json:"category"`
		Label     string     `json:"label"`
		Questions []Question `json:"questions"`
	}
	groups := make([]group, 0, len(Categories))
	for _, cat := range Categories {
		groups = append(groups, group{
			Category:  cat,
			Label:     CategoryLabels[cat],
			Questions: QuestionsByCategory(cat),
		})
	}
	return c.JSON(http.StatusOK, groups)
}

type submitRequest struct {
	Answers map[string]int `json:"answers"`
}

type submitResponse struct {
	Analysis *Analysis       `json:"analysis"`
	Warnings []fault.Warning `json:"warnings,omitempty"`
}

// Submit runs a full questionnaire flow server-side: the posted answers go
// through the same completion gate and scoring the interactive flow uses.
func (h *Handler) Submit(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	flow := NewFlow(patientID)
	for id, v := range req.Answers {
		flow.SelectAnswer(id, v)
	}
	a, warnings, err := flow.Submit(c.Request().Context(), ident, h.svc)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, submitResponse{Analysis: a, Warnings: warnings})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	analyses, err := h.svc.ListByPatient(c.Request().Context(), ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	if analyses == nil {
		analyses = []*Analysis{}
	}
	return c.JSON(http.StatusOK, analyses)
}

func (h *Handler) Current(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cur, err := h.svc.Current(c.Request().Context(), ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *Handler) Get(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetByID(c.Request().Context(), ident, id)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
