package technique

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
	api.GET("/techniques", h.List)
	api.POST("/techniques", h.Create)
	api.POST("/techniques/seed", h.Seed)
	api.GET("/techniques/:id", h.Get)
	api.PUT("/techniques/:id", h.Update)
	api.DELETE("/techniques/:id", h.Delete)

	api.POST("/evaluations", h.Evaluate)
	api.GET("/patients/:id/evaluations", h.ListEvaluations)
}

func (h *Handler) Create(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.Create(c.Request().Context(), ident, &in)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, t)
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
	t, err := h.svc.Get(c.Request().Context(), ident, id)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) List(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	items, err := h.svc.List(c.Request().Context(), ident)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	if items == nil {
		items = []*Technique{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.Update(c.Request().Context(), ident, id, &in)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Delete(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), ident, id); err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Seed(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	report, err := h.svc.Seed(c.Request().Context(), ident)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Evaluate(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	var in EvaluationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, warnings, err := h.svc.Evaluate(c.Request().Context(), ident, &in)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	resp := map[string]interface{}{"evaluation": e}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListEvaluations(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var items []*Evaluation
	if tid := c.QueryParam("technique_id"); tid != "" {
		techniqueID, err := uuid.Parse(tid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid technique_id")
		}
		items, err = h.svc.ListEvaluationsForTechnique(c.Request().Context(), ident, patientID, techniqueID)
		if err != nil {
			return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
		}
	} else {
		items, err = h.svc.ListEvaluations(c.Request().Context(), ident, patientID)
		if err != nil {
			return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
		}
	}
	if items == nil {
		items = []*Evaluation{}
	}
	return c.JSON(http.StatusOK, items)
}
