package journey

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quantum5d/quantum5d/internal/domain/technique"
	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// TimelineSource supplies the evaluations and knowledge base that enrich a
// patient's timeline. The technique package's service satisfies it through
// a small adapter in main.
type TimelineSource interface {
	EvaluationsByPatient(ctx context.Context, ident auth.Identity, patientID uuid.UUID) ([]*technique.Evaluation, error)
	KnowledgeBase(ctx context.Context, ident auth.Identity) ([]*technique.Technique, error)
}

// PatientHeader is the patient summary that tops a journey report.
type PatientHeader struct {
	ID                 uuid.UUID  `json:"id"`
	FullName           string     `json:"full_name"`
	CurrentPhaseNumber int        `json:"current_phase_number"`
	PhaseStartDate     *time.Time `json:"phase_start_date,omitempty"`
	HasAnalysis        bool       `json:"has_analysis"`
}

// PatientSource resolves the header for a report.
type PatientSource interface {
	Header(ctx context.Context, ident auth.Identity, patientID uuid.UUID) (*PatientHeader, error)
}

type Handler struct {
	svc      *Service
	timeline TimelineSource
	patients PatientSource
}

func NewHandler(svc *Service, timeline TimelineSource, patients PatientSource) *Handler {
	return &Handler{svc: svc, timeline: timeline, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/journey", h.ListEvents)
	api.POST("/patients/:id/journey", h.LogEvent)
	api.POST("/patients/:id/advance-phase", h.AdvancePhase)
	api.GET("/patients/:id/timeline", h.Timeline)
	api.GET("/patients/:id/report", h.Report)
}

type logEventRequest struct {
	EventType           EventType              `json:"event_type"`
	EventData           map[string]interface{} `json:"event_data"`
	RelatedAnalysisID   *uuid.UUID             `json:"related_analysis_id"`
	RelatedKnowledgeID  *uuid.UUID             `json:"related_knowledge_id"`
	RelatedEvaluationID *uuid.UUID             `json:"related_technique_evaluation_id"`
	Notes               *string                `json:"notes"`
	Timestamp           time.Time              `json:"timestamp"`
}

func (h *Handler) LogEvent(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req logEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e := &Event{
		PatientID:           patientID,
		EventType:           req.EventType,
		EventData:           req.EventData,
		RelatedAnalysisID:   req.RelatedAnalysisID,
		RelatedKnowledgeID:  req.RelatedKnowledgeID,
		RelatedEvaluationID: req.RelatedEvaluationID,
		Notes:               req.Notes,
		Timestamp:           req.Timestamp,
	}
	if err := h.svc.LogEvent(c.Request().Context(), ident, e); err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListEvents(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	events, err := h.svc.ListByPatient(c.Request().Context(), ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	if events == nil {
		events = []*Event{}
	}
	return c.JSON(http.StatusOK, events)
}

type advancePhaseRequest struct {
	PreviousPhaseEventID *uuid.UUID `json:"previous_phase_event_id"`
	NewPhaseNumber       int        `json:"new_phase_number"`
}

func (h *Handler) AdvancePhase(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req advancePhaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, warnings, err := h.svc.AdvancePhase(c.Request().Context(), ident, patientID, req.PreviousPhaseEventID, req.NewPhaseNumber)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	resp := map[string]interface{}{"result": result}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildTimeline(c echo.Context, ident auth.Identity, patientID uuid.UUID) (Timeline, error) {
	ctx := c.Request().Context()
	events, err := h.svc.ListByPatient(ctx, ident, patientID)
	if err != nil {
		return Timeline{}, err
	}
	evaluations, err := h.timeline.EvaluationsByPatient(ctx, ident, patientID)
	if err != nil {
		return Timeline{}, err
	}
	kb, err := h.timeline.KnowledgeBase(ctx, ident)
	if err != nil {
		return Timeline{}, err
	}
	return BuildTimeline(events, evaluations, kb), nil
}

func (h *Handler) Timeline(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	tl, err := h.buildTimeline(c, ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, tl)
}

// Report renders the patient header plus the full timeline, the payload a
// printable journey report is built from.
func (h *Handler) Report(c echo.Context) error {
	ident, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	header, err := h.patients.Header(c.Request().Context(), ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	tl, err := h.buildTimeline(c, ident, patientID)
	if err != nil {
		return echo.NewHTTPError(fault.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient":      header,
		"timeline":     tl,
		"generated_at": time.Now().UTC(),
	})
}
