package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type Service struct {
	repo     Repository
	patients PhaseStore
	log      zerolog.Logger
}

func NewService(repo Repository, patients PhaseStore, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, log: log}
}

// LogEvent appends an event to a patient's journey, stamped with the owner
// identity. The server supplies the timestamp when the caller leaves it zero.
func (s *Service) LogEvent(ctx context.Context, ident auth.Identity, e *Event) error {
	if e.PatientID == uuid.Nil {
		return fault.Validation("patient_id é obrigatório")
	}
	if e.EventType == "" {
		return fault.Validation("event_type é obrigatório")
	}
	e.UserID = ident.UserID
	return s.repo.Create(ctx, e)
}

func (s *Service) ListByPatient(ctx context.Context, ident auth.Identity, patientID uuid.UUID) ([]*Event, error) {
	return s.repo.ListByPatient(ctx, ident.UserID, patientID)
}

// LogEvaluationCompleted records a technique-evaluation-completed event.
// It backs the technique package's EventLogger.
func (s *Service) LogEvaluationCompleted(ctx context.Context, userID, patientID, techniqueID, evaluationID uuid.UUID, notes *string) error {
	return s.repo.Create(ctx, &Event{
		PatientID:           patientID,
		UserID:              userID,
		EventType:           EventEvaluationCompleted,
		RelatedKnowledgeID:  &techniqueID,
		RelatedEvaluationID: &evaluationID,
		Notes:               notes,
	})
}

// LogAnalysisGenerated records an analysis-generated event carrying the
// analysis id and its category scores. It backs the analysis package's
// EventLogger.
func (s *Service) LogAnalysisGenerated(ctx context.Context, userID, patientID, analysisID uuid.UUID, categories map[string]float64) error {
	data := map[string]interface{}{"analysisId": analysisID.String()}
	if len(categories) > 0 {
		data["categories"] = categories
	}
	return s.repo.Create(ctx, &Event{
		PatientID:         patientID,
		UserID:            userID,
		EventType:         EventAnalysisGenerated,
		EventData:         data,
		RelatedAnalysisID: &analysisID,
	})
}

// AdvancePhase moves a patient to a new phase. The phase number and start
// date on the patient row are authoritative: if that write fails nothing
// else runs and the operation fails. Everything after it is bookkeeping
// that degrades to warnings: stamping the previous phase-start event's end
// date, inserting the new phase-start event, and linking it back to the
// patient row. One timestamp is used across all effects.
func (s *Service) AdvancePhase(ctx context.Context, ident auth.Identity, patientID uuid.UUID, prevPhaseEventID *uuid.UUID, newPhaseNumber int) (*PhaseAdvance, []fault.Warning, error) {
	if newPhaseNumber < 1 {
		return nil, nil, fault.Validationf("número de fase inválido: %d", newPhaseNumber)
	}

	now := time.Now().UTC()
	var newEventID *uuid.UUID

	steps := []step{
		{
			name:          "update_patient_phase",
			authoritative: true,
			run: func(ctx context.Context) error {
				return s.patients.UpdatePhase(ctx, ident.UserID, patientID, newPhaseNumber, now)
			},
		},
		{
			name: "stamp_previous_phase_end",
			skip: prevPhaseEventID == nil,
			run: func(ctx context.Context) error {
				return s.repo.StampPhaseEnd(ctx, ident.UserID, *prevPhaseEventID, now)
			},
		},
		{
			name: "insert_phase_start_event",
			run: func(ctx context.Context) error {
				e := &Event{
					PatientID: patientID,
					UserID:    ident.UserID,
					EventType: EventPhaseStart,
					EventData: map[string]interface{}{
						"description": fmt.Sprintf("Início da Fase %d", newPhaseNumber),
					},
					Timestamp: now,
				}
				if err := s.repo.Create(ctx, e); err != nil {
					return err
				}
				newEventID = &e.ID
				return nil
			},
		},
		{
			name: "link_phase_event_to_patient",
			run: func(ctx context.Context) error {
				if newEventID == nil {
					// Nothing to link; the insert already warned.
					return nil
				}
				return s.patients.LinkPhaseEvent(ctx, ident.UserID, patientID, *newEventID)
			},
		},
	}

	warnings, err := runSteps(ctx, steps)
	if err != nil {
		return nil, warnings, err
	}
	for _, w := range warnings {
		s.log.Warn().
			Str("patient_id", patientID.String()).
			Str("step", w.Step).
			Str("detail", w.Detail).
			Msg("phase advance completed with degraded bookkeeping")
	}
	return &PhaseAdvance{EventID: newEventID, PhaseNumber: newPhaseNumber, StartedAt: now}, warnings, nil
}

// DeleteByPatient removes a patient's journey events, returning the row
// count. It backs the patient package's cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	return s.repo.DeleteByPatient(ctx, userID, patientID)
}
