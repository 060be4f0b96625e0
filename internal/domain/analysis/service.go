package analysis

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// PatientFlagger marks a patient as having at least one analysis. The
// patient service satisfies it.
type PatientFlagger interface {
	SetHasAnalysis(ctx context.Context, ident auth.Identity, id uuid.UUID, has bool) error
}

// EventLogger records an analysis-generated journey event. The journey
// service satisfies it.
type EventLogger interface {
	LogAnalysisGenerated(ctx context.Context, userID, patientID, analysisID uuid.UUID, categories map[string]float64) error
}

type Service struct {
	repo     Repository
	patients PatientFlagger
	events   EventLogger
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientFlagger, events EventLogger, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, events: events, log: log}
}

// Save inserts a scored analysis. The insert is authoritative; flagging the
// patient and logging the journey event are bookkeeping that degrades to
// warnings.
func (s *Service) Save(ctx context.Context, ident auth.Identity, patientID uuid.UUID, answers map[string]int, results Results) (*Analysis, []fault.Warning, error) {
	if patientID == uuid.Nil {
		return nil, nil, fault.Validation("patient_id é obrigatório")
	}
	if len(results.Categories) == 0 {
		return nil, nil, fault.Validation("resultados sem categorias: análise inválida")
	}

	a := &Analysis{
		PatientID: patientID,
		UserID:    ident.UserID,
		Answers:   answers,
		Results:   results,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, nil, err
	}

	var warnings []fault.Warning
	if err := s.patients.SetHasAnalysis(ctx, ident, patientID, true); err != nil {
		warnings = append(warnings, fault.Warn("set_has_analysis", err))
	}
	if err := s.events.LogAnalysisGenerated(ctx, ident.UserID, patientID, a.ID, results.Categories); err != nil {
		warnings = append(warnings, fault.Warn("journey_event", err))
	}
	for _, w := range warnings {
		s.log.Warn().
			Str("analysis_id", a.ID.String()).
			Str("step", w.Step).
			Str("detail", w.Detail).
			Msg("analysis saved with degraded bookkeeping")
	}
	return a, warnings, nil
}

func (s *Service) GetByID(ctx context.Context, ident auth.Identity, id uuid.UUID) (*Analysis, error) {
	return s.repo.GetByID(ctx, ident.UserID, id)
}

func (s *Service) ListByPatient(ctx context.Context, ident auth.Identity, patientID uuid.UUID) ([]*Analysis, error) {
	return s.repo.ListByPatient(ctx, ident.UserID, patientID)
}

// Current resolves the patient's newest chart-valid analysis. When the
// newest row exists but cannot be charted, the result says so instead of
// silently falling back.
func (s *Service) Current(ctx context.Context, ident auth.Identity, patientID uuid.UUID) (*Current, error) {
	analyses, err := s.repo.ListByPatient(ctx, ident.UserID, patientID)
	if err != nil {
		return nil, err
	}
	cur := &Current{}
	for i, a := range analyses {
		if a.ChartValid() {
			cur.Analysis = a
			break
		}
		if i == 0 {
			cur.InvalidNewest = true
		}
	}
	return cur, nil
}

// DeleteByPatient removes a patient's analyses, returning the row count.
// It backs the patient package's cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	return s.repo.DeleteByPatient(ctx, userID, patientID)
}
