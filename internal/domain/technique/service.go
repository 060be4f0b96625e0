package technique

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// EventLogger records journey events for completed evaluations. The journey
// package provides the implementation; wiring happens in main.
type EventLogger interface {
	LogEvaluationCompleted(ctx context.Context, userID, patientID, techniqueID, evaluationID uuid.UUID, notes *string) error
}

// Input carries technique fields from a create or update request. The
// structured documents arrive as serialized JSON text from free-text
// editors; target conditions arrive comma-separated.
type Input struct {
	IDKey               string `json:"id_key"`
	Title               string `json:"title"`
	Category            string `json:"category"`
	Type                string `json:"type"`
	Description         string `json:"description"`
	CorePrinciples      string `json:"core_principles"`
	TechniquesPractices string `json:"techniques_practices"`
	TargetConditions    string `json:"target_conditions"`
	Contraindications   string `json:"contraindications"`
	EvaluationSchema    string `json:"evaluation_schema"`
	ReportTemplate      string `json:"report_template"`
}

type EvaluationInput struct {
	PatientID         uuid.UUID              `json:"patient_id"`
	KnowledgeBaseID   uuid.UUID              `json:"knowledge_base_id"`
	EvaluationData    map[string]interface{} `json:"evaluation_data"`
	EvaluationResults map[string]interface{} `json:"evaluation_results"`
	Notes             *string                `json:"notes"`
}

type Service struct {
	repo   Repository
	events EventLogger
}

func NewService(repo Repository, events EventLogger) *Service {
	return &Service{repo: repo, events: events}
}

// fromInput builds a Technique from the request, parsing every structured
// text field through the serialize/parse boundary.
func (s *Service) fromInput(ident auth.Identity, in *Input) (*Technique, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fault.Validation("título da técnica é obrigatório")
	}

	t := &Technique{
		UserID:   ident.UserID,
		Title:    title,
		Category: strings.TrimSpace(in.Category),
		Type:     strings.TrimSpace(in.Type),
	}
	if in.IDKey != "" {
		t.IDKey = MakeIDKey(in.IDKey)
	} else {
		t.IDKey = MakeIDKey(title)
	}
	if t.IDKey == "" {
		return nil, fault.Validation("não foi possível derivar um id_key do título")
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		t.Description = &d
	}
	if c := strings.TrimSpace(in.Contraindications); c != "" {
		t.Contraindications = &c
	}
	t.TargetConditions = ParseTargetConditions(in.TargetConditions)

	if err := ParseStructuredField("core_principles", in.CorePrinciples, &t.CorePrinciples); err != nil {
		return nil, err
	}
	if err := ParseStructuredField("techniques_practices", in.TechniquesPractices, &t.TechniquesPractices); err != nil {
		return nil, err
	}
	if err := ParseStructuredField("report_template", in.ReportTemplate, &t.ReportTemplate); err != nil {
		return nil, err
	}
	if err := ParseStructuredField("evaluation_schema", in.EvaluationSchema, &t.EvaluationSchema); err != nil {
		return nil, err
	}
	if t.EvaluationSchema != nil {
		if err := t.EvaluationSchema.Validate(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, in *Input) (*Technique, error) {
	t, err := s.fromInput(ident, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, id uuid.UUID) (*Technique, error) {
	return s.repo.GetByID(ctx, ident.UserID, id)
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]*Technique, error) {
	return s.repo.List(ctx, ident.UserID)
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id uuid.UUID, in *Input) (*Technique, error) {
	existing, err := s.repo.GetByID(ctx, ident.UserID, id)
	if err != nil {
		return nil, err
	}
	t, err := s.fromInput(ident, in)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.IDKey = existing.IDKey // slug is stable across edits
	t.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	return s.repo.Delete(ctx, ident.UserID, id)
}

// Seed installs the predefined starter set for the given user. Techniques
// whose id_key the user already has are skipped; individual failures do not
// stop the run. Counts mirror what the run did.
func (s *Service) Seed(ctx context.Context, ident auth.Identity) (*SeedReport, error) {
	report := &SeedReport{}
	for _, tmpl := range starterSet {
		_, err := s.repo.GetByIDKey(ctx, ident.UserID, tmpl.IDKey)
		if err == nil {
			report.Skipped++
			continue
		}
		if !fault.IsKind(err, fault.KindNotFound) {
			report.Failed++
			report.Errors = append(report.Errors, tmpl.Title+": "+err.Error())
			continue
		}

		t := *tmpl
		t.UserID = ident.UserID
		if err := s.repo.Create(ctx, &t); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, tmpl.Title+": "+err.Error())
			continue
		}
		report.Created++
	}
	return report, nil
}

// Evaluate validates the submitted form data against the technique's
// schema, stores the evaluation, then logs a journey event. The event write
// is auxiliary: its failure leaves the stored evaluation intact.
func (s *Service) Evaluate(ctx context.Context, ident auth.Identity, in *EvaluationInput) (*Evaluation, []fault.Warning, error) {
	if in.PatientID == uuid.Nil {
		return nil, nil, fault.Validation("patient_id é obrigatório")
	}
	t, err := s.repo.GetByID(ctx, ident.UserID, in.KnowledgeBaseID)
	if err != nil {
		return nil, nil, err
	}
	if t.EvaluationSchema != nil {
		if err := t.EvaluationSchema.ValidateData(in.EvaluationData); err != nil {
			return nil, nil, err
		}
	}

	e := &Evaluation{
		PatientID:         in.PatientID,
		KnowledgeBaseID:   in.KnowledgeBaseID,
		TherapistID:       ident.UserID,
		EvaluationData:    in.EvaluationData,
		EvaluationResults: in.EvaluationResults,
		Notes:             in.Notes,
	}
	if err := s.repo.CreateEvaluation(ctx, e); err != nil {
		return nil, nil, err
	}
	e.TechniqueTitle = t.Title

	var warnings []fault.Warning
	if s.events != nil {
		if err := s.events.LogEvaluationCompleted(ctx, ident.UserID, e.PatientID, t.ID, e.ID, e.Notes); err != nil {
			warnings = append(warnings, fault.Warn("journey_event", err))
		}
	}
	return e, warnings, nil
}

func (s *Service) ListEvaluations(ctx context.Context, ident auth.Identity, patientID uuid.UUID) ([]*Evaluation, error) {
	return s.repo.ListEvaluationsByPatient(ctx, ident.UserID, patientID)
}

func (s *Service) ListEvaluationsForTechnique(ctx context.Context, ident auth.Identity, patientID, techniqueID uuid.UUID) ([]*Evaluation, error) {
	return s.repo.ListEvaluationsByPatientAndTechnique(ctx, ident.UserID, patientID, techniqueID)
}

// DeleteByPatient removes a patient's evaluations, returning the row count.
// It backs the patient package's cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	return s.repo.DeleteEvaluationsByPatient(ctx, userID, patientID)
}

// EvaluationsByPatient and KnowledgeBase feed the journey timeline.
func (s *Service) EvaluationsByPatient(ctx context.Context, ident auth.Identity, patientID uuid.UUID) ([]*Evaluation, error) {
	return s.repo.ListEvaluationsByPatient(ctx, ident.UserID, patientID)
}

func (s *Service) KnowledgeBase(ctx context.Context, ident auth.Identity) ([]*Technique, error) {
	return s.repo.List(ctx, ident.UserID)
}
