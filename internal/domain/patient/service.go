package patient

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// Input carries the editable patient fields from a create or update request.
type Input struct {
	FullName              string     `json:"full_name" validate:"required,min=2,max=200"`
	Email                 *string    `json:"email" validate:"omitempty,email"`
	Phone                 *string    `json:"phone" validate:"omitempty,max=40"`
	BirthDate             *time.Time `json:"birth_date"`
	Gender                *string    `json:"gender" validate:"omitempty,max=40"`
	Profession            *string    `json:"profession" validate:"omitempty,max=120"`
	MaritalStatus         *string    `json:"marital_status" validate:"omitempty,max=60"`
	Address               *string    `json:"address" validate:"omitempty,max=300"`
	City                  *string    `json:"city" validate:"omitempty,max=120"`
	State                 *string    `json:"state" validate:"omitempty,max=60"`
	EmergencyContactName  *string    `json:"emergency_contact_name" validate:"omitempty,max=200"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone" validate:"omitempty,max=40"`
	MainComplaint         *string    `json:"main_complaint"`
	HealthHistory         *string    `json:"health_history"`
	Medications           *string    `json:"medications"`
	TherapistID           *uuid.UUID `json:"therapist_id"`
}

type Service struct {
	repo     Repository
	validate *validator.Validate

	// cascade delete collaborators, dependent-first order
	journeyEvents DependentDeleter
	evaluations   DependentDeleter
	analyses      DependentDeleter
}

func NewService(repo Repository, journeyEvents, evaluations, analyses DependentDeleter) *Service {
	return &Service{
		repo:          repo,
		validate:      validator.New(),
		journeyEvents: journeyEvents,
		evaluations:   evaluations,
		analyses:      analyses,
	}
}

func (s *Service) apply(p *Patient, in *Input) {
	p.FullName = in.FullName
	p.Email = in.Email
	p.Phone = in.Phone
	p.BirthDate = in.BirthDate
	p.Gender = in.Gender
	p.Profession = in.Profession
	p.MaritalStatus = in.MaritalStatus
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.EmergencyContactName = in.EmergencyContactName
	p.EmergencyContactPhone = in.EmergencyContactPhone
	p.MainComplaint = in.MainComplaint
	p.HealthHistory = in.HealthHistory
	p.Medications = in.Medications
	p.TherapistID = in.TherapistID
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, in *Input) (*Patient, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fault.Validation(err.Error())
	}
	p := &Patient{UserID: ident.UserID, CurrentPhaseNumber: 1}
	s.apply(p, in)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, ident.UserID, id)
}

func (s *Service) List(ctx context.Context, ident auth.Identity, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, ident.UserID, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id uuid.UUID, in *Input) (*Patient, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fault.Validation(err.Error())
	}
	p, err := s.repo.GetByID(ctx, ident.UserID, id)
	if err != nil {
		return nil, err
	}
	s.apply(p, in)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) SetHasAnalysis(ctx context.Context, ident auth.Identity, id uuid.UUID, has bool) error {
	return s.repo.SetHasAnalysis(ctx, ident.UserID, id, has)
}

func (s *Service) Stats(ctx context.Context, ident auth.Identity) (*Stats, error) {
	return s.repo.Stats(ctx, ident.UserID)
}

// Delete removes a patient and all dependent records, dependent-first:
// journey events, then technique evaluations, then analyses, then the
// patient row. The cascade stops at the first failing step; the result
// names it and carries per-step row counts for everything that completed.
// The patient row is never touched while dependents remain.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) (*DeleteResult, error) {
	result := &DeleteResult{Removed: make(map[DeleteStep]int)}

	steps := []struct {
		step    DeleteStep
		deleter DependentDeleter
	}{
		{StepJourneyEvents, s.journeyEvents},
		{StepEvaluations, s.evaluations},
		{StepAnalyses, s.analyses},
	}

	for _, st := range steps {
		n, err := st.deleter.DeleteByPatient(ctx, ident.UserID, id)
		if err != nil {
			result.FailedStep = st.step
			return result, err
		}
		result.Removed[st.step] = n
	}

	if err := s.repo.Delete(ctx, ident.UserID, id); err != nil {
		result.FailedStep = StepPatientRow
		return result, err
	}
	result.Removed[StepPatientRow] = 1
	return result, nil
}
