package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Every row is owned by the therapist
// user that created it; the phase fields track progress through the
// therapeutic program and current_phase_id points at the journey event that
// opened the current phase.
type Patient struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	UserID                uuid.UUID  `db:"user_id" json:"user_id"`
	FullName              string     `db:"full_name" json:"full_name"`
	Email                 *string    `db:"email" json:"email,omitempty"`
	Phone                 *string    `db:"phone" json:"phone,omitempty"`
	BirthDate             *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender                *string    `db:"gender" json:"gender,omitempty"`
	Profession            *string    `db:"profession" json:"profession,omitempty"`
	MaritalStatus         *string    `db:"marital_status" json:"marital_status,omitempty"`
	Address               *string    `db:"address" json:"address,omitempty"`
	City                  *string    `db:"city" json:"city,omitempty"`
	State                 *string    `db:"state" json:"state,omitempty"`
	EmergencyContactName  *string    `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	MainComplaint         *string    `db:"main_complaint" json:"main_complaint,omitempty"`
	HealthHistory         *string    `db:"health_history" json:"health_history,omitempty"`
	Medications           *string    `db:"medications" json:"medications,omitempty"`
	TherapistID           *uuid.UUID `db:"therapist_id" json:"therapist_id,omitempty"`
	TherapistName         *string    `db:"-" json:"therapist_name,omitempty"`
	HasAnalysis           bool       `db:"has_analysis" json:"has_analysis"`
	CurrentPhaseNumber    int        `db:"current_phase_number" json:"current_phase_number"`
	PhaseStartDate        *time.Time `db:"phase_start_date" json:"phase_start_date,omitempty"`
	CurrentPhaseID        *uuid.UUID `db:"current_phase_id_pk" json:"current_phase_id_pk,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// Stats summarizes a therapist's patient base for the dashboard.
type Stats struct {
	Total          int `json:"total"`
	AddedLastWeek  int `json:"added_last_week"`
	WithAnalysis   int `json:"with_analysis"`
}

// SearchFilter narrows the patient list. Empty fields are ignored.
type SearchFilter struct {
	Query       string     // substring match on name or email
	TherapistID *uuid.UUID
}

// DeleteStep identifies one stage of the cascade delete in the order it runs.
type DeleteStep string

const (
	StepJourneyEvents DeleteStep = "journey_events"
	StepEvaluations   DeleteStep = "technique_evaluations"
	StepAnalyses      DeleteStep = "quantum_analyses"
	StepPatientRow    DeleteStep = "patient"
)

// DeleteResult reports how far the cascade got and how many rows each
// completed step removed. FailedStep is empty on full success.
type DeleteResult struct {
	Removed    map[DeleteStep]int `json:"removed"`
	FailedStep DeleteStep         `json:"failed_step,omitempty"`
}
