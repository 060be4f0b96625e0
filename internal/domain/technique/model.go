package technique

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Technique maps to the knowledge_base table. Each row is one reusable
// therapeutic method owned by a therapist user. The id_key slug is stable
// across edits and is what makes starter-set seeding idempotent.
//
// core_principles, techniques_practices and report_template hold structured
// documents authored through free-text editors; they are stored verbatim as
// JSON and round-trip losslessly.
type Technique struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	UserID             uuid.UUID       `db:"user_id" json:"user_id"`
	IDKey              string          `db:"id_key" json:"id_key"`
	Title              string          `db:"title" json:"title"`
	Category           string          `db:"category" json:"category"`
	Type               string          `db:"type" json:"type"`
	Description        *string         `db:"description" json:"description,omitempty"`
	CorePrinciples     json.RawMessage `db:"core_principles" json:"core_principles,omitempty"`
	TechniquesPractices json.RawMessage `db:"techniques_practices" json:"techniques_practices,omitempty"`
	TargetConditions   []string        `db:"target_conditions" json:"target_conditions,omitempty"`
	Contraindications  *string         `db:"contraindications" json:"contraindications,omitempty"`
	EvaluationSchema   Schema          `db:"evaluation_schema" json:"evaluation_schema,omitempty"`
	ReportTemplate     json.RawMessage `db:"report_template" json:"report_template,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Evaluation maps to the technique_evaluations table. One row is one
// completed application of a technique's dynamic form to a patient.
type Evaluation struct {
	ID                uuid.UUID              `db:"id" json:"id"`
	PatientID         uuid.UUID              `db:"patient_id" json:"patient_id"`
	KnowledgeBaseID   uuid.UUID              `db:"knowledge_base_id" json:"knowledge_base_id"`
	TherapistID       uuid.UUID              `db:"therapist_id" json:"therapist_id"`
	EvaluationData    map[string]interface{} `db:"evaluation_data" json:"evaluation_data"`
	EvaluationResults map[string]interface{} `db:"evaluation_results" json:"evaluation_results,omitempty"`
	Notes             *string                `db:"notes" json:"notes,omitempty"`
	EvaluationDate    time.Time              `db:"evaluation_date" json:"evaluation_date"`
	TechniqueTitle    string                 `db:"-" json:"technique_title,omitempty"`
}

// SeedReport summarizes one run of starter-set seeding.
type SeedReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
