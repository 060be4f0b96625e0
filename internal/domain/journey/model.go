package journey

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the kinds of journey events. The set is open-ended
// on read (unknown types render through the humanized fallback) but writes
// use these values.
type EventType string

const (
	EventAnalysisGenerated    EventType = "analysis-generated"
	EventEvaluationCompleted  EventType = "technique-evaluation-completed"
	EventPracticeAssigned     EventType = "practice-assigned"
	EventPracticeCompleted    EventType = "practice-completed"
	EventTherapistNote        EventType = "therapist-note"
	EventPhaseStart           EventType = "phase-start"
)

// Event maps to the journey_events table. Append-only except for the one
// mutation that stamps phase_end_date on a superseded phase-start event.
type Event struct {
	ID                  uuid.UUID              `db:"id" json:"id"`
	PatientID           uuid.UUID              `db:"patient_id" json:"patient_id"`
	UserID              uuid.UUID              `db:"user_id" json:"user_id"`
	EventType           EventType              `db:"event_type" json:"event_type"`
	EventData           map[string]interface{} `db:"event_data" json:"event_data,omitempty"`
	RelatedAnalysisID   *uuid.UUID             `db:"related_analysis_id" json:"related_analysis_id,omitempty"`
	RelatedKnowledgeID  *uuid.UUID             `db:"related_knowledge_id" json:"related_knowledge_id,omitempty"`
	RelatedEvaluationID *uuid.UUID             `db:"related_technique_evaluation_id" json:"related_technique_evaluation_id,omitempty"`
	Notes               *string                `db:"notes" json:"notes,omitempty"`
	Timestamp           time.Time              `db:"timestamp" json:"timestamp"`
	PhaseEndDate        *time.Time             `db:"phase_end_date" json:"phase_end_date,omitempty"`
}

// PhaseAdvance is the result of advancing a patient to a new phase. EventID
// is nil when the phase-start event could not be recorded; the phase number
// and start date are authoritative regardless.
type PhaseAdvance struct {
	EventID     *uuid.UUID `json:"event_id,omitempty"`
	PhaseNumber int        `json:"phase_number"`
	StartedAt   time.Time  `json:"started_at"`
}
