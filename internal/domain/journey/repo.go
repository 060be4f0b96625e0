package journey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Event, error)
	StampPhaseEnd(ctx context.Context, userID, eventID uuid.UUID, endedAt time.Time) error
	DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error)
}

// PhaseStore is the slice of the patient repository the phase manager
// needs: the authoritative phase update and the auxiliary event link.
type PhaseStore interface {
	UpdatePhase(ctx context.Context, userID, patientID uuid.UUID, phaseNumber int, startedAt time.Time) error
	LinkPhaseEvent(ctx context.Context, userID, patientID, eventID uuid.UUID) error
}
