package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, userID uuid.UUID, filter SearchFilter, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetHasAnalysis(ctx context.Context, userID, id uuid.UUID, has bool) error
	UpdatePhase(ctx context.Context, userID, id uuid.UUID, phaseNumber int, startedAt time.Time) error
	LinkPhaseEvent(ctx context.Context, userID, id, eventID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

// DependentDeleter removes one kind of dependent record ahead of the patient
// row itself, returning the number of rows removed. The journey, technique
// and analysis packages each provide one.
type DependentDeleter interface {
	DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error)
}
