package analysis

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists quantum analyses. Rows are insert-only; the single
// delete path is the patient cascade.
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Analysis, error)
	ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Analysis, error)
	DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error)
}
