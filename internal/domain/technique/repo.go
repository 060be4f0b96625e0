package technique

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Technique) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Technique, error)
	GetByIDKey(ctx context.Context, userID uuid.UUID, idKey string) (*Technique, error)
	List(ctx context.Context, userID uuid.UUID) ([]*Technique, error)
	Update(ctx context.Context, t *Technique) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	CreateEvaluation(ctx context.Context, e *Evaluation) error
	ListEvaluationsByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Evaluation, error)
	ListEvaluationsByPatientAndTechnique(ctx context.Context, userID, patientID, techniqueID uuid.UUID) ([]*Evaluation, error)
	DeleteEvaluationsByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error)
}
