package therapist

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Therapist) error
	List(ctx context.Context, userID uuid.UUID) ([]*Therapist, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
