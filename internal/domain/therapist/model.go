package therapist

import (
	"time"

	"github.com/google/uuid"
)

// Therapist maps to the therapists table. A simple reference entity used to
// annotate patients.
type Therapist struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
