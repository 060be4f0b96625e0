package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Results holds the computed outcome of a questionnaire: one 0..100 score
// per dimension, plus recommendations for the dimensions that scored low.
type Results struct {
	Categories      map[string]float64 `json:"categories"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// Analysis is one completed quantum analysis questionnaire. Rows are
// immutable after insert; the newest one per patient is the "current"
// analysis.
type Analysis struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	PatientID uuid.UUID      `db:"patient_id" json:"patient_id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Answers   map[string]int `db:"answers" json:"answers"`
	Results   Results        `db:"results" json:"results"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ChartValid reports whether the analysis carries at least one category
// score. Analyses without one exist but cannot be charted.
func (a *Analysis) ChartValid() bool {
	return len(a.Results.Categories) > 0
}

// Current is the newest chart-valid analysis of a patient. InvalidNewest is
// set when an even newer analysis exists but lacks category scores, so
// callers can tell "no analysis yet" apart from "newest analysis is broken".
type Current struct {
	Analysis      *Analysis `json:"analysis,omitempty"`
	InvalidNewest bool      `json:"invalid_newest"`
}
