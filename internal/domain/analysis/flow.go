package analysis

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// Saver persists a completed questionnaire. The analysis service satisfies
// it.
type Saver interface {
	Save(ctx context.Context, ident auth.Identity, patientID uuid.UUID, answers map[string]int, results Results) (*Analysis, []fault.Warning, error)
}

// Flow drives one questionnaire session for one patient: answer
// collection, category navigation and completion-gated submission. It is
// not safe for concurrent mutation except for the double-submit guard on
// Submit.
type Flow struct {
	patientID  uuid.UUID
	answers    map[string]int
	cursor     int
	submitting atomic.Bool
}

func NewFlow(patientID uuid.UUID) *Flow {
	return &Flow{patientID: patientID, answers: make(map[string]int)}
}

// SelectAnswer records an answer, overwriting any prior value for the same
// question.
func (f *Flow) SelectAnswer(questionID string, value int) {
	f.answers[questionID] = value
}

func (f *Flow) CurrentCategory() Category { return Categories[f.cursor] }
func (f *Flow) IsFirst() bool             { return f.cursor == 0 }
func (f *Flow) IsLast() bool              { return f.cursor == len(Categories)-1 }

// NextCategory advances the tab cursor; no-op at the last category.
func (f *Flow) NextCategory() {
	if !f.IsLast() {
		f.cursor++
	}
}

// PreviousCategory moves the tab cursor back; no-op at the first category.
func (f *Flow) PreviousCategory() {
	if !f.IsFirst() {
		f.cursor--
	}
}

// IsComplete is true iff every catalog question has an answer. It is the
// sole gate for submission.
func (f *Flow) IsComplete() bool {
	for _, question := range Catalog {
		if _, ok := f.answers[question.ID]; !ok {
			return false
		}
	}
	return true
}

// Answers returns a copy of the collected answers.
func (f *Flow) Answers() map[string]int {
	out := make(map[string]int, len(f.answers))
	for k, v := range f.answers {
		out[k] = v
	}
	return out
}

// Submit scores the answers and persists the analysis. An incomplete
// questionnaire or a submission already in flight is rejected before any
// collaborator call.
func (f *Flow) Submit(ctx context.Context, ident auth.Identity, saver Saver) (*Analysis, []fault.Warning, error) {
	if !f.IsComplete() {
		return nil, nil, fault.Validation("questionário incompleto: responda todas as perguntas antes de enviar")
	}
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, nil, fault.Conflict("envio já em andamento")
	}
	defer f.submitting.Store(false)

	answers := f.Answers()
	return saver.Save(ctx, ident, f.patientID, answers, Score(answers))
}
