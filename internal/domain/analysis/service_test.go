package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type mockRepo struct {
	analyses  map[uuid.UUID]*Analysis
	order     []uuid.UUID
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{analyses: make(map[uuid.UUID]*Analysis)}
}

func (m *mockRepo) Create(_ context.Context, a *Analysis) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = uuid.New()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.analyses[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*Analysis, error) {
	a, ok := m.analyses[id]
	if !ok || a.UserID != userID {
		return nil, fault.NotFound("análise")
	}
	return a, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, userID, patientID uuid.UUID) ([]*Analysis, error) {
	// Newest first, like the SQL ordering.
	var result []*Analysis
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.analyses[m.order[i]]
		if a.UserID == userID && a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) DeleteByPatient(_ context.Context, userID, patientID uuid.UUID) (int, error) {
	n := 0
	for id, a := range m.analyses {
		if a.UserID == userID && a.PatientID == patientID {
			delete(m.analyses, id)
			n++
		}
	}
	return n, nil
}

type mockFlagger struct {
	flagged map[uuid.UUID]bool
	err     error
	calls   int
}

func (m *mockFlagger) SetHasAnalysis(_ context.Context, _ auth.Identity, id uuid.UUID, has bool) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	if m.flagged == nil {
		m.flagged = make(map[uuid.UUID]bool)
	}
	m.flagged[id] = has
	return nil
}

type mockEvents struct {
	logged []uuid.UUID
	err    error
}

func (m *mockEvents) LogAnalysisGenerated(_ context.Context, _, _, analysisID uuid.UUID, _ map[string]float64) error {
	if m.err != nil {
		return m.err
	}
	m.logged = append(m.logged, analysisID)
	return nil
}

func newTestService(repo *mockRepo, flagger *mockFlagger, events *mockEvents) *Service {
	return NewService(repo, flagger, events, zerolog.Nop())
}

func validResults() Results {
	return Results{Categories: map[string]float64{"mental": 80, "fisico": 60}}
}

func TestSave_FullSuccess(t *testing.T) {
	repo := newMockRepo()
	flagger := &mockFlagger{}
	events := &mockEvents{}
	svc := newTestService(repo, flagger, events)
	ident := auth.Identity{UserID: uuid.New()}
	patientID := uuid.New()

	a, warnings, err := svc.Save(context.Background(), ident, patientID, map[string]int{"mental_1": 4}, validResults())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if a.UserID != ident.UserID {
		t.Errorf("analysis not stamped with owner")
	}
	if !flagger.flagged[patientID] {
		t.Error("patient has_analysis flag not set")
	}
	if len(events.logged) != 1 || events.logged[0] != a.ID {
		t.Errorf("journey event not logged for %s: %v", a.ID, events.logged)
	}
}

func TestSave_RejectsEmptyCategories(t *testing.T) {
	repo := newMockRepo()
	flagger := &mockFlagger{}
	svc := newTestService(repo, flagger, &mockEvents{})
	ident := auth.Identity{UserID: uuid.New()}

	for _, results := range []Results{{}, {Categories: map[string]float64{}}} {
		_, _, err := svc.Save(context.Background(), ident, uuid.New(), nil, results)
		if !fault.IsKind(err, fault.KindValidation) {
			t.Errorf("expected validation fault, got %v", err)
		}
	}
	if len(repo.analyses) != 0 {
		t.Error("nothing may be persisted for invalid results")
	}
	if flagger.calls != 0 {
		t.Error("no auxiliary effect may run for invalid results")
	}
}

func TestSave_InsertFailureStopsAuxiliaries(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("insert failed")
	flagger := &mockFlagger{}
	events := &mockEvents{}
	svc := newTestService(repo, flagger, events)
	ident := auth.Identity{UserID: uuid.New()}

	_, _, err := svc.Save(context.Background(), ident, uuid.New(), nil, validResults())
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if flagger.calls != 0 || len(events.logged) != 0 {
		t.Error("auxiliary effects must not run when the insert fails")
	}
}

func TestSave_AuxiliaryFailuresAreWarnings(t *testing.T) {
	repo := newMockRepo()
	flagger := &mockFlagger{err: errors.New("flag failed")}
	events := &mockEvents{err: errors.New("event failed")}
	svc := newTestService(repo, flagger, events)
	ident := auth.Identity{UserID: uuid.New()}

	a, warnings, err := svc.Save(context.Background(), ident, uuid.New(), nil, validResults())
	if err != nil {
		t.Fatalf("Save() must succeed despite auxiliary failures: %v", err)
	}
	if a == nil || repo.analyses[a.ID] == nil {
		t.Fatal("analysis row must be persisted")
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want two", warnings)
	}
	if warnings[0].Step != "set_has_analysis" || warnings[1].Step != "journey_event" {
		t.Errorf("unexpected warning steps: %v", warnings)
	}
}

func TestCurrent_NewestChartValid(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockFlagger{}, &mockEvents{})
	ident := auth.Identity{UserID: uuid.New()}
	patientID := uuid.New()

	older := &Analysis{PatientID: patientID, UserID: ident.UserID, Results: validResults()}
	newer := &Analysis{PatientID: patientID, UserID: ident.UserID, Results: validResults()}
	for _, a := range []*Analysis{older, newer} {
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}

	cur, err := svc.Current(context.Background(), ident, patientID)
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if cur.Analysis == nil || cur.Analysis.ID != newer.ID {
		t.Errorf("expected the newest analysis, got %+v", cur.Analysis)
	}
	if cur.InvalidNewest {
		t.Error("InvalidNewest must be false when the newest row charts")
	}
}

func TestCurrent_InvalidNewestSurfacedDistinctly(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockFlagger{}, &mockEvents{})
	ident := auth.Identity{UserID: uuid.New()}
	patientID := uuid.New()

	valid := &Analysis{PatientID: patientID, UserID: ident.UserID, Results: validResults()}
	broken := &Analysis{PatientID: patientID, UserID: ident.UserID}
	for _, a := range []*Analysis{valid, broken} {
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}

	cur, err := svc.Current(context.Background(), ident, patientID)
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if cur.Analysis == nil || cur.Analysis.ID != valid.ID {
		t.Errorf("expected fallback to the chart-valid analysis, got %+v", cur.Analysis)
	}
	if !cur.InvalidNewest {
		t.Error("a broken newest analysis must be surfaced")
	}
}

func TestCurrent_NoAnalyses(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockFlagger{}, &mockEvents{})
	ident := auth.Identity{UserID: uuid.New()}

	cur, err := svc.Current(context.Background(), ident, uuid.New())
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if cur.Analysis != nil || cur.InvalidNewest {
		t.Errorf("expected the empty state, got %+v", cur)
	}
}

func TestCurrent_CrossOwnerInvisible(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockFlagger{}, &mockEvents{})
	owner := auth.Identity{UserID: uuid.New()}
	other := auth.Identity{UserID: uuid.New()}
	patientID := uuid.New()

	a := &Analysis{PatientID: patientID, UserID: owner.UserID, Results: validResults()}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	cur, err := svc.Current(context.Background(), other, patientID)
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if cur.Analysis != nil {
		t.Error("another owner's analyses must be invisible")
	}
}
