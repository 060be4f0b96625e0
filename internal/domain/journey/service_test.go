package journey

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

// -- Mock event repository --

type mockRepo struct {
	events       map[uuid.UUID]*Event
	order        []uuid.UUID
	createErr    error
	stampErr     error
	deleteCalls  int
	stampedID    *uuid.UUID
	stampedAt    time.Time
}

func newMockRepo() *mockRepo {
	return &mockRepo{events: make(map[uuid.UUID]*Event)}
}

func (m *mockRepo) Create(_ context.Context, e *Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = uuid.New()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.events[e.ID] = e
	m.order = append(m.order, e.ID)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, userID, patientID uuid.UUID) ([]*Event, error) {
	var result []*Event
	for _, id := range m.order {
		e := m.events[id]
		if e.UserID == userID && e.PatientID == patientID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockRepo) StampPhaseEnd(_ context.Context, userID, eventID uuid.UUID, endedAt time.Time) error {
	if m.stampErr != nil {
		return m.stampErr
	}
	e, ok := m.events[eventID]
	if !ok || e.UserID != userID {
		return fault.NotFound("evento")
	}
	e.PhaseEndDate = &endedAt
	m.stampedID = &eventID
	m.stampedAt = endedAt
	return nil
}

func (m *mockRepo) DeleteByPatient(_ context.Context, userID, patientID uuid.UUID) (int, error) {
	m.deleteCalls++
	n := 0
	for id, e := range m.events {
		if e.UserID == userID && e.PatientID == patientID {
			delete(m.events, id)
			n++
		}
	}
	return n, nil
}

// -- Mock phase store --

type mockPhaseStore struct {
	phaseNumber int
	startedAt   time.Time
	linkedEvent *uuid.UUID
	updateErr   error
	linkErr     error
	updateCalls int
	linkCalls   int
}

func (m *mockPhaseStore) UpdatePhase(_ context.Context, _, _ uuid.UUID, phaseNumber int, startedAt time.Time) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.phaseNumber = phaseNumber
	m.startedAt = startedAt
	return nil
}

func (m *mockPhaseStore) LinkPhaseEvent(_ context.Context, _, _, eventID uuid.UUID) error {
	m.linkCalls++
	if m.linkErr != nil {
		return m.linkErr
	}
	m.linkedEvent = &eventID
	return nil
}

func newTestService(repo *mockRepo, store *mockPhaseStore) *Service {
	return NewService(repo, store, zerolog.Nop())
}

func TestAdvancePhase_FullSuccess(t *testing.T) {
	repo := newMockRepo()
	store := &mockPhaseStore{}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}
	patientID := uuid.New()

	// Existing phase-start event for phase 2.
	prev := &Event{PatientID: patientID, UserID: ident.UserID, EventType: EventPhaseStart}
	if err := repo.Create(context.Background(), prev); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	result, warnings, err := svc.AdvancePhase(context.Background(), ident, patientID, &prev.ID, 3)
	if err != nil {
		t.Fatalf("AdvancePhase() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	// Patient row carries the new phase and the shared timestamp.
	if store.phaseNumber != 3 {
		t.Errorf("expected phase 3, got %d", store.phaseNumber)
	}
	if !store.startedAt.Equal(result.StartedAt) {
		t.Errorf("patient start date %v != result %v", store.startedAt, result.StartedAt)
	}

	// Previous event stamped with the same timestamp.
	if prev.PhaseEndDate == nil || !prev.PhaseEndDate.Equal(result.StartedAt) {
		t.Errorf("previous event phase_end_date = %v, want %v", prev.PhaseEndDate, result.StartedAt)
	}

	// New phase-start event exists with the right payload.
	if result.EventID == nil {
		t.Fatal("expected a new phase-start event id")
	}
	created := repo.events[*result.EventID]
	if created == nil {
		t.Fatal("phase-start event not stored")
	}
	if created.EventType != EventPhaseStart {
		t.Errorf("unexpected event type %q", created.EventType)
	}
	if desc := created.EventData["description"]; desc != "Início da Fase 3" {
		t.Errorf("unexpected description %v", desc)
	}
	if !created.Timestamp.Equal(result.StartedAt) {
		t.Errorf("event timestamp %v != shared instant %v", created.Timestamp, result.StartedAt)
	}

	// Patient row links the new event.
	if store.linkedEvent == nil || *store.linkedEvent != *result.EventID {
		t.Errorf("patient not linked to new event: %v", store.linkedEvent)
	}
}

func TestAdvancePhase_AuthoritativeFailureStopsEverything(t *testing.T) {
	repo := newMockRepo()
	store := &mockPhaseStore{updateErr: fault.NotFound("paciente")}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}

	_, warnings, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), nil, 2)
	if !fault.IsKind(err, fault.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("no warnings expected before the authoritative step, got %v", warnings)
	}
	if len(repo.events) != 0 {
		t.Error("no event may be inserted when the patient update fails")
	}
	if store.linkCalls != 0 {
		t.Error("link step must not run after authoritative failure")
	}
}

func TestAdvancePhase_StampFailureIsWarning(t *testing.T) {
	repo := newMockRepo()
	repo.stampErr = errors.New("stamp failed")
	store := &mockPhaseStore{}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}
	prevID := uuid.New()

	result, warnings, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), &prevID, 2)
	if err != nil {
		t.Fatalf("operation must succeed despite stamp failure, got %v", err)
	}

	// Authoritative fields still updated.
	if store.phaseNumber != 2 {
		t.Errorf("expected phase 2, got %d", store.phaseNumber)
	}
	if len(warnings) != 1 || warnings[0].Step != "stamp_previous_phase_end" {
		t.Errorf("expected one stamp warning, got %v", warnings)
	}
	if result.EventID == nil {
		t.Error("later steps must still run after an auxiliary failure")
	}
}

func TestAdvancePhase_EventInsertFailureIsWarning(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("insert failed")
	store := &mockPhaseStore{}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}

	result, warnings, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), nil, 4)
	if err != nil {
		t.Fatalf("operation must succeed despite event insert failure, got %v", err)
	}

	if store.phaseNumber != 4 {
		t.Errorf("authoritative phase update lost: %d", store.phaseNumber)
	}
	if len(warnings) != 1 || warnings[0].Step != "insert_phase_start_event" {
		t.Errorf("expected one insert warning, got %v", warnings)
	}
	if result.EventID != nil {
		t.Error("no event id should be reported when the insert failed")
	}
	if store.linkedEvent != nil {
		t.Error("nothing must be linked when the insert failed")
	}
}

func TestAdvancePhase_LinkFailureIsWarning(t *testing.T) {
	repo := newMockRepo()
	store := &mockPhaseStore{linkErr: errors.New("link failed")}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}

	result, warnings, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), nil, 2)
	if err != nil {
		t.Fatalf("operation must succeed despite link failure, got %v", err)
	}
	if store.phaseNumber != 2 || result.EventID == nil {
		t.Error("authoritative state and event insert must survive link failure")
	}
	if len(warnings) != 1 || warnings[0].Step != "link_phase_event_to_patient" {
		t.Errorf("expected one link warning, got %v", warnings)
	}
}

func TestAdvancePhase_RejectsInvalidPhase(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockPhaseStore{})
	ident := auth.Identity{UserID: uuid.New()}

	for _, n := range []int{0, -1} {
		store := &mockPhaseStore{}
		svc = newTestService(newMockRepo(), store)
		_, _, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), nil, n)
		if !fault.IsKind(err, fault.KindValidation) {
			t.Errorf("phase %d: expected validation fault, got %v", n, err)
		}
		if store.updateCalls != 0 {
			t.Errorf("phase %d: no store call may happen on invalid input", n)
		}
	}
}

func TestAdvancePhase_NilPreviousEventSkipsStamp(t *testing.T) {
	repo := newMockRepo()
	store := &mockPhaseStore{}
	svc := newTestService(repo, store)
	ident := auth.Identity{UserID: uuid.New()}

	_, warnings, err := svc.AdvancePhase(context.Background(), ident, uuid.New(), nil, 2)
	if err != nil {
		t.Fatalf("AdvancePhase() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("no warnings expected when there is no previous event: %v", warnings)
	}
	if repo.stampedID != nil {
		t.Error("stamp must not run without a previous event id")
	}
}

func TestLogEvent_RequiresPatientAndType(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockPhaseStore{})
	ident := auth.Identity{UserID: uuid.New()}

	err := svc.LogEvent(context.Background(), ident, &Event{EventType: EventTherapistNote})
	if !fault.IsKind(err, fault.KindValidation) {
		t.Errorf("expected validation fault for missing patient, got %v", err)
	}

	err = svc.LogEvent(context.Background(), ident, &Event{PatientID: uuid.New()})
	if !fault.IsKind(err, fault.KindValidation) {
		t.Errorf("expected validation fault for missing type, got %v", err)
	}
}

func TestLogEvent_StampsOwner(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockPhaseStore{})
	ident := auth.Identity{UserID: uuid.New()}

	e := &Event{PatientID: uuid.New(), EventType: EventTherapistNote}
	if err := svc.LogEvent(context.Background(), ident, e); err != nil {
		t.Fatalf("LogEvent() error: %v", err)
	}
	if e.UserID != ident.UserID {
		t.Errorf("event not stamped with owner: %s", e.UserID)
	}
	if len(repo.events) != 1 {
		t.Errorf("expected one stored event, got %d", len(repo.events))
	}
}
