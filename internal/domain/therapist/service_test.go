package therapist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type mockRepo struct {
	therapists map[uuid.UUID]*Therapist
}

func newMockRepo() *mockRepo {
	return &mockRepo{therapists: make(map[uuid.UUID]*Therapist)}
}

func (m *mockRepo) Create(_ context.Context, t *Therapist) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	m.therapists[t.ID] = t
	return nil
}

func (m *mockRepo) List(_ context.Context, userID uuid.UUID) ([]*Therapist, error) {
	var result []*Therapist
	for _, t := range m.therapists {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	t, ok := m.therapists[id]
	if !ok || t.UserID != userID {
		return fault.NotFound("terapeuta")
	}
	delete(m.therapists, id)
	return nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	ident := auth.Identity{UserID: uuid.New()}

	_, err := svc.Create(context.Background(), ident, "   ")
	if !fault.IsKind(err, fault.KindValidation) {
		t.Fatalf("expected validation fault, got %v", err)
	}
}

func TestCreate_StampsOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ident := auth.Identity{UserID: uuid.New()}

	created, err := svc.Create(context.Background(), ident, "Dra. Helena")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.UserID != ident.UserID {
		t.Errorf("expected owner %s, got %s", ident.UserID, created.UserID)
	}
	if created.Name != "Dra. Helena" {
		t.Errorf("unexpected name %q", created.Name)
	}
}

func TestList_ScopedToOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := auth.Identity{UserID: uuid.New()}
	other := auth.Identity{UserID: uuid.New()}

	if _, err := svc.Create(context.Background(), owner, "Dra. Helena"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Create(context.Background(), other, "Dr. Marcos"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	list, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 therapist for owner, got %d", len(list))
	}
	if list[0].Name != "Dra. Helena" {
		t.Errorf("unexpected therapist %q", list[0].Name)
	}
}

func TestDelete_CrossOwnerIsNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := auth.Identity{UserID: uuid.New()}
	other := auth.Identity{UserID: uuid.New()}

	created, err := svc.Create(context.Background(), owner, "Dra. Helena")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err = svc.Delete(context.Background(), other, created.ID)
	if !fault.IsKind(err, fault.KindNotFound) {
		t.Fatalf("expected not-found fault for cross-owner delete, got %v", err)
	}
	if _, ok := repo.therapists[created.ID]; !ok {
		t.Error("therapist should survive cross-owner delete attempt")
	}
}
