package therapist

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, name string) (*Therapist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fault.Validation("nome do terapeuta é obrigatório")
	}
	t := &Therapist{UserID: ident.UserID, Name: name}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]*Therapist, error) {
	return s.repo.List(ctx, ident.UserID)
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	return s.repo.Delete(ctx, ident.UserID, id)
}
