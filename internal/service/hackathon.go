package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository"
)

var (
	ErrHackathonNotFound = repository.ErrHackathonNotFound
	ErrNotAdmin          = domain.ErrNotAdmin
)

type HackathonRepository interface {
	Create(ctx context.Context, h domain.Hackathon) (domain.Hackathon, error)
	FindAll(ctx context.Context) ([]domain.Hackathon, error)
	FindByID(ctx context.Context, id string) (domain.Hackathon, error)
}

type HackathonService struct {
	repo HackathonRepository
	now  func() time.Time
}

func NewHackathonService(repo HackathonRepository) *HackathonService {
	return &HackathonService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *HackathonService) CreateHackathon(ctx context.Context, session domain.Session, h domain.Hackathon) (domain.Hackathon, error) {
	if !session.IsAdmin() {
		return domain.Hackathon{}, ErrNotAdmin
	}

	h.ID = uuid.NewString()
	h.CreatedBy = session.UserID
	h.CreatedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, h)
	if err != nil {
		return domain.Hackathon{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *HackathonService) ListHackathons(ctx context.Context) ([]domain.Hackathon, error) {
	hackathons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return hackathons, nil
}

func (s *HackathonService) GetHackathon(ctx context.Context, id string) (domain.Hackathon, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Hackathon{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return h, nil
}
