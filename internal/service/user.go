package service

import (
	"context"
	"fmt"
	"time"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
	UpdateProfile(ctx context.Context, user domain.User) error
}

type UserService struct {
	repo UserRepository
	now  func() time.Time
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user.Apply(upd)
	user.UpdatedAt = s.now().UTC()

	if err = s.repo.UpdateProfile(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return user, nil
}

// GetParticipation returns nil when the user is not on a team for hackathonID.
func (s *UserService) GetParticipation(ctx context.Context, userID, hackathonID string) (*domain.Participation, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	p, ok := user.ParticipationFor(hackathonID)
	if !ok {
		return nil, nil
	}

	return &p, nil
}

func (s *UserService) AdminIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.FindIDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindIDsByRole -> %w", err)
	}

	return ids, nil
}
