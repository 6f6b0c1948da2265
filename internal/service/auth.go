package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository"
)

var (
	ErrUserEmailExists       = repository.ErrUserEmailExists
	ErrWrongPassword         = errors.New("wrong password")
	ErrEmailDomainNotAllowed = fmt.Errorf("email domain is not allowed to sign up: %w", domain.ErrInvalidInput)
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo          AuthUserRepository
	allowedDomain string
	adminEmails   []string
	now           func() time.Time
}

// NewAuthService restricts signups to allowedDomain unless it is empty.
func NewAuthService(repo AuthUserRepository, allowedDomain string, adminEmails []string) *AuthService {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		admins = append(admins, normalizeEmail(e))
	}

	return &AuthService{
		repo:          repo,
		allowedDomain: strings.ToLower(strings.TrimPrefix(allowedDomain, "@")),
		adminEmails:   admins,
		now:           time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = normalizeEmail(user.Email)
	if s.allowedDomain != "" && !strings.HasSuffix(user.Email, "@"+s.allowedDomain) {
		return domain.User{}, ErrEmailDomainNotAllowed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	user.ID = uuid.NewString()
	user.Password = string(hash)
	user.Role = domain.RoleMember
	if slices.Contains(s.adminEmails, user.Email) {
		user.Role = domain.RoleAdmin
	}
	user.Skills = domain.NormalizeSkills(user.Skills)
	user.HackathonParticipation = map[string]domain.Participation{}
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
