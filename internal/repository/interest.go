package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository/dao"
)

type InterestDAO interface {
	MarkInterested(ctx context.Context, hackathonID, userID, name string) error
	FindInterested(ctx context.Context, hackathonID string) ([]dao.Interest, error)
	Find(ctx context.Context, hackathonID, userID string) (dao.Interest, error)
	ClearInterested(ctx context.Context, hackathonID, userID string) error
}

type InterestRepository struct {
	dao InterestDAO
	uow UnitOfWork
}

func NewInterestRepository(dao InterestDAO, uow UnitOfWork) *InterestRepository {
	return &InterestRepository{
		dao: dao,
		uow: uow,
	}
}

func (r *InterestRepository) MarkInterested(ctx context.Context, hackathonID, userID, name string) error {
	if err := r.dao.MarkInterested(ctx, hackathonID, userID, name); err != nil {
		return fmt.Errorf("r.dao.MarkInterested -> %w", err)
	}

	return nil
}

func (r *InterestRepository) FindInterested(ctx context.Context, hackathonID string) ([]domain.Interest, error) {
	found, err := r.dao.FindInterested(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindInterested -> %w", err)
	}

	interests := make([]domain.Interest, 0, len(found))
	for _, i := range found {
		interests = append(interests, interestDaoToDomain(i))
	}

	return interests, nil
}

// Find returns an empty, not interested record when the user never
// expressed interest nor received an invite.
func (r *InterestRepository) Find(ctx context.Context, hackathonID, userID string) (domain.Interest, error) {
	found, err := r.dao.Find(ctx, hackathonID, userID)
	if errors.Is(err, dao.ErrInterestNotFound) {
		return domain.Interest{HackathonID: hackathonID, UserID: userID, Invites: []domain.TeamInvite{}}, nil
	}
	if err != nil {
		return domain.Interest{}, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return interestDaoToDomain(found), nil
}

func (r *InterestRepository) ClearInterested(ctx context.Context, hackathonID, userID string) error {
	if err := r.dao.ClearInterested(ctx, hackathonID, userID); err != nil {
		return fmt.Errorf("r.dao.ClearInterested -> %w", err)
	}

	return nil
}

// Update applies fn to the locked record of (hackathonID, userID) and saves
// the result. A missing record is created empty first.
func (r *InterestRepository) Update(ctx context.Context, hackathonID, userID string, fn func(*domain.Interest) error) (domain.Interest, error) {
	var interest domain.Interest
	err := r.uow.Do(ctx, func(tx dao.TxDAOs) error {
		if err := tx.Interests.Ensure(ctx, hackathonID, userID); err != nil {
			return fmt.Errorf("tx.Interests.Ensure -> %w", err)
		}

		row, err := tx.Interests.Lock(ctx, hackathonID, userID)
		if err != nil {
			return fmt.Errorf("tx.Interests.Lock -> %w", err)
		}
		interest = interestDaoToDomain(row)

		if err = fn(&interest); err != nil {
			return err
		}

		if err = tx.Interests.Save(ctx, interestDomainToDao(interest)); err != nil {
			return fmt.Errorf("tx.Interests.Save -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}

	return interest, nil
}
