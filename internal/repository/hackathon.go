package repository

import (
	"context"
	"fmt"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository/dao"
)

var ErrHackathonNotFound = dao.ErrHackathonNotFound

type HackathonDAO interface {
	Insert(ctx context.Context, hackathon dao.Hackathon) (dao.Hackathon, error)
	FindAll(ctx context.Context) ([]dao.Hackathon, error)
	FindByID(ctx context.Context, id string) (dao.Hackathon, error)
}

type HackathonRepository struct {
	dao HackathonDAO
}

func NewHackathonRepository(dao HackathonDAO) *HackathonRepository {
	return &HackathonRepository{
		dao: dao,
	}
}

func (r *HackathonRepository) Create(ctx context.Context, h domain.Hackathon) (domain.Hackathon, error) {
	created, err := r.dao.Insert(ctx, dao.Hackathon{
		ID:          h.ID,
		Title:       h.Title,
		Description: h.Description,
		Date:        h.Date,
		Location:    h.Location,
		Type:        h.Type,
		ImageURL:    h.ImageURL,
		Deadline:    h.Deadline,
		CreatedBy:   h.CreatedBy,
		CreatedAt:   h.CreatedAt,
	})
	if err != nil {
		return domain.Hackathon{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *HackathonRepository) FindAll(ctx context.Context) ([]domain.Hackathon, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	hackathons := make([]domain.Hackathon, 0, len(found))
	for _, h := range found {
		hackathons = append(hackathons, r.daoToDomain(h))
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindByID(ctx context.Context, id string) (domain.Hackathon, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Hackathon{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *HackathonRepository) daoToDomain(h dao.Hackathon) domain.Hackathon {
	return domain.Hackathon{
		ID:          h.ID,
		Title:       h.Title,
		Description: h.Description,
		Date:        h.Date,
		Location:    h.Location,
		Type:        h.Type,
		ImageURL:    h.ImageURL,
		Deadline:    h.Deadline,
		CreatedBy:   h.CreatedBy,
		CreatedAt:   h.CreatedAt,
	}
}
