package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository/dao"
)

var (
	ErrTeamNotFound  = dao.ErrTeamNotFound
	ErrTeamNameTaken = dao.ErrTeamNameTaken
	ErrTeamCodeTaken = dao.ErrTeamCodeTaken
)

type TeamDAO interface {
	FindByID(ctx context.Context, id string) (dao.Team, error)
	FindByCode(ctx context.Context, hackathonID, code string) (dao.Team, error)
	FindByHackathon(ctx context.Context, hackathonID string) ([]dao.Team, error)
	FindJoinable(ctx context.Context, hackathonID string) ([]dao.Team, error)
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx dao.TxDAOs) error) error
}

// TeamRepository keeps Team.Members and User.HackathonParticipation in step.
// Every write that touches both runs in one transaction that locks the team
// row first and the user rows after it, in id order.
type TeamRepository struct {
	dao TeamDAO
	uow UnitOfWork
}

func NewTeamRepository(dao TeamDAO, uow UnitOfWork) *TeamRepository {
	return &TeamRepository{
		dao: dao,
		uow: uow,
	}
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return teamDaoToDomain(found), nil
}

func (r *TeamRepository) FindByCode(ctx context.Context, hackathonID, code string) (domain.Team, error) {
	found, err := r.dao.FindByCode(ctx, hackathonID, code)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return teamDaoToDomain(found), nil
}

func (r *TeamRepository) FindByHackathon(ctx context.Context, hackathonID string) ([]domain.Team, error) {
	found, err := r.dao.FindByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByHackathon -> %w", err)
	}

	return teamsDaoToDomain(found), nil
}

func (r *TeamRepository) FindJoinable(ctx context.Context, hackathonID string) ([]domain.Team, error) {
	found, err := r.dao.FindJoinable(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindJoinable -> %w", err)
	}

	return teamsDaoToDomain(found), nil
}

// Create inserts team and records the creator's participation atomically.
// The name check here and the unique index both reject duplicate names.
func (r *TeamRepository) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	err := r.uow.Do(ctx, func(tx dao.TxDAOs) error {
		creatorRow, err := tx.Users.LockByID(ctx, team.CreatedBy)
		if err != nil {
			return fmt.Errorf("tx.Users.LockByID -> %w", err)
		}

		taken, err := tx.Teams.ExistsByName(ctx, team.HackathonID, team.TeamName)
		if err != nil {
			return fmt.Errorf("tx.Teams.ExistsByName -> %w", err)
		}
		if taken {
			return ErrTeamNameTaken
		}

		creator := userDaoToDomain(creatorRow)
		if err = domain.ApplyCreate(&team, &creator); err != nil {
			return err
		}

		if _, err = tx.Teams.Insert(ctx, teamDomainToDao(team)); err != nil {
			return fmt.Errorf("tx.Teams.Insert -> %w", err)
		}

		return r.saveParticipation(ctx, tx, creator)
	})
	if err != nil {
		return domain.Team{}, err
	}

	return team, nil
}

func (r *TeamRepository) Join(ctx context.Context, teamID, hackathonID, userID string, at time.Time) (domain.Team, error) {
	var team domain.Team
	err := r.uow.Do(ctx, func(tx dao.TxDAOs) error {
		var err error
		team, err = r.lockTeam(ctx, tx, teamID, hackathonID)
		if err != nil {
			return err
		}

		userRow, err := tx.Users.LockByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("tx.Users.LockByID -> %w", err)
		}
		user := userDaoToDomain(userRow)

		if err = domain.ApplyJoin(&team, &user, at); err != nil {
			return err
		}

		if err = tx.Teams.UpdateMembers(ctx, team.ID, team.Members); err != nil {
			return fmt.Errorf("tx.Teams.UpdateMembers -> %w", err)
		}

		return r.saveParticipation(ctx, tx, user)
	})
	if err != nil {
		return domain.Team{}, err
	}

	return team, nil
}

// Leave removes userID from the team. When the team no longer exists the
// user's participation entry for it is still cleared.
func (r *TeamRepository) Leave(ctx context.Context, teamID, hackathonID, userID string) error {
	return r.uow.Do(ctx, func(tx dao.TxDAOs) error {
		team, teamErr := r.lockTeam(ctx, tx, teamID, hackathonID)
		if teamErr != nil && !errors.Is(teamErr, ErrTeamNotFound) {
			return teamErr
		}

		userRow, err := tx.Users.LockByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("tx.Users.LockByID -> %w", err)
		}
		user := userDaoToDomain(userRow)

		if teamErr != nil {
			if !user.ClearParticipation(hackathonID, teamID) {
				return nil
			}
			return r.saveParticipation(ctx, tx, user)
		}

		changed, err := domain.ApplyLeave(&team, &user)
		if err != nil || !changed {
			return err
		}

		if err = tx.Teams.UpdateMembers(ctx, team.ID, team.Members); err != nil {
			return fmt.Errorf("tx.Teams.UpdateMembers -> %w", err)
		}

		return r.saveParticipation(ctx, tx, user)
	})
}

// Delete removes the team and clears the participation of its members. It
// returns the team as it was before deletion.
func (r *TeamRepository) Delete(ctx context.Context, teamID, hackathonID, userID string) (domain.Team, error) {
	var team domain.Team
	err := r.uow.Do(ctx, func(tx dao.TxDAOs) error {
		var err error
		team, err = r.lockTeam(ctx, tx, teamID, hackathonID)
		if err != nil {
			return err
		}
		if team.CreatedBy != userID {
			return domain.ErrNotCreator
		}

		memberRows, err := tx.Users.LockByIDs(ctx, team.Members)
		if err != nil {
			return fmt.Errorf("tx.Users.LockByIDs -> %w", err)
		}
		members := make([]*domain.User, 0, len(memberRows))
		for _, row := range memberRows {
			u := userDaoToDomain(row)
			members = append(members, &u)
		}

		changed, err := domain.ApplyDelete(team, userID, members)
		if err != nil {
			return err
		}
		for _, u := range changed {
			if err = r.saveParticipation(ctx, tx, *u); err != nil {
				return err
			}
		}

		if err = tx.Teams.Delete(ctx, team.ID); err != nil {
			return fmt.Errorf("tx.Teams.Delete -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Team{}, err
	}

	return team, nil
}

func (r *TeamRepository) lockTeam(ctx context.Context, tx dao.TxDAOs, teamID, hackathonID string) (domain.Team, error) {
	row, err := tx.Teams.LockByID(ctx, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("tx.Teams.LockByID -> %w", err)
	}
	if row.HackathonID != hackathonID {
		return domain.Team{}, fmt.Errorf("team %s is not part of hackathon %s: %w", teamID, hackathonID, ErrTeamNotFound)
	}

	return teamDaoToDomain(row), nil
}

func (r *TeamRepository) saveParticipation(ctx context.Context, tx dao.TxDAOs, user domain.User) error {
	if err := tx.Users.UpdateParticipation(ctx, user.ID, participationDomainToDao(user.HackathonParticipation)); err != nil {
		return fmt.Errorf("tx.Users.UpdateParticipation -> %w", err)
	}
	return nil
}
