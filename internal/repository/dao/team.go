package dao

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Team rows are unique on (hackathon_id, team_name) and (hackathon_id,
// team_code). Both indexes are created in InitTables.
type Team struct {
	ID            string                      `gorm:"primaryKey;type:varchar(36)"`
	HackathonID   string                      `gorm:"not null;index"`
	CreatedBy     string                      `gorm:"not null"`
	CreatedByName string                      `gorm:"not null"`
	TeamName      string                      `gorm:"not null"`
	TeamCode      string                      `gorm:"not null;size:6"`
	Members       datatypes.JSONSlice[string] `gorm:"not null"`
	MaxMembers    int                         `gorm:"not null"`
	CreatedAt     time.Time                   `gorm:"not null"`
}

type TeamDAO struct {
	db *gorm.DB
}

func NewTeamDAO(db *gorm.DB) *TeamDAO {
	return &TeamDAO{
		db: db,
	}
}

func (d *TeamDAO) Insert(ctx context.Context, team Team) (Team, error) {
	result := d.db.WithContext(ctx).Create(&team)
	if result.Error != nil {
		switch {
		case isUniqueViolation(result.Error, constraintTeamsHackathonName):
			return Team{}, ErrTeamNameTaken
		case isUniqueViolation(result.Error, constraintTeamsHackathonCode):
			return Team{}, ErrTeamCodeTaken
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id string) (Team, error) {
	var team Team
	result := d.db.WithContext(ctx).First(&team, "id = ?", id)
	if result.Error != nil {
		return Team{}, notFound(result.Error, ErrTeamNotFound)
	}

	return team, nil
}

// LockByID reads the team with a row lock. It must run inside a transaction.
func (d *TeamDAO) LockByID(ctx context.Context, id string) (Team, error) {
	var team Team
	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&team, "id = ?", id)
	if result.Error != nil {
		return Team{}, notFound(result.Error, ErrTeamNotFound)
	}

	return team, nil
}

func (d *TeamDAO) FindByCode(ctx context.Context, hackathonID, code string) (Team, error) {
	var team Team
	result := d.db.WithContext(ctx).
		Where("hackathon_id = ? AND team_code = ?", hackathonID, code).
		First(&team)
	if result.Error != nil {
		return Team{}, notFound(result.Error, ErrTeamNotFound)
	}

	return team, nil
}

func (d *TeamDAO) ExistsByName(ctx context.Context, hackathonID, name string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&Team{}).
		Where("hackathon_id = ? AND team_name = ?", hackathonID, name).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *TeamDAO) FindByHackathon(ctx context.Context, hackathonID string) ([]Team, error) {
	var teams []Team
	result := d.db.WithContext(ctx).
		Where("hackathon_id = ?", hackathonID).
		Order("created_at").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

// FindJoinable returns teams of the hackathon that still have free seats.
func (d *TeamDAO) FindJoinable(ctx context.Context, hackathonID string) ([]Team, error) {
	var teams []Team
	result := d.db.WithContext(ctx).
		Where("hackathon_id = ? AND jsonb_array_length(members) < max_members", hackathonID).
		Order("created_at").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *TeamDAO) UpdateMembers(ctx context.Context, id string, members []string) error {
	result := d.db.WithContext(ctx).Model(&Team{}).
		Where("id = ?", id).
		Update("members", datatypes.JSONSlice[string](members))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (d *TeamDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}
