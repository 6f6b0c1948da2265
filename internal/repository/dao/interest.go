package dao

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Invite struct {
	TeamID     string    `json:"teamId"`
	SenderName string    `json:"senderName"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sentAt"`
}

type Interest struct {
	HackathonID string                      `gorm:"primaryKey;type:varchar(36)"`
	UserID      string                      `gorm:"primaryKey;type:varchar(36)"`
	Name        string                      `gorm:"not null"`
	Interested  bool                        `gorm:"not null;index"`
	Invites     datatypes.JSONSlice[Invite] `gorm:"not null"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

func (Interest) TableName() string {
	return "hackathon_interests"
}

type InterestDAO struct {
	db *gorm.DB
}

func NewInterestDAO(db *gorm.DB) *InterestDAO {
	return &InterestDAO{
		db: db,
	}
}

// MarkInterested creates the row or flips an existing one back to interested
// without touching its invites.
func (d *InterestDAO) MarkInterested(ctx context.Context, hackathonID, userID, name string) error {
	row := Interest{
		HackathonID: hackathonID,
		UserID:      userID,
		Name:        name,
		Interested:  true,
		Invites:     datatypes.JSONSlice[Invite]{},
		UpdatedAt:   time.Now(),
	}

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hackathon_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "interested", "updated_at"}),
	}).Create(&row).Error
}

func (d *InterestDAO) FindInterested(ctx context.Context, hackathonID string) ([]Interest, error) {
	var interests []Interest
	result := d.db.WithContext(ctx).
		Where("hackathon_id = ? AND interested = ?", hackathonID, true).
		Order("updated_at DESC").
		Find(&interests)
	if result.Error != nil {
		return nil, result.Error
	}

	return interests, nil
}

func (d *InterestDAO) Find(ctx context.Context, hackathonID, userID string) (Interest, error) {
	var interest Interest
	result := d.db.WithContext(ctx).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		First(&interest)
	if result.Error != nil {
		return Interest{}, notFound(result.Error, ErrInterestNotFound)
	}

	return interest, nil
}

// Ensure inserts an empty, not interested row unless one exists, so that
// Lock always has a row to lock.
func (d *InterestDAO) Ensure(ctx context.Context, hackathonID, userID string) error {
	row := Interest{
		HackathonID: hackathonID,
		UserID:      userID,
		Invites:     datatypes.JSONSlice[Invite]{},
		UpdatedAt:   time.Now(),
	}

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// Lock reads the row with a row lock. It must run inside a transaction.
func (d *InterestDAO) Lock(ctx context.Context, hackathonID, userID string) (Interest, error) {
	var interest Interest
	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		First(&interest)
	if result.Error != nil {
		return Interest{}, notFound(result.Error, ErrInterestNotFound)
	}

	return interest, nil
}

// Save writes the whole row, inserting it when it does not exist yet.
func (d *InterestDAO) Save(ctx context.Context, interest Interest) error {
	if interest.Invites == nil {
		interest.Invites = datatypes.JSONSlice[Invite]{}
	}
	interest.UpdatedAt = time.Now()

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hackathon_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "interested", "invites", "updated_at"}),
	}).Create(&interest).Error
}

func (d *InterestDAO) ClearInterested(ctx context.Context, hackathonID, userID string) error {
	return d.db.WithContext(ctx).Model(&Interest{}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Updates(map[string]interface{}{
			"interested": false,
			"updated_at": time.Now(),
		}).Error
}
