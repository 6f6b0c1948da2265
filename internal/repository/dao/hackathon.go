package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Hackathon struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Date        time.Time `gorm:"not null;index"`
	Location    string    `gorm:"not null"`
	Type        *string
	ImageURL    *string
	Deadline    *time.Time
	CreatedBy   string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

type HackathonDAO struct {
	db *gorm.DB
}

func NewHackathonDAO(db *gorm.DB) *HackathonDAO {
	return &HackathonDAO{
		db: db,
	}
}

func (d *HackathonDAO) Insert(ctx context.Context, hackathon Hackathon) (Hackathon, error) {
	result := d.db.WithContext(ctx).Create(&hackathon)
	if result.Error != nil {
		return Hackathon{}, result.Error
	}

	return hackathon, nil
}

func (d *HackathonDAO) FindAll(ctx context.Context) ([]Hackathon, error) {
	var hackathons []Hackathon
	result := d.db.WithContext(ctx).Order("date").Find(&hackathons)
	if result.Error != nil {
		return nil, result.Error
	}

	return hackathons, nil
}

func (d *HackathonDAO) FindByID(ctx context.Context, id string) (Hackathon, error) {
	var hackathon Hackathon
	result := d.db.WithContext(ctx).First(&hackathon, "id = ?", id)
	if result.Error != nil {
		return Hackathon{}, notFound(result.Error, ErrHackathonNotFound)
	}

	return hackathon, nil
}
