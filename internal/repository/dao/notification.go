package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	RecipientID string `gorm:"not null;index:idx_notifications_recipient,priority:1"`
	Type        string `gorm:"not null"`
	Status      string `gorm:"not null"`
	Message     string `gorm:"not null"`
	TeamID      string
	HackathonID string
	SenderID    string
	SenderName  string
	SenderEmail string
	Reply       string
	CreatedAt   time.Time `gorm:"not null;index:idx_notifications_recipient,priority:2,sort:desc"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, n Notification) (Notification, error) {
	result := d.db.WithContext(ctx).Create(&n)
	if result.Error != nil {
		if isUniqueViolation(result.Error, constraintPendingJoinRequests) {
			return Notification{}, ErrJoinRequestPending
		}

		return Notification{}, result.Error
	}

	return n, nil
}

// FindByID only returns notifications from recipientID's own inbox.
func (d *NotificationDAO) FindByID(ctx context.Context, recipientID, id string) (Notification, error) {
	var n Notification
	result := d.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&n)
	if result.Error != nil {
		return Notification{}, notFound(result.Error, ErrNotificationNotFound)
	}

	return n, nil
}

func (d *NotificationDAO) ExistsPendingJoinRequest(ctx context.Context, recipientID, teamID, senderID string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND type = ? AND team_id = ? AND sender_id = ? AND status = ?",
			recipientID, "join_request", teamID, senderID, "pending").
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *NotificationDAO) FindByRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	var notifications []Notification
	result := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

// UpdateStatus is a compare-and-set on status: it only applies when the row
// is still in status from.
func (d *NotificationDAO) UpdateStatus(ctx context.Context, n Notification, from string) error {
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND recipient_id = ? AND status = ?", n.ID, n.RecipientID, from).
		Updates(map[string]interface{}{
			"status":     n.Status,
			"reply":      n.Reply,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

// ResolvePendingInvites sets status on every pending team_invite from teamID
// in recipientID's inbox.
func (d *NotificationDAO) ResolvePendingInvites(ctx context.Context, recipientID, teamID, status string) (int64, error) {
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND type = ? AND team_id = ? AND status = ?",
			recipientID, "team_invite", teamID, "pending").
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}
