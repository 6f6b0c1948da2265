package repository

import (
	"context"
	"fmt"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository/dao"
)

var (
	ErrNotificationNotFound = dao.ErrNotificationNotFound
	ErrJoinRequestPending   = dao.ErrJoinRequestPending
	ErrStatusChanged        = dao.ErrStatusChanged
)

type NotificationDAO interface {
	Insert(ctx context.Context, n dao.Notification) (dao.Notification, error)
	FindByID(ctx context.Context, recipientID, id string) (dao.Notification, error)
	ExistsPendingJoinRequest(ctx context.Context, recipientID, teamID, senderID string) (bool, error)
	FindByRecipient(ctx context.Context, recipientID string) ([]dao.Notification, error)
	UpdateStatus(ctx context.Context, n dao.Notification, from string) error
	ResolvePendingInvites(ctx context.Context, recipientID, teamID, status string) (int64, error)
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(n))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, recipientID, id string) (domain.Notification, error) {
	found, err := r.dao.FindByID(ctx, recipientID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *NotificationRepository) HasPendingJoinRequest(ctx context.Context, recipientID, teamID, senderID string) (bool, error) {
	exists, err := r.dao.ExistsPendingJoinRequest(ctx, recipientID, teamID, senderID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsPendingJoinRequest -> %w", err)
	}

	return exists, nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	found, err := r.dao.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRecipient -> %w", err)
	}

	notifications := make([]domain.Notification, 0, len(found))
	for _, n := range found {
		notifications = append(notifications, r.daoToDomain(n))
	}

	return notifications, nil
}

// UpdateStatus persists n's status and reply if the stored status is still from.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, n domain.Notification, from domain.NotificationStatus) error {
	if err := r.dao.UpdateStatus(ctx, r.domainToDao(n), string(from)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) ResolvePendingInvites(ctx context.Context, recipientID, teamID string, status domain.NotificationStatus) (int64, error) {
	n, err := r.dao.ResolvePendingInvites(ctx, recipientID, teamID, string(status))
	if err != nil {
		return 0, fmt.Errorf("r.dao.ResolvePendingInvites -> %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) daoToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        domain.NotificationType(n.Type),
		Status:      domain.NotificationStatus(n.Status),
		Message:     n.Message,
		TeamID:      n.TeamID,
		HackathonID: n.HackathonID,
		SenderID:    n.SenderID,
		SenderName:  n.SenderName,
		SenderEmail: n.SenderEmail,
		Reply:       n.Reply,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (r *NotificationRepository) domainToDao(n domain.Notification) dao.Notification {
	return dao.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		Status:      string(n.Status),
		Message:     n.Message,
		TeamID:      n.TeamID,
		HackathonID: n.HackathonID,
		SenderID:    n.SenderID,
		SenderName:  n.SenderName,
		SenderEmail: n.SenderEmail,
		Reply:       n.Reply,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
