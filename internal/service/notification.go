package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/metrics"
	"github.com/htmf/hackathon-api/internal/repository"
)

var (
	ErrNotificationNotFound = repository.ErrNotificationNotFound
	ErrJoinRequestPending   = domain.ErrJoinRequestPending
	ErrInvitePending        = domain.ErrInvitePending
	ErrInvalidStatus        = domain.ErrInvalidStatus
	ErrInvalidTransition    = domain.ErrInvalidTransition
	ErrInviteNotFound       = domain.ErrInviteNotFound
)

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	FindByID(ctx context.Context, recipientID, id string) (domain.Notification, error)
	HasPendingJoinRequest(ctx context.Context, recipientID, teamID, senderID string) (bool, error)
	FindByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	UpdateStatus(ctx context.Context, n domain.Notification, from domain.NotificationStatus) error
	ResolvePendingInvites(ctx context.Context, recipientID, teamID string, status domain.NotificationStatus) (int64, error)
}

type InterestRepository interface {
	MarkInterested(ctx context.Context, hackathonID, userID, name string) error
	FindInterested(ctx context.Context, hackathonID string) ([]domain.Interest, error)
	Find(ctx context.Context, hackathonID, userID string) (domain.Interest, error)
	ClearInterested(ctx context.Context, hackathonID, userID string) error
	Update(ctx context.Context, hackathonID, userID string, fn func(*domain.Interest) error) (domain.Interest, error)
}

// NotificationPublisher pushes freshly written notifications to connected
// clients. Publishing never fails the write that triggered it.
type NotificationPublisher interface {
	Publish(n domain.Notification)
}

type NotificationService struct {
	repo      NotificationRepository
	interests InterestRepository
	publisher NotificationPublisher
	now       func() time.Time
	newID     func() string
}

func NewNotificationService(repo NotificationRepository, interests InterestRepository, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{
		repo:      repo,
		interests: interests,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *NotificationService) create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	now := s.now().UTC()
	n.ID = s.newID()
	n.Status = domain.StatusPending
	n.CreatedAt = now
	n.UpdatedAt = now

	created, err := s.repo.Create(ctx, n)
	metrics.ObserveNotification(string(n.Type), err)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(created)
	}

	return created, nil
}

// fanOut writes one notification per recipient. Writes are independent: a
// failure is reported in the joined error but neither stops the remaining
// writes nor undoes the earlier ones. The ids written are always returned.
func (s *NotificationService) fanOut(ctx context.Context, recipientIDs []string, build func(recipientID string) domain.Notification) ([]string, error) {
	ids := make([]string, 0, len(recipientIDs))
	var errs []error
	for _, rid := range recipientIDs {
		n, err := s.create(ctx, build(rid))
		if err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", rid, err))
			continue
		}
		ids = append(ids, n.ID)
	}

	return ids, errors.Join(errs...)
}

func (s *NotificationService) SendJoinRequest(ctx context.Context, teamID, hackathonID, senderID, senderName, recipientID string) (string, error) {
	if teamID == "" || senderID == "" || recipientID == "" {
		return "", fmt.Errorf("team, sender and recipient are required: %w", domain.ErrInvalidInput)
	}

	pending, err := s.repo.HasPendingJoinRequest(ctx, recipientID, teamID, senderID)
	if err != nil {
		return "", fmt.Errorf("s.repo.HasPendingJoinRequest -> %w", err)
	}
	if pending {
		return "", ErrJoinRequestPending
	}

	// The partial unique index still rejects a concurrent duplicate.
	n, err := s.create(ctx, domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotificationJoinRequest,
		Message:     domain.JoinRequestMessage(senderName),
		TeamID:      teamID,
		HackathonID: hackathonID,
		SenderID:    senderID,
		SenderName:  senderName,
	})
	if err != nil {
		return "", err
	}

	return n.ID, nil
}

func (s *NotificationService) GetNotification(ctx context.Context, recipientID, id string) (domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, recipientID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return n, nil
}

// UpdateJoinRequestStatus only changes the status. It never joins the sender
// to the team.
func (s *NotificationService) UpdateJoinRequestStatus(ctx context.Context, recipientID, id, newStatus string) (domain.Notification, error) {
	status, err := domain.ParseJoinRequestStatus(newStatus)
	if err != nil {
		return domain.Notification{}, err
	}

	n, err := s.repo.FindByID(ctx, recipientID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if n.Type != domain.NotificationJoinRequest {
		return domain.Notification{}, fmt.Errorf("%s is not a join request: %w", n.ID, ErrInvalidTransition)
	}

	return s.transition(ctx, n, func(n *domain.Notification) error {
		return n.Transition(status)
	})
}

func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID, id string) (domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, recipientID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return s.transition(ctx, n, (*domain.Notification).MarkRead)
}

func (s *NotificationService) SendContactReply(ctx context.Context, adminID, id, reply string) (domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, adminID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if n.Type != domain.NotificationContactMessage {
		return domain.Notification{}, fmt.Errorf("%s is not a contact message: %w", n.ID, ErrInvalidTransition)
	}

	return s.transition(ctx, n, func(n *domain.Notification) error {
		return n.AttachReply(reply)
	})
}

func (s *NotificationService) transition(ctx context.Context, n domain.Notification, apply func(*domain.Notification) error) (domain.Notification, error) {
	from := n.Status
	if err := apply(&n); err != nil {
		return domain.Notification{}, err
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateStatus(ctx, n, from); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return domain.Notification{}, fmt.Errorf("%s is no longer %s: %w", n.ID, from, ErrInvalidTransition)
		}
		return domain.Notification{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return n, nil
}

// ListInbox returns unanswered join requests and invites and every other
// notification that has not been read, newest first.
func (s *NotificationService) ListInbox(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	all, err := s.repo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRecipient -> %w", err)
	}

	inbox := make([]domain.Notification, 0, len(all))
	for _, n := range all {
		if n.InInbox() {
			inbox = append(inbox, n)
		}
	}

	return inbox, nil
}

func (s *NotificationService) SendContactNotification(ctx context.Context, form domain.ContactForm, adminIDs []string) ([]string, error) {
	return s.fanOut(ctx, adminIDs, func(rid string) domain.Notification {
		return domain.Notification{
			RecipientID: rid,
			Type:        domain.NotificationContactMessage,
			Message:     form.Message,
			SenderID:    form.SenderID,
			SenderName:  form.SenderName,
			SenderEmail: form.SenderEmail,
		}
	})
}

func (s *NotificationService) SendTeamDeletionNotification(ctx context.Context, memberIDs []string, leaderName, teamName, hackathonTitle string) ([]string, error) {
	message := domain.TeamDeletedMessage(leaderName, teamName, hackathonTitle)

	return s.fanOut(ctx, memberIDs, func(rid string) domain.Notification {
		return domain.Notification{
			RecipientID: rid,
			Type:        domain.NotificationTeamDeleted,
			Message:     message,
			SenderName:  leaderName,
		}
	})
}

// SendTeamInvite records the invite on the invitee's interest record and
// drops a team_invite notification into their inbox.
func (s *NotificationService) SendTeamInvite(ctx context.Context, team domain.Team, recipientID, senderID, senderName string) (string, error) {
	if !team.HasMember(senderID) {
		return "", domain.ErrNotTeamMember
	}
	if team.HasMember(recipientID) {
		return "", fmt.Errorf("user is already on this team: %w", domain.ErrAlreadyParticipating)
	}

	_, err := s.interests.Update(ctx, team.HackathonID, recipientID, func(in *domain.Interest) error {
		if !in.AddInvite(domain.TeamInvite{TeamID: team.ID, SenderName: senderName, SentAt: s.now().UTC()}) {
			return ErrInvitePending
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("s.interests.Update -> %w", err)
	}

	n, err := s.create(ctx, domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotificationTeamInvite,
		Message:     domain.TeamInviteMessage(senderName, team.TeamName),
		TeamID:      team.ID,
		HackathonID: team.HackathonID,
		SenderID:    senderID,
		SenderName:  senderName,
	})
	if err != nil {
		return "", err
	}

	return n.ID, nil
}

func (s *NotificationService) FetchUserInvites(ctx context.Context, hackathonID, userID string) ([]domain.TeamInvite, error) {
	in, err := s.interests.Find(ctx, hackathonID, userID)
	if err != nil {
		return nil, fmt.Errorf("s.interests.Find -> %w", err)
	}

	return in.Invites, nil
}

func (s *NotificationService) PendingInvite(ctx context.Context, hackathonID, teamID, userID string) (domain.TeamInvite, bool, error) {
	in, err := s.interests.Find(ctx, hackathonID, userID)
	if err != nil {
		return domain.TeamInvite{}, false, fmt.Errorf("s.interests.Find -> %w", err)
	}

	inv, ok := in.PendingInvite(teamID)
	return inv, ok, nil
}

// ResolveInvite records the user's answer to the pending invite from teamID
// and mirrors it onto the matching inbox notifications.
func (s *NotificationService) ResolveInvite(ctx context.Context, hackathonID, teamID, userID string, status domain.InviteStatus) error {
	_, err := s.interests.Update(ctx, hackathonID, userID, func(in *domain.Interest) error {
		return in.Respond(teamID, status)
	})
	if err != nil {
		return fmt.Errorf("s.interests.Update -> %w", err)
	}

	if _, err = s.repo.ResolvePendingInvites(ctx, userID, teamID, domain.NotificationStatus(status)); err != nil {
		return fmt.Errorf("s.repo.ResolvePendingInvites -> %w", err)
	}

	return nil
}

func (s *NotificationService) ExpressInterest(ctx context.Context, hackathonID, userID, name string) error {
	if err := s.interests.MarkInterested(ctx, hackathonID, userID, name); err != nil {
		return fmt.Errorf("s.interests.MarkInterested -> %w", err)
	}

	return nil
}

func (s *NotificationService) FetchInterestedUsers(ctx context.Context, hackathonID string) ([]domain.Interest, error) {
	interests, err := s.interests.FindInterested(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("s.interests.FindInterested -> %w", err)
	}

	return interests, nil
}

func (s *NotificationService) ClearInterest(ctx context.Context, hackathonID, userID string) error {
	if err := s.interests.ClearInterested(ctx, hackathonID, userID); err != nil {
		return fmt.Errorf("s.interests.ClearInterested -> %w", err)
	}

	return nil
}
