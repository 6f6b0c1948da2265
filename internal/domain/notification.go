package domain

import (
	"fmt"
	"slices"
	"time"
)

type NotificationType string

const (
	NotificationJoinRequest    NotificationType = "join_request"
	NotificationTeamInvite     NotificationType = "team_invite"
	NotificationContactMessage NotificationType = "contact_message"
	NotificationTeamDeleted    NotificationType = "team-deleted"
)

type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusApproved NotificationStatus = "approved"
	StatusDeclined NotificationStatus = "declined"
	StatusAccepted NotificationStatus = "accepted"
	StatusReplied  NotificationStatus = "replied"
	StatusRead     NotificationStatus = "read"
)

var transitions = map[NotificationType]map[NotificationStatus][]NotificationStatus{
	NotificationJoinRequest: {
		StatusPending: {StatusApproved, StatusDeclined},
	},
	NotificationTeamInvite: {
		StatusPending: {StatusAccepted, StatusDeclined},
	},
	NotificationContactMessage: {
		StatusPending: {StatusReplied, StatusRead},
		StatusReplied: {StatusRead},
	},
	NotificationTeamDeleted: {
		StatusPending: {StatusRead},
	},
}

// Notification is one entry in a recipient's inbox. Fan-out writes one
// Notification per recipient.
type Notification struct {
	ID          string             `json:"id"`
	RecipientID string             `json:"recipient_id"`
	Type        NotificationType   `json:"type"`
	Status      NotificationStatus `json:"status"`
	Message     string             `json:"message"`
	TeamID      string             `json:"team_id,omitempty"`
	HackathonID string             `json:"hackathon_id,omitempty"`
	SenderID    string             `json:"sender_id,omitempty"`
	SenderName  string             `json:"sender_name,omitempty"`
	SenderEmail string             `json:"sender_email,omitempty"`
	Reply       string             `json:"reply,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (n Notification) CanTransition(to NotificationStatus) bool {
	return slices.Contains(transitions[n.Type][n.Status], to)
}

// Transition moves the notification to status to, or fails leaving it as is.
func (n *Notification) Transition(to NotificationStatus) error {
	if to == "" {
		return ErrInvalidStatus
	}
	if !n.CanTransition(to) {
		return fmt.Errorf("%s: cannot move from %s to %s: %w", n.Type, n.Status, to, ErrInvalidTransition)
	}
	n.Status = to

	return nil
}

func (n *Notification) MarkRead() error {
	return n.Transition(StatusRead)
}

func (n *Notification) AttachReply(reply string) error {
	if reply == "" {
		return fmt.Errorf("reply is required: %w", ErrInvalidInput)
	}
	if err := n.Transition(StatusReplied); err != nil {
		return err
	}
	n.Reply = reply

	return nil
}

// InInbox reports whether the notification is still shown to its recipient:
// join requests and invites until they are answered, everything else until read.
func (n Notification) InInbox() bool {
	if n.Type == NotificationJoinRequest || n.Type == NotificationTeamInvite {
		return n.Status == StatusPending
	}
	return n.Status != StatusRead
}

// ParseJoinRequestStatus validates a status a recipient may set on a join request.
func ParseJoinRequestStatus(s string) (NotificationStatus, error) {
	switch st := NotificationStatus(s); st {
	case StatusApproved, StatusDeclined:
		return st, nil
	case "":
		return "", ErrInvalidStatus
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
}

func JoinRequestMessage(senderName string) string {
	return fmt.Sprintf("%s requested to join your team.", senderName)
}

func TeamInviteMessage(senderName, teamName string) string {
	return fmt.Sprintf("%s invited you to join team %s.", senderName, teamName)
}

func TeamDeletedMessage(leaderName, teamName, hackathonTitle string) string {
	return fmt.Sprintf("The team leader %s has deleted the team %q for the hackathon %q.", leaderName, teamName, hackathonTitle)
}

// ContactForm is a message sent through the public contact page.
type ContactForm struct {
	SenderID    string
	SenderName  string
	SenderEmail string
	Message     string
}
