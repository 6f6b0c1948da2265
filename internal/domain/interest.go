package domain

import (
	"fmt"
	"time"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

func ParseInviteResponse(s string) (InviteStatus, error) {
	switch st := InviteStatus(s); st {
	case InviteAccepted, InviteDeclined:
		return st, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
}

type TeamInvite struct {
	TeamID     string       `json:"team_id"`
	SenderName string       `json:"sender_name"`
	Status     InviteStatus `json:"status"`
	SentAt     time.Time    `json:"sent_at"`
}

// Interest is the per-hackathon, per-user record of someone looking for a
// team. Invites addressed to the user are attached to it.
type Interest struct {
	HackathonID string       `json:"hackathon_id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Interested  bool         `json:"interested"`
	Invites     []TeamInvite `json:"invites"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (i Interest) PendingInvite(teamID string) (TeamInvite, bool) {
	for _, inv := range i.Invites {
		if inv.TeamID == teamID && inv.Status == InvitePending {
			return inv, true
		}
	}
	return TeamInvite{}, false
}

// AddInvite keeps at most one pending invite per team and reports whether
// the invite was added.
func (i *Interest) AddInvite(inv TeamInvite) bool {
	if _, ok := i.PendingInvite(inv.TeamID); ok {
		return false
	}
	inv.Status = InvitePending
	i.Invites = append(i.Invites, inv)

	return true
}

// Respond resolves the pending invite from teamID. Accepting also withdraws
// the user from the interested list.
func (i *Interest) Respond(teamID string, status InviteStatus) error {
	for idx := range i.Invites {
		inv := &i.Invites[idx]
		if inv.TeamID != teamID || inv.Status != InvitePending {
			continue
		}
		inv.Status = status
		if status == InviteAccepted {
			i.Interested = false
		}
		return nil
	}

	return ErrInviteNotFound
}
