package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_Transition(t *testing.T) {
	tests := []struct {
		name    string
		typ     NotificationType
		from    NotificationStatus
		to      NotificationStatus
		wantErr error
	}{
		{name: "approve join request", typ: NotificationJoinRequest, from: StatusPending, to: StatusApproved},
		{name: "decline join request", typ: NotificationJoinRequest, from: StatusPending, to: StatusDeclined},
		{name: "approved is terminal", typ: NotificationJoinRequest, from: StatusApproved, to: StatusDeclined, wantErr: ErrInvalidTransition},
		{name: "join request cannot be read away", typ: NotificationJoinRequest, from: StatusPending, to: StatusRead, wantErr: ErrInvalidTransition},
		{name: "empty status", typ: NotificationJoinRequest, from: StatusPending, to: "", wantErr: ErrInvalidStatus},
		{name: "accept invite", typ: NotificationTeamInvite, from: StatusPending, to: StatusAccepted},
		{name: "invite is answered not read", typ: NotificationTeamInvite, from: StatusPending, to: StatusRead, wantErr: ErrInvalidTransition},
		{name: "reply to contact", typ: NotificationContactMessage, from: StatusPending, to: StatusReplied},
		{name: "read replied contact", typ: NotificationContactMessage, from: StatusReplied, to: StatusRead},
		{name: "read deletion notice", typ: NotificationTeamDeleted, from: StatusPending, to: StatusRead},
		{name: "deletion notice cannot be approved", typ: NotificationTeamDeleted, from: StatusPending, to: StatusApproved, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Notification{Type: tt.typ, Status: tt.from}
			err := n.Transition(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, tt.from, n.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, n.Status)
		})
	}
}

func TestNotification_TransitionMessage(t *testing.T) {
	n := Notification{Type: NotificationJoinRequest, Status: StatusApproved}

	err := n.Transition(StatusDeclined)
	require.Error(t, err)
	assert.Equal(t, "join_request: cannot move from approved to declined: status transition not allowed: invalid input", err.Error())
	assert.NotContains(t, err.Error(), "->")
}

func TestNotification_AttachReply(t *testing.T) {
	n := Notification{Type: NotificationContactMessage, Status: StatusPending}

	assert.ErrorIs(t, n.AttachReply(""), ErrInvalidInput)
	require.NoError(t, n.AttachReply("thanks, fixed"))
	assert.Equal(t, StatusReplied, n.Status)
	assert.Equal(t, "thanks, fixed", n.Reply)
}

func TestNotification_InInbox(t *testing.T) {
	assert.True(t, Notification{Type: NotificationJoinRequest, Status: StatusPending}.InInbox())
	assert.False(t, Notification{Type: NotificationJoinRequest, Status: StatusApproved}.InInbox())
	assert.True(t, Notification{Type: NotificationContactMessage, Status: StatusReplied}.InInbox())
	assert.False(t, Notification{Type: NotificationTeamDeleted, Status: StatusRead}.InInbox())
	assert.True(t, Notification{Type: NotificationTeamInvite, Status: StatusPending}.InInbox())
	assert.False(t, Notification{Type: NotificationTeamInvite, Status: StatusAccepted}.InInbox())
}

func TestParseJoinRequestStatus(t *testing.T) {
	st, err := ParseJoinRequestStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseJoinRequestStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseJoinRequestStatus("read")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Asha requested to join your team.", JoinRequestMessage("Asha"))
	assert.Equal(t,
		`The team leader Asha has deleted the team "Rocket" for the hackathon "HackNSUT".`,
		TeamDeletedMessage("Asha", "Rocket", "HackNSUT"),
	)
}

func TestInterest_Invites(t *testing.T) {
	in := Interest{HackathonID: "hack-1", UserID: "u1", Interested: true}

	assert.True(t, in.AddInvite(TeamInvite{TeamID: "t1", SenderName: "Asha"}))
	assert.False(t, in.AddInvite(TeamInvite{TeamID: "t1", SenderName: "Asha"}))
	assert.True(t, in.AddInvite(TeamInvite{TeamID: "t2", SenderName: "Ravi"}))
	assert.Len(t, in.Invites, 2)

	require.NoError(t, in.Respond("t2", InviteDeclined))
	assert.True(t, in.Interested)

	require.NoError(t, in.Respond("t1", InviteAccepted))
	assert.False(t, in.Interested)
	assert.Equal(t, InviteAccepted, in.Invites[0].Status)

	assert.ErrorIs(t, in.Respond("t1", InviteDeclined), ErrInviteNotFound)
}
