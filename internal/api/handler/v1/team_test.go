package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/service"
)

type leaveCall struct {
	teamID, hackathonID, userID string
}

type stubTeamService struct {
	TeamService
	teams     map[string]domain.Team
	createErr error
	joinErr   error
	leaves    []leaveCall
}

func (s *stubTeamService) CreateTeam(_ context.Context, hackathonID, userID, teamName, creatorName string) (domain.Team, error) {
	if s.createErr != nil {
		return domain.Team{}, s.createErr
	}
	return domain.NewTeam("team-1", hackathonID, userID, creatorName, teamName, "AB12CD", time.Now()), nil
}

func (s *stubTeamService) JoinTeamByCode(_ context.Context, code, hackathonID, userID string) (domain.Team, error) {
	if s.joinErr != nil {
		return domain.Team{}, s.joinErr
	}
	for _, t := range s.teams {
		if t.TeamCode == code && t.HackathonID == hackathonID {
			t.Members = append(t.Members, userID)
			return t, nil
		}
	}
	return domain.Team{}, service.ErrCodeNotFound
}

func (s *stubTeamService) GetTeam(_ context.Context, id string) (domain.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return domain.Team{}, service.ErrTeamNotFound
	}
	return t, nil
}

func (s *stubTeamService) LeaveTeam(_ context.Context, teamID, hackathonID, userID string) error {
	s.leaves = append(s.leaves, leaveCall{teamID, hackathonID, userID})
	return nil
}

type stubNotificationService struct {
	NotificationService
	sent       []string
	contactIDs []string
	contactErr error
	form       domain.ContactForm
}

func (s *stubNotificationService) SendJoinRequest(_ context.Context, teamID, hackathonID, senderID, senderName, recipientID string) (string, error) {
	s.sent = append(s.sent, recipientID)
	return "n-1", nil
}

func (s *stubNotificationService) SendContactNotification(_ context.Context, form domain.ContactForm, adminIDs []string) ([]string, error) {
	s.form = form
	return s.contactIDs, s.contactErr
}

var (
	alice = domain.User{ID: "alice", Name: "Alice", Role: domain.RoleMember}
	bob   = domain.User{ID: "bob", Name: "Bob", Role: domain.RoleMember}
)

func newTeamRouter(session *domain.Session, svc *stubTeamService, nSvc *stubNotificationService) *gin.Engine {
	h := NewTeamHandler(svc, nSvc, newStubUsers(alice, bob))

	r := gin.New()
	r.Use(withSession(session))
	r.POST("/hackathons/:hackathonID/teams", h.HandleCreateTeam)
	r.POST("/hackathons/:hackathonID/teams/join", h.HandleJoinByCode)
	r.GET("/teams/:teamID", h.HandleGetTeam)
	r.POST("/teams/:teamID/leave", h.HandleLeaveTeam)
	r.POST("/teams/:teamID/join-requests", h.HandleSendJoinRequest)

	return r
}

func TestTeamHandler_HandleCreateTeam(t *testing.T) {
	session := &domain.Session{UserID: "alice", Role: domain.RoleMember}

	t.Run("created", func(t *testing.T) {
		r := newTeamRouter(session, &stubTeamService{}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "  Gophers "})

		require.Equal(t, http.StatusCreated, w.Code)
		body := decode[response.CreateTeamResponse](t, w)
		assert.Equal(t, "team-1", body.TeamID)
		assert.Equal(t, "AB12CD", body.TeamCode)
	})

	t.Run("blank name", func(t *testing.T) {
		r := newTeamRouter(session, &stubTeamService{}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("name taken", func(t *testing.T) {
		r := newTeamRouter(session, &stubTeamService{createErr: service.ErrTeamNameTaken}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "Gophers"})

		require.Equal(t, http.StatusConflict, w.Code)
		body := decode[response.Err](t, w)
		assert.Equal(t, service.ErrTeamNameTaken.Error(), body.ErrorMsg)
	})

	t.Run("already participating", func(t *testing.T) {
		r := newTeamRouter(session, &stubTeamService{createErr: service.ErrAlreadyOnTeam}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "Gophers"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		r := newTeamRouter(nil, &stubTeamService{}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "Gophers"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		r := newTeamRouter(&domain.Session{UserID: "ghost"}, &stubTeamService{}, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams", map[string]string{"team_name": "Gophers"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTeamHandler_HandleJoinByCode(t *testing.T) {
	session := &domain.Session{UserID: "bob"}
	team := domain.NewTeam("team-1", "hack-1", "alice", "Alice", "Gophers", "AB12CD", time.Now())

	tests := []struct {
		name       string
		svc        *stubTeamService
		code       string
		wantStatus int
	}{
		{
			name:       "joined",
			svc:        &stubTeamService{teams: map[string]domain.Team{team.ID: team}},
			code:       "AB12CD",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown code",
			svc:        &stubTeamService{teams: map[string]domain.Team{}},
			code:       "ZZZZZZ",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "team full",
			svc:        &stubTeamService{joinErr: service.ErrTeamFull},
			code:       "AB12CD",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "malformed code",
			svc:        &stubTeamService{},
			code:       "AB-1",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTeamRouter(session, tt.svc, &stubNotificationService{})

			w := doJSON(t, r, http.MethodPost, "/hackathons/hack-1/teams/join", map[string]string{"team_code": tt.code})

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTeamHandler_HandleGetTeam(t *testing.T) {
	team := domain.NewTeam("team-1", "hack-1", "alice", "Alice", "Gophers", "AB12CD", time.Now())
	r := newTeamRouter(&domain.Session{UserID: "bob"}, &stubTeamService{teams: map[string]domain.Team{team.ID: team}}, &stubNotificationService{})

	w := doJSON(t, r, http.MethodGet, "/teams/team-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gophers", decode[domain.Team](t, w).TeamName)

	w = doJSON(t, r, http.MethodGet, "/teams/team-2", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "team with ID team-2 is not found", decode[response.Err](t, w).ErrorMsg)
}

func TestTeamHandler_HandleLeaveTeam(t *testing.T) {
	session := &domain.Session{UserID: "bob"}

	t.Run("hackathon taken from the team", func(t *testing.T) {
		team := domain.NewTeam("team-1", "hack-1", "alice", "Alice", "Gophers", "AB12CD", time.Now())
		svc := &stubTeamService{teams: map[string]domain.Team{team.ID: team}}
		r := newTeamRouter(session, svc, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/teams/team-1/leave?hackathonID=other", nil)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []leaveCall{{"team-1", "hack-1", "bob"}}, svc.leaves)
	})

	t.Run("deleted team with hackathon query", func(t *testing.T) {
		svc := &stubTeamService{teams: map[string]domain.Team{}}
		r := newTeamRouter(session, svc, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/teams/gone/leave?hackathonID=hack-1", nil)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []leaveCall{{"gone", "hack-1", "bob"}}, svc.leaves)
	})

	t.Run("deleted team without hackathon", func(t *testing.T) {
		svc := &stubTeamService{teams: map[string]domain.Team{}}
		r := newTeamRouter(session, svc, &stubNotificationService{})

		w := doJSON(t, r, http.MethodPost, "/teams/gone/leave", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, svc.leaves)
	})
}

func TestTeamHandler_HandleSendJoinRequest(t *testing.T) {
	team := domain.NewTeam("team-1", "hack-1", "alice", "Alice", "Gophers", "AB12CD", time.Now())
	svc := &stubTeamService{teams: map[string]domain.Team{team.ID: team}}

	t.Run("sent to the creator", func(t *testing.T) {
		nSvc := &stubNotificationService{}
		r := newTeamRouter(&domain.Session{UserID: "bob"}, svc, nSvc)

		w := doJSON(t, r, http.MethodPost, "/teams/team-1/join-requests", nil)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "n-1", decode[response.NotificationIDResponse](t, w).NotificationID)
		assert.Equal(t, []string{"alice"}, nSvc.sent)
	})

	t.Run("member cannot ask", func(t *testing.T) {
		nSvc := &stubNotificationService{}
		r := newTeamRouter(&domain.Session{UserID: "alice"}, svc, nSvc)

		w := doJSON(t, r, http.MethodPost, "/teams/team-1/join-requests", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, nSvc.sent)
	})
}
