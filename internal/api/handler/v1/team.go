package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/request"
	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/service"
)

type TeamService interface {
	CreateTeam(ctx context.Context, hackathonID, userID, teamName, creatorName string) (domain.Team, error)
	JoinTeam(ctx context.Context, teamID, hackathonID, userID string) (domain.Team, error)
	JoinTeamByCode(ctx context.Context, code, hackathonID, userID string) (domain.Team, error)
	LeaveTeam(ctx context.Context, teamID, hackathonID, userID string) error
	DeleteTeam(ctx context.Context, teamID, hackathonID, userID string) error
	GetTeam(ctx context.Context, id string) (domain.Team, error)
	ListTeams(ctx context.Context, hackathonID string) ([]domain.Team, error)
	GetJoinableTeams(ctx context.Context, hackathonID string) ([]domain.Team, error)
	FetchTeamMembers(ctx context.Context, memberIDs []string) ([]domain.MemberSummary, error)
	ApproveJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error)
	DeclineJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error)
	RespondToInvite(ctx context.Context, hackathonID, teamID, userID, response string) error
}

type TeamHandler struct {
	svc  TeamService
	nSvc NotificationService
	uSvc UserService
}

func NewTeamHandler(svc TeamService, nSvc NotificationService, uSvc UserService) *TeamHandler {
	return &TeamHandler{
		svc:  svc,
		nSvc: nSvc,
		uSvc: uSvc,
	}
}

// HandleCreateTeam godoc
// @Summary      Create a team
// @Description  The caller becomes the team's creator and first member.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        hackathonID  path      string                     true  "Hackathon ID"
// @Param        request      body      request.CreateTeamRequest  true  "Team name"
// @Success      201  {object}  response.CreateTeamResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/teams [post]
// @Security BearerAuth
func (h *TeamHandler) HandleCreateTeam(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.CreateTeam(ctx.Request.Context(), ctx.Param("hackathonID"), user.ID, req.TeamName, user.Name)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleCreateTeam -> h.svc.CreateTeam -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.CreateTeamResponse{
		TeamID:   team.ID,
		TeamCode: team.TeamCode,
	})
}

// HandleListTeams godoc
// @Summary      List teams of a hackathon
// @Description  By default only teams with free seats are returned. Pass all=true for every team.
// @Tags         teams
// @Produce      json
// @Param        hackathonID  path   string  true   "Hackathon ID"
// @Param        all          query  bool    false  "include full teams"
// @Success      200  {array}   domain.Team
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/teams [get]
// @Security BearerAuth
func (h *TeamHandler) HandleListTeams(ctx *gin.Context) {
	hackathonID := ctx.Param("hackathonID")

	var (
		teams []domain.Team
		err   error
	)
	if ctx.Query("all") == "true" {
		teams, err = h.svc.ListTeams(ctx.Request.Context(), hackathonID)
	} else {
		teams, err = h.svc.GetJoinableTeams(ctx.Request.Context(), hackathonID)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleListTeams -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, teams)
}

// HandleJoinByCode godoc
// @Summary      Join a team with its join code
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        hackathonID  path      string                     true  "Hackathon ID"
// @Param        request      body      request.JoinByCodeRequest  true  "Join code"
// @Success      200  {object}  domain.Team
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/teams/join [post]
// @Security BearerAuth
func (h *TeamHandler) HandleJoinByCode(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.JoinByCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.JoinTeamByCode(ctx.Request.Context(), req.TeamCode, ctx.Param("hackathonID"), session.UserID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleJoinByCode -> h.svc.JoinTeamByCode -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleGetTeam godoc
// @Summary      Get a team
// @Tags         teams
// @Produce      json
// @Param        teamID  path  string  true  "Team ID"
// @Success      200  {object}  domain.Team
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID} [get]
// @Security BearerAuth
func (h *TeamHandler) HandleGetTeam(ctx *gin.Context) {
	team, respErr := h.loadTeam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleGetMembers godoc
// @Summary      List a team's members
// @Tags         teams
// @Produce      json
// @Param        teamID  path  string  true  "Team ID"
// @Success      200  {array}   domain.MemberSummary
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID}/members [get]
// @Security BearerAuth
func (h *TeamHandler) HandleGetMembers(ctx *gin.Context) {
	team, respErr := h.loadTeam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	members, err := h.svc.FetchTeamMembers(ctx.Request.Context(), team.Members)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMembers -> h.svc.FetchTeamMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleJoinTeam godoc
// @Summary      Join a team
// @Tags         teams
// @Produce      json
// @Param        teamID  path  string  true  "Team ID"
// @Success      200  {object}  domain.Team
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID}/join [post]
// @Security BearerAuth
func (h *TeamHandler) HandleJoinTeam(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	team, respErr := h.loadTeam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	joined, err := h.svc.JoinTeam(ctx.Request.Context(), team.ID, team.HackathonID, session.UserID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleJoinTeam -> h.svc.JoinTeam -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, joined)
}

// HandleLeaveTeam godoc
// @Summary      Leave a team
// @Description  Leaving a team that no longer exists only clears the caller's participation.
// @Tags         teams
// @Param        teamID       path   string  true  "Team ID"
// @Param        hackathonID  query  string  false "Hackathon ID, required when the team was deleted"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID}/leave [post]
// @Security BearerAuth
func (h *TeamHandler) HandleLeaveTeam(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	teamID := ctx.Param("teamID")
	hackathonID := ctx.Query("hackathonID")
	if team, err := h.svc.GetTeam(ctx.Request.Context(), teamID); err == nil {
		hackathonID = team.HackathonID
	}
	if hackathonID == "" {
		response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
		return
	}

	if err := h.svc.LeaveTeam(ctx.Request.Context(), teamID, hackathonID, session.UserID); err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleLeaveTeam -> h.svc.LeaveTeam -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteTeam godoc
// @Summary      Delete a team
// @Description  Only the creator can delete a team. Former members are notified.
// @Tags         teams
// @Param        teamID  path  string  true  "Team ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID} [delete]
// @Security BearerAuth
func (h *TeamHandler) HandleDeleteTeam(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	team, respErr := h.loadTeam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteTeam(ctx.Request.Context(), team.ID, team.HackathonID, session.UserID); err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleDeleteTeam -> h.svc.DeleteTeam -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSendJoinRequest godoc
// @Summary      Ask to join a team
// @Description  Sends a join request to the team's creator.
// @Tags         teams
// @Produce      json
// @Param        teamID  path  string  true  "Team ID"
// @Success      201  {object}  response.NotificationIDResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /teams/{teamID}/join-requests [post]
// @Security BearerAuth
func (h *TeamHandler) HandleSendJoinRequest(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	team, respErr := h.loadTeam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if team.HasMember(user.ID) {
		response.RenderErr(ctx, response.ErrFromDomain(domain.ErrAlreadyOnTeam))
		return
	}

	id, err := h.nSvc.SendJoinRequest(ctx.Request.Context(), team.ID, team.HackathonID, user.ID, user.Name, team.CreatedBy)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleSendJoinRequest -> h.nSvc.SendJoinRequest -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.NotificationIDResponse{NotificationID: id})
}

// HandleExpressInterest godoc
// @Summary      Mark the caller as looking for a team
// @Tags         teams
// @Param        hackathonID  path  string  true  "Hackathon ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/interest [post]
// @Security BearerAuth
func (h *TeamHandler) HandleExpressInterest(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.nSvc.ExpressInterest(ctx.Request.Context(), ctx.Param("hackathonID"), user.ID, user.Name); err != nil {
		err = fmt.Errorf("v1.HandleExpressInterest -> h.nSvc.ExpressInterest -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleFetchInterested godoc
// @Summary      List users looking for a team
// @Tags         teams
// @Produce      json
// @Param        hackathonID  path  string  true  "Hackathon ID"
// @Success      200  {array}   domain.Interest
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/interested [get]
// @Security BearerAuth
func (h *TeamHandler) HandleFetchInterested(ctx *gin.Context) {
	interests, err := h.nSvc.FetchInterestedUsers(ctx.Request.Context(), ctx.Param("hackathonID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleFetchInterested -> h.nSvc.FetchInterestedUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, interests)
}

// HandleFetchInvites godoc
// @Summary      List the caller's team invites
// @Tags         teams
// @Produce      json
// @Param        hackathonID  path  string  true  "Hackathon ID"
// @Success      200  {array}   domain.TeamInvite
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/invites [get]
// @Security BearerAuth
func (h *TeamHandler) HandleFetchInvites(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	invites, err := h.nSvc.FetchUserInvites(ctx.Request.Context(), ctx.Param("hackathonID"), session.UserID)
	if err != nil {
		err = fmt.Errorf("v1.HandleFetchInvites -> h.nSvc.FetchUserInvites -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, invites)
}

// HandleSendInvite godoc
// @Summary      Invite a user to the caller's team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        hackathonID  path      string                     true  "Hackathon ID"
// @Param        request      body      request.SendInviteRequest  true  "Team and invitee"
// @Success      201  {object}  response.NotificationIDResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/invites [post]
// @Security BearerAuth
func (h *TeamHandler) HandleSendInvite(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SendInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	hackathonID := ctx.Param("hackathonID")
	team, err := h.svc.GetTeam(ctx.Request.Context(), req.TeamID)
	if err != nil || team.HackathonID != hackathonID {
		response.RenderErr(ctx, response.ErrNotFound("team", "ID", req.TeamID))
		return
	}

	if _, err = h.uSvc.GetUser(ctx.Request.Context(), req.RecipientID); err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleSendInvite -> h.uSvc.GetUser -> %w", err)))
		return
	}

	id, err := h.nSvc.SendTeamInvite(ctx.Request.Context(), team, req.RecipientID, user.ID, user.Name)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleSendInvite -> h.nSvc.SendTeamInvite -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.NotificationIDResponse{NotificationID: id})
}

// HandleRespondInvite godoc
// @Summary      Accept or decline a team invite
// @Description  Accepting joins the team. The invite stays pending when the join fails.
// @Tags         teams
// @Accept       json
// @Param        hackathonID  path      string                        true  "Hackathon ID"
// @Param        teamID       path      string                        true  "Team ID"
// @Param        request      body      request.RespondInviteRequest  true  "accepted or declined"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID}/invites/{teamID}/respond [post]
// @Security BearerAuth
func (h *TeamHandler) HandleRespondInvite(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RespondInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.RespondToInvite(ctx.Request.Context(), ctx.Param("hackathonID"), ctx.Param("teamID"), session.UserID, req.Status)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("v1.HandleRespondInvite -> h.svc.RespondToInvite -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TeamHandler) loadTeam(ctx *gin.Context) (domain.Team, *response.Err) {
	teamID := ctx.Param("teamID")

	team, err := h.svc.GetTeam(ctx.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			return domain.Team{}, response.ErrNotFound("team", "ID", teamID)
		}

		return domain.Team{}, response.ErrInternalServerError(fmt.Errorf("h.svc.GetTeam -> %w", err))
	}

	return team, nil
}
