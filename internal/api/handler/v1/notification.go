package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/request"
	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/service"
)

type NotificationService interface {
	SendJoinRequest(ctx context.Context, teamID, hackathonID, senderID, senderName, recipientID string) (string, error)
	UpdateJoinRequestStatus(ctx context.Context, recipientID, id, newStatus string) (domain.Notification, error)
	ListInbox(ctx context.Context, recipientID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, recipientID, id string) (domain.Notification, error)
	SendContactReply(ctx context.Context, adminID, id, reply string) (domain.Notification, error)
	SendContactNotification(ctx context.Context, form domain.ContactForm, adminIDs []string) ([]string, error)
	SendTeamInvite(ctx context.Context, team domain.Team, recipientID, senderID, senderName string) (string, error)
	FetchUserInvites(ctx context.Context, hackathonID, userID string) ([]domain.TeamInvite, error)
	ExpressInterest(ctx context.Context, hackathonID, userID, name string) error
	FetchInterestedUsers(ctx context.Context, hackathonID string) ([]domain.Interest, error)
}

// ApprovalService joins senders to teams when their requests are approved.
type ApprovalService interface {
	ApproveJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error)
	DeclineJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error)
}

type NotificationHandler struct {
	svc      NotificationService
	approval ApprovalService
	uSvc     UserService
}

func NewNotificationHandler(svc NotificationService, approval ApprovalService, uSvc UserService) *NotificationHandler {
	return &NotificationHandler{
		svc:      svc,
		approval: approval,
		uSvc:     uSvc,
	}
}

// HandleListNotifications godoc
// @Summary      List the caller's inbox
// @Description  Pending join requests and every other notification that was not read yet, newest first.
// @Tags         notifications
// @Produce      json
// @Success      200  {array}   domain.Notification
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) HandleListNotifications(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	inbox, err := h.svc.ListInbox(ctx.Request.Context(), session.UserID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListNotifications -> h.svc.ListInbox -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inbox)
}

// HandleUpdateStatus godoc
// @Summary      Set the status of a join request
// @Description  Only changes the status. Use the approve endpoint to also add the sender to the team.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        notificationID  path      string                       true  "Notification ID"
// @Param        request         body      request.UpdateStatusRequest  true  "approved or declined"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/status [patch]
// @Security BearerAuth
func (h *NotificationHandler) HandleUpdateStatus(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	n, err := h.svc.UpdateJoinRequestStatus(ctx.Request.Context(), session.UserID, ctx.Param("notificationID"), req.Status)
	h.render(ctx, n, "v1.HandleUpdateStatus -> h.svc.UpdateJoinRequestStatus", err)
}

// HandleApprove godoc
// @Summary      Approve a join request
// @Description  Adds the sender to the team, then marks the request approved. The request stays pending when the join fails.
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path  string  true  "Notification ID"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/approve [post]
// @Security BearerAuth
func (h *NotificationHandler) HandleApprove(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	n, err := h.approval.ApproveJoinRequest(ctx.Request.Context(), session.UserID, ctx.Param("notificationID"))
	h.render(ctx, n, "v1.HandleApprove -> h.approval.ApproveJoinRequest", err)
}

// HandleDecline godoc
// @Summary      Decline a join request
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path  string  true  "Notification ID"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/decline [post]
// @Security BearerAuth
func (h *NotificationHandler) HandleDecline(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	n, err := h.approval.DeclineJoinRequest(ctx.Request.Context(), session.UserID, ctx.Param("notificationID"))
	h.render(ctx, n, "v1.HandleDecline -> h.approval.DeclineJoinRequest", err)
}

// HandleMarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path  string  true  "Notification ID"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/read [post]
// @Security BearerAuth
func (h *NotificationHandler) HandleMarkRead(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	n, err := h.svc.MarkAsRead(ctx.Request.Context(), session.UserID, ctx.Param("notificationID"))
	h.render(ctx, n, "v1.HandleMarkRead -> h.svc.MarkAsRead", err)
}

// HandleReply godoc
// @Summary      Reply to a contact message
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        notificationID  path      string                true  "Notification ID"
// @Param        request         body      request.ReplyRequest  true  "Reply"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/reply [post]
// @Security BearerAuth
func (h *NotificationHandler) HandleReply(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !session.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAdmin))
		return
	}

	var req request.ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	n, err := h.svc.SendContactReply(ctx.Request.Context(), session.UserID, ctx.Param("notificationID"), req.Reply)
	h.render(ctx, n, "v1.HandleReply -> h.svc.SendContactReply", err)
}

// HandleContact godoc
// @Summary      Send a message to the organisers
// @Description  Every admin receives a copy. When only some copies were written the response is 207 and failed counts the rest.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request  body      request.ContactRequest  true  "Message"
// @Success      201  {object}  response.FanOutResponse
// @Success      207  {object}  response.FanOutResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contact [post]
func (h *NotificationHandler) HandleContact(ctx *gin.Context) {
	var req request.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	adminIDs, err := h.uSvc.AdminIDs(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleContact -> h.uSvc.AdminIDs -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	form := domain.ContactForm{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Message:     req.Message,
	}
	if session, ok := sessionIfPresent(ctx); ok {
		form.SenderID = session.UserID
	}

	ids, err := h.svc.SendContactNotification(ctx.Request.Context(), form, adminIDs)
	if err != nil {
		if len(ids) == 0 {
			err = fmt.Errorf("v1.HandleContact -> h.svc.SendContactNotification -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		zap.L().Warn("contact message did not reach every admin",
			zap.Int("sent", len(ids)), zap.Int("admins", len(adminIDs)), zap.Error(err))
		ctx.JSON(http.StatusMultiStatus, response.FanOutResponse{
			NotificationIDs: ids,
			Failed:          len(adminIDs) - len(ids),
		})
		return
	}

	ctx.JSON(http.StatusCreated, response.FanOutResponse{NotificationIDs: ids})
}

func (h *NotificationHandler) render(ctx *gin.Context, n domain.Notification, op string, err error) {
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", ctx.Param("notificationID")))
			return
		}

		response.RenderErr(ctx, response.ErrFromDomain(fmt.Errorf("%s -> %w", op, err)))
		return
	}

	ctx.JSON(http.StatusOK, n)
}
