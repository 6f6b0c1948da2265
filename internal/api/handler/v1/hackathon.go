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

type HackathonService interface {
	CreateHackathon(ctx context.Context, session domain.Session, h domain.Hackathon) (domain.Hackathon, error)
	ListHackathons(ctx context.Context) ([]domain.Hackathon, error)
	GetHackathon(ctx context.Context, id string) (domain.Hackathon, error)
}

type HackathonHandler struct {
	svc HackathonService
}

func NewHackathonHandler(svc HackathonService) *HackathonHandler {
	return &HackathonHandler{
		svc: svc,
	}
}

// HandleListHackathons godoc
// @Summary      List hackathons
// @Tags         hackathons
// @Produce      json
// @Success      200  {array}   domain.Hackathon
// @Failure      500  {object}  response.Err
// @Router       /hackathons [get]
func (h *HackathonHandler) HandleListHackathons(ctx *gin.Context) {
	hackathons, err := h.svc.ListHackathons(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListHackathons -> h.svc.ListHackathons -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, hackathons)
}

// HandleGetHackathon godoc
// @Summary      Get a hackathon
// @Tags         hackathons
// @Produce      json
// @Param        hackathonID  path  string  true  "Hackathon ID"
// @Success      200  {object}  domain.Hackathon
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons/{hackathonID} [get]
func (h *HackathonHandler) HandleGetHackathon(ctx *gin.Context) {
	hackathonID := ctx.Param("hackathonID")

	hackathon, err := h.svc.GetHackathon(ctx.Request.Context(), hackathonID)
	if err != nil {
		if errors.Is(err, service.ErrHackathonNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("hackathon", "ID", hackathonID))
			return
		}

		err = fmt.Errorf("v1.HandleGetHackathon -> h.svc.GetHackathon -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, hackathon)
}

// HandleCreateHackathon godoc
// @Summary      Create a hackathon
// @Description  Only admins can create hackathons.
// @Tags         hackathons
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateHackathonRequest  true  "Hackathon details"
// @Success      201  {object}  domain.Hackathon
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /hackathons [post]
// @Security BearerAuth
func (h *HackathonHandler) HandleCreateHackathon(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateHackathonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateHackathon(ctx.Request.Context(), session, req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateHackathon -> h.svc.CreateHackathon -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}
