package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/api/middleware"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/service"
)

var errNoSession = errors.New("no session on request")

type UserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (domain.User, error)
	GetParticipation(ctx context.Context, userID, hackathonID string) (*domain.Participation, error)
	AdminIDs(ctx context.Context) ([]string, error)
}

func getSessionFromContext(ctx *gin.Context) (domain.Session, *response.Err) {
	session, ok := middleware.SessionFromContext(ctx)
	if !ok {
		return domain.Session{}, response.ErrInvalidToken(errNoSession)
	}

	return session, nil
}

// getUserFromContext loads the profile of the caller. A token whose user no
// longer exists is treated as invalid.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		return domain.User{}, respErr
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrInvalidToken(err)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user, nil
}

func sessionIfPresent(ctx *gin.Context) (domain.Session, bool) {
	return middleware.SessionFromContext(ctx)
}
