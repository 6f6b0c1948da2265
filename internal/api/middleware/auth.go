package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/pkg/jwthelper"
)

const sessionKey = "session"

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{key: []byte(key)}
}

// VerifyJWT rejects requests without a valid token and stores the caller's
// session on the context otherwise.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrInvalidToken(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, token, ctx.Request.UserAgent())
		if err != nil {
			response.RenderErr(ctx, response.ErrInvalidToken(err))
			return
		}

		ctx.Set(sessionKey, sessionFromClaims(claims))
		ctx.Next()
	}
}

// OptionalJWT attaches a session when the request carries a valid token and
// lets the request through either way.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := extractToken(ctx); token != "" {
			if claims, err := jwthelper.ParseToken(a.key, token, ctx.Request.UserAgent()); err == nil {
				ctx.Set(sessionKey, sessionFromClaims(claims))
			}
		}
		ctx.Next()
	}
}

func sessionFromClaims(claims *jwthelper.UserClaims) domain.Session {
	return domain.Session{
		UserID:        claims.UserID,
		Role:          domain.Role(claims.Role),
		EmailVerified: claims.EmailVerified,
	}
}

// Browsers cannot set headers on websocket upgrades, so the token may also
// come in the query string.
func extractToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}

func SessionFromContext(ctx *gin.Context) (domain.Session, bool) {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)

	return session, ok
}

// SetSession is used by tests that bypass token verification.
func SetSession(ctx *gin.Context, session domain.Session) {
	ctx.Set(sessionKey, session)
}
