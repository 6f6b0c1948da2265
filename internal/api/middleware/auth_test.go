package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/pkg/jwthelper"
)

const (
	testKey = "test-signing-key"
	testUA  = "test-agent"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", mw, func(ctx *gin.Context) {
		session, ok := SessionFromContext(ctx)
		if !ok {
			ctx.String(http.StatusOK, "anonymous")
			return
		}
		ctx.String(http.StatusOK, session.UserID+":"+string(session.Role))
	})
	return r
}

func issue(t *testing.T, key string) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(key), "u-1", string(domain.RoleAdmin), true, testUA, time.Hour)
	require.NoError(t, err)
	return token
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", testUA)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	r := newAuthRouter(NewAuthenticator(testKey).VerifyJWT())

	t.Run("header token", func(t *testing.T) {
		w := get(r, "/whoami", issue(t, testKey))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1:admin", w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		w := get(r, "/whoami?token="+issue(t, testKey), "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1:admin", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := get(r, "/whoami", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		w := get(r, "/whoami", issue(t, "other-key"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("different user agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("User-Agent", "curl/8.0")
		req.Header.Set("Authorization", "Bearer "+issue(t, testKey))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthenticator_OptionalJWT(t *testing.T) {
	r := newAuthRouter(NewAuthenticator(testKey).OptionalJWT())

	w := get(r, "/whoami", "")
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(r, "/whoami", "garbage")
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(r, "/whoami", issue(t, testKey))
	assert.Equal(t, "u-1:admin", w.Body.String())
}
