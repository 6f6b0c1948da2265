package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/htmf/hackathon-api/internal/api/middleware"
	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Unimplemented methods panic through the embedded nil interface.
type stubUserService struct {
	UserService
	users    map[string]domain.User
	adminIDs []string
}

func (s *stubUserService) GetUser(_ context.Context, id string) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) AdminIDs(context.Context) ([]string, error) {
	return s.adminIDs, nil
}

func newStubUsers(users ...domain.User) *stubUserService {
	s := &stubUserService{users: map[string]domain.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func withSession(session *domain.Session) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if session != nil {
			middleware.SetSession(ctx, *session)
		}
		ctx.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
