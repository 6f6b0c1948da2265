package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmf/hackathon-api/internal/domain"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and assigns member role", func(t *testing.T) {
		store := newMemStore()
		svc := NewAuthService(memUserRepo{store}, "", []string{"Root@Example.com"})
		svc.now = func() time.Time { return fixedNow }

		user, err := svc.Signup(ctx, domain.User{Email: " Bob@Example.com ", Password: "Secret123!", Name: "Bob", Skills: []string{"go", " ", "sql"}})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "bob@example.com", user.Email)
		assert.NotEqual(t, "Secret123!", user.Password)
		assert.Equal(t, domain.RoleMember, user.Role)
		assert.Equal(t, []string{"go", "sql"}, user.Skills)
		assert.Empty(t, user.HackathonParticipation)
		assert.Equal(t, fixedNow, user.CreatedAt)

		logged, err := svc.Login(ctx, "BOB@example.com", "Secret123!")
		require.NoError(t, err)
		assert.Equal(t, user.ID, logged.ID)

		_, err = svc.Login(ctx, "bob@example.com", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)

		_, err = svc.Login(ctx, "nobody@example.com", "Secret123!")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("configured admin email", func(t *testing.T) {
		svc := NewAuthService(memUserRepo{newMemStore()}, "", []string{"Root@Example.com"})

		user, err := svc.Signup(ctx, domain.User{Email: "root@example.com", Password: "Secret123!"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("email already used", func(t *testing.T) {
		svc := NewAuthService(memUserRepo{newMemStore()}, "", nil)
		_, err := svc.Signup(ctx, domain.User{Email: "bob@example.com", Password: "Secret123!"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, domain.User{Email: "bob@example.com", Password: "Secret123!"})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})

	t.Run("allowed domain", func(t *testing.T) {
		svc := NewAuthService(memUserRepo{newMemStore()}, "@uni.edu", nil)

		_, err := svc.Signup(ctx, domain.User{Email: "bob@example.com", Password: "Secret123!"})
		assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Signup(ctx, domain.User{Email: "bob@UNI.edu", Password: "Secret123!"})
		assert.NoError(t, err)
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser("alice", "Alice", domain.RoleMember)
	f.store.addUser("root", "Root", domain.RoleAdmin)
	createTeam(t, f, "alice", "Rocket")

	name := "Alice Liddell"
	user, err := f.users.UpdateProfile(ctx, "alice", domain.ProfileUpdate{Name: &name, Skills: []string{"rust"}})
	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
	assert.Equal(t, []string{"rust"}, user.Skills)

	p, err := f.users.GetParticipation(ctx, "alice", "hack-1")
	require.NoError(t, err)
	require.NotNil(t, p)

	p, err = f.users.GetParticipation(ctx, "alice", "hack-2")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = f.users.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	admins, err := f.users.AdminIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, admins)
}

func TestHackathonService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewHackathonService(memHackathonRepo{store})

	_, err := svc.CreateHackathon(ctx, domain.Session{UserID: "bob", Role: domain.RoleMember}, domain.Hackathon{Title: "X"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	h, err := svc.CreateHackathon(ctx, domain.Session{UserID: "root", Role: domain.RoleAdmin}, domain.Hackathon{Title: "Spring Hack"})
	require.NoError(t, err)
	assert.Equal(t, "root", h.CreatedBy)

	got, err := svc.GetHackathon(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Hack", got.Title)

	_, err = svc.GetHackathon(ctx, "missing")
	assert.ErrorIs(t, err, ErrHackathonNotFound)

	all, err := svc.ListHackathons(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
