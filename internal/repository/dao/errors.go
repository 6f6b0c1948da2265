package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/htmf/hackathon-api/internal/domain"
)

var (
	ErrUserEmailExists      = errors.New("user already exists")
	ErrUserNotFound         = domain.ErrUserNotFound
	ErrUnsupportedSchema    = errors.New("unsupported user schema version")
	ErrHackathonNotFound    = domain.ErrHackathonNotFound
	ErrTeamNotFound         = domain.ErrTeamNotFound
	ErrTeamNameTaken        = domain.ErrTeamNameTaken
	ErrTeamCodeTaken        = errors.New("team code already used in this hackathon")
	ErrNotificationNotFound = domain.ErrNotificationNotFound
	ErrJoinRequestPending   = domain.ErrJoinRequestPending
	ErrStatusChanged        = errors.New("notification status changed concurrently")
	ErrInterestNotFound     = errors.New("interest not found")
)

const (
	constraintUsersEmail          = "uni_users_email"
	constraintTeamsHackathonName  = "idx_teams_hackathon_name"
	constraintTeamsHackathonCode  = "idx_teams_hackathon_code"
	constraintPendingJoinRequests = "idx_notifications_pending_join_request"
)

// isUniqueViolation reports whether err is a postgres unique violation on the
// given constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
