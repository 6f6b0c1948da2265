package dao

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(prefixMatcher()))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{})
	require.NoError(t, err)

	return gdb, mock
}

// prefixMatcher compares whitespace-normalized SQL by prefix so tests only
// pin the statement kind and table.
func prefixMatcher() sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		normalize := func(s string) string {
			return strings.Join(strings.Fields(s), " ")
		}

		if strings.HasPrefix(normalize(actual), normalize(expected)) {
			return nil
		}

		return sqlmock.ErrCancelled
	})
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: constraint,
		Message:        `duplicate key value violates unique constraint "` + constraint + `"`,
	}
}

func TestTeamDAO_Insert(t *testing.T) {
	team := Team{
		ID:          "team-1",
		HackathonID: "hack-1",
		CreatedBy:   "u1",
		TeamName:    "Rocket",
		TeamCode:    "ABC123",
		Members:     []string{"u1"},
		MaxMembers:  4,
		CreatedAt:   time.Now(),
	}

	tests := []struct {
		name     string
		mockFunc func(sqlmock.Sqlmock)
		wantErr  error
	}{
		{
			name: "success",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).WillReturnResult(sqlmock.NewResult(1, 1))
				m.ExpectCommit()
			},
		},
		{
			name: "name taken",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).WillReturnError(uniqueViolation(constraintTeamsHackathonName))
				m.ExpectRollback()
			},
			wantErr: ErrTeamNameTaken,
		},
		{
			name: "code taken",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).WillReturnError(uniqueViolation(constraintTeamsHackathonCode))
				m.ExpectRollback()
			},
			wantErr: ErrTeamCodeTaken,
		},
		{
			name: "other error",
			mockFunc: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(`INSERT INTO "teams"`).WillReturnError(errors.New("connection reset"))
				m.ExpectRollback()
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mockFunc(mock)

			got, err := NewTeamDAO(db).Insert(context.Background(), team)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, team.ID, got.ID)
			case errors.Is(tt.wantErr, ErrTeamNameTaken) || errors.Is(tt.wantErr, ErrTeamCodeTaken):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeamDAO_FindByCode_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT * FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewTeamDAO(db).FindByCode(context.Background(), "hack-1", "ZZZZZZ")
	assert.ErrorIs(t, err, ErrTeamNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamDAO_FindJoinable(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "hackathon_id", "team_name", "members", "max_members"}).
		AddRow("team-1", "hack-1", "Rocket", []byte(`["u1","u2"]`), 4)
	mock.ExpectQuery(`SELECT * FROM "teams" WHERE`).
		WillReturnRows(rows)

	teams, err := NewTeamDAO(db).FindJoinable(context.Background(), "hack-1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, []string{"u1", "u2"}, []string(teams[0].Members))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_FindByIDs_EmptySkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)

	users, err := NewUserDAO(db).FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_FindByID(t *testing.T) {
	columns := []string{"id", "email", "name", "role", "skills", "hackathon_participation", "schema_version"}

	t.Run("legacy row is upgraded", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u1", "a@b.c", "Asha", "member", []byte(`["go"]`), []byte(`{"hack-1":{"teamId":"t1"}}`), 0))

		user, err := NewUserDAO(db).FindByID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, UserSchemaVersion, user.SchemaVersion)
		assert.Equal(t, "t1", user.HackathonParticipation.Data()["hack-1"].TeamID)
		assert.Equal(t, []string{"go"}, []string(user.Skills))
	})

	t.Run("newer schema is rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u1", "a@b.c", "Asha", "member", []byte(`[]`), []byte(`{}`), UserSchemaVersion+1))

		_, err := NewUserDAO(db).FindByID(context.Background(), "u1")
		assert.ErrorIs(t, err, ErrUnsupportedSchema)
	})

	t.Run("participation without team is rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u1", "a@b.c", "Asha", "member", []byte(`[]`), []byte(`{"hack-1":{}}`), 1))

		_, err := NewUserDAO(db).FindByID(context.Background(), "u1")
		assert.ErrorIs(t, err, ErrUnsupportedSchema)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewUserDAO(db).FindByID(context.Background(), "u1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserDAO_Insert_EmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(uniqueViolation(constraintUsersEmail))
	mock.ExpectRollback()

	_, err := NewUserDAO(db).Insert(context.Background(), User{ID: "u1", Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationDAO_Insert_DuplicatePending(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "notifications"`).WillReturnError(uniqueViolation(constraintPendingJoinRequests))
	mock.ExpectRollback()

	_, err := NewNotificationDAO(db).Insert(context.Background(), Notification{ID: "n1", RecipientID: "u1"})
	assert.ErrorIs(t, err, ErrJoinRequestPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationDAO_UpdateStatus(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "notifications" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewNotificationDAO(db).UpdateStatus(context.Background(),
			Notification{ID: "n1", RecipientID: "u1", Status: "approved"}, "pending")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved on", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "notifications" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := NewNotificationDAO(db).UpdateStatus(context.Background(),
			Notification{ID: "n1", RecipientID: "u1", Status: "approved"}, "pending")
		assert.ErrorIs(t, err, ErrStatusChanged)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT * FROM "teams"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := NewUnitOfWork(db).Do(context.Background(), func(tx TxDAOs) error {
		_, err := tx.Teams.LockByID(context.Background(), "missing")
		return err
	})
	assert.ErrorIs(t, err, ErrTeamNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "matching constraint",
			err:  uniqueViolation(constraintTeamsHackathonName),
			want: true,
		},
		{
			name: "wrapped by the transaction",
			err:  errors.Join(errors.New("commit"), uniqueViolation(constraintTeamsHackathonCode)),
			want: true,
		},
		{
			name: "other constraint",
			err:  uniqueViolation(constraintTeamsHackathonCode),
		},
		{
			name: "other code",
			err:  &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: constraintTeamsHackathonName},
		},
		{
			name: "driver text only",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_teams_hackathon_name" (SQLSTATE 23505)`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err, constraintTeamsHackathonName))
		})
	}
}
