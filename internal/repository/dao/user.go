package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSchemaVersion is bumped whenever the JSON shape of a user row changes.
// Rows written before versioning carry 0 and are read as version 1.
const UserSchemaVersion = 1

type Participation struct {
	TeamID   string    `json:"teamId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type User struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name            string `gorm:"not null"`
	Institution     string
	Role            string `gorm:"not null;index"`
	Skills          datatypes.JSONSlice[string]
	MobileNumber    string
	GithubID        string
	ExperienceLevel string
	EmailVerified   bool `gorm:"not null"`

	HackathonParticipation datatypes.JSONType[map[string]Participation]
	SchemaVersion          int `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// check validates a row read from the database before it is trusted.
func (u *User) check() error {
	switch {
	case u.SchemaVersion == 0:
		u.SchemaVersion = UserSchemaVersion
	case u.SchemaVersion > UserSchemaVersion:
		return fmt.Errorf("user %s has version %d: %w", u.ID, u.SchemaVersion, ErrUnsupportedSchema)
	}
	for hackathonID, p := range u.HackathonParticipation.Data() {
		if p.TeamID == "" {
			return fmt.Errorf("user %s participation for %s has no team: %w", u.ID, hackathonID, ErrUnsupportedSchema)
		}
	}

	return nil
}

func checkAll(users []User) error {
	for i := range users {
		if err := users[i].check(); err != nil {
			return err
		}
	}
	return nil
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	user.SchemaVersion = UserSchemaVersion
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, constraintUsersEmail) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	var user User
	result := d.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, user.check()
}

// FindByIDs returns the users in one IN query. An empty id list returns
// nothing without touching the database.
func (d *UserDAO) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}

	var users []User
	result := d.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, checkAll(users)
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, user.check()
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	result := d.db.WithContext(ctx).Where("role = ?", role).Order("created_at").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, checkAll(users)
}

// UpdateProfile writes the editable profile columns only.
func (d *UserDAO) UpdateProfile(ctx context.Context, user User) error {
	result := d.db.WithContext(ctx).Model(&User{ID: user.ID}).
		Select("name", "institution", "skills", "mobile_number", "github_id", "experience_level", "updated_at").
		Updates(&user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// LockByID reads the user with a row lock. It must run inside a transaction.
func (d *UserDAO) LockByID(ctx context.Context, id string) (User, error) {
	var user User
	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, user.check()
}

// LockByIDs locks the users in id order so that concurrent transactions
// acquire them in the same sequence. Missing ids are skipped.
func (d *UserDAO) LockByIDs(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}

	var users []User
	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, checkAll(users)
}

func (d *UserDAO) UpdateParticipation(ctx context.Context, id string, participation map[string]Participation) error {
	if participation == nil {
		participation = map[string]Participation{}
	}

	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"hackathon_participation": datatypes.NewJSONType(participation),
		"schema_version":          UserSchemaVersion,
		"updated_at":              time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
