package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Participation is a user's single team assignment for one hackathon.
type Participation struct {
	TeamID   string    `json:"team_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// User is a participant profile.
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Password        string   `json:"-"`
	Name            string   `json:"name"`
	Institution     string   `json:"institution"`
	Role            Role     `json:"role"`
	Skills          []string `json:"skills"`
	MobileNumber    string   `json:"mobile_number,omitempty"`
	GithubID        string   `json:"github_id,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	EmailVerified   bool     `json:"email_verified"`

	// Keyed by hackathon id. At most one entry per hackathon.
	HackathonParticipation map[string]Participation `json:"hackathon_participation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberSummary is what team listings expose about a member.
type MemberSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Institution     string   `json:"institution"`
	Email           string   `json:"email"`
	Skills          []string `json:"skills"`
	GithubID        string   `json:"github_id,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
}

func (u User) Summary() MemberSummary {
	return MemberSummary{
		ID:              u.ID,
		Name:            u.Name,
		Institution:     u.Institution,
		Email:           u.Email,
		Skills:          u.Skills,
		GithubID:        u.GithubID,
		ExperienceLevel: u.ExperienceLevel,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) ParticipationFor(hackathonID string) (Participation, bool) {
	p, ok := u.HackathonParticipation[hackathonID]
	return p, ok
}

func (u *User) Participate(hackathonID, teamID string, at time.Time) error {
	if _, ok := u.HackathonParticipation[hackathonID]; ok {
		return ErrAlreadyOnTeam
	}
	if u.HackathonParticipation == nil {
		u.HackathonParticipation = make(map[string]Participation)
	}
	u.HackathonParticipation[hackathonID] = Participation{TeamID: teamID, JoinedAt: at}

	return nil
}

// ClearParticipation removes the entry for hackathonID only when it points at
// teamID, so that a stale call never detaches the user from another team.
func (u *User) ClearParticipation(hackathonID, teamID string) bool {
	p, ok := u.HackathonParticipation[hackathonID]
	if !ok || p.TeamID != teamID {
		return false
	}
	delete(u.HackathonParticipation, hackathonID)

	return true
}

// ProfileUpdate holds the fields a user may edit on their own profile.
// Participation can only change through team operations.
type ProfileUpdate struct {
	Name            *string
	Institution     *string
	Skills          []string
	MobileNumber    *string
	GithubID        *string
	ExperienceLevel *string
}

func (u *User) Apply(upd ProfileUpdate) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Institution != nil {
		u.Institution = *upd.Institution
	}
	if upd.Skills != nil {
		u.Skills = NormalizeSkills(upd.Skills)
	}
	if upd.MobileNumber != nil {
		u.MobileNumber = *upd.MobileNumber
	}
	if upd.GithubID != nil {
		u.GithubID = *upd.GithubID
	}
	if upd.ExperienceLevel != nil {
		u.ExperienceLevel = *upd.ExperienceLevel
	}
}

// NormalizeSkills trims entries and drops blanks and repeats, keeping the first occurrence order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
