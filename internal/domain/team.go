package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"
	"time"
)

const (
	MaxTeamMembers = 4
	TeamCodeLength = 6

	teamCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type Team struct {
	ID            string    `json:"id"`
	HackathonID   string    `json:"hackathon_id"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	TeamName      string    `json:"team_name"`
	Members       []string  `json:"members"`
	MaxMembers    int       `json:"max_members"`
	TeamCode      string    `json:"team_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTeam returns a team whose only member is its creator.
func NewTeam(id, hackathonID, creatorID, creatorName, teamName, code string, at time.Time) Team {
	return Team{
		ID:            id,
		HackathonID:   hackathonID,
		CreatedBy:     creatorID,
		CreatedByName: creatorName,
		TeamName:      teamName,
		Members:       []string{creatorID},
		MaxMembers:    MaxTeamMembers,
		TeamCode:      code,
		CreatedAt:     at,
	}
}

func (t Team) capacity() int {
	if t.MaxMembers <= 0 {
		return MaxTeamMembers
	}
	return t.MaxMembers
}

func (t Team) IsFull() bool {
	return len(t.Members) >= t.capacity()
}

func (t Team) SeatsLeft() int {
	if left := t.capacity() - len(t.Members); left > 0 {
		return left
	}
	return 0
}

func (t Team) HasMember(userID string) bool {
	return slices.Contains(t.Members, userID)
}

// AddMember has set-union semantics: adding a present member is a no-op.
func (t *Team) AddMember(userID string) error {
	if t.HasMember(userID) {
		return nil
	}
	if t.IsFull() {
		return ErrTeamFull
	}
	t.Members = append(t.Members, userID)

	return nil
}

func (t *Team) RemoveMember(userID string) bool {
	i := slices.Index(t.Members, userID)
	if i < 0 {
		return false
	}
	t.Members = slices.Delete(t.Members, i, i+1)

	return true
}

// GenerateTeamCode returns TeamCodeLength random characters from [0-9A-Z].
func GenerateTeamCode() (string, error) {
	size := big.NewInt(int64(len(teamCodeAlphabet)))
	code := make([]byte, TeamCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		code[i] = teamCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

func IsTeamCode(code string) bool {
	if len(code) != TeamCodeLength {
		return false
	}
	for _, c := range code {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
