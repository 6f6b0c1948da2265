package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_AddMemberIsSetUnion(t *testing.T) {
	team := newTestTeam()

	require.NoError(t, team.AddMember("u1"))
	require.NoError(t, team.AddMember("u1"))
	assert.Equal(t, []string{"creator", "u1"}, team.Members)
	assert.Equal(t, 2, team.SeatsLeft())

	require.NoError(t, team.AddMember("u2"))
	require.NoError(t, team.AddMember("u3"))
	assert.True(t, team.IsFull())
	assert.ErrorIs(t, team.AddMember("u4"), ErrTeamFull)
	// Present members are still a no-op on a full team.
	assert.NoError(t, team.AddMember("u3"))
}

func TestTeam_RemoveMember(t *testing.T) {
	team := newTestTeam()
	require.NoError(t, team.AddMember("u1"))

	assert.True(t, team.RemoveMember("u1"))
	assert.False(t, team.RemoveMember("u1"))
	assert.Equal(t, []string{"creator"}, team.Members)
}

func TestGenerateTeamCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateTeamCode()
		require.NoError(t, err)
		assert.True(t, IsTeamCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 40)
}

func TestIsTeamCode(t *testing.T) {
	assert.True(t, IsTeamCode("A1B2C3"))
	assert.False(t, IsTeamCode("a1b2c3"))
	assert.False(t, IsTeamCode("A1B2C"))
	assert.False(t, IsTeamCode("A1B2C3D"))
	assert.False(t, IsTeamCode("A1-2C3"))
}
