package domain

import "time"

// The functions below are the membership rules. Callers load the team and
// the affected profiles inside one transaction, apply a rule, and persist
// whatever it changed. Nothing is mutated when a rule returns an error.

// ApplyCreate records the creator's participation in a freshly built team.
func ApplyCreate(team *Team, creator *User) error {
	if team.TeamName == "" {
		return ErrEmptyTeamName
	}
	if _, ok := creator.ParticipationFor(team.HackathonID); ok {
		return ErrAlreadyOnTeam
	}

	return creator.Participate(team.HackathonID, team.ID, team.CreatedAt)
}

func ApplyJoin(team *Team, user *User, at time.Time) error {
	if team.IsFull() {
		return ErrTeamFull
	}
	if _, ok := user.ParticipationFor(team.HackathonID); ok {
		return ErrAlreadyOnTeam
	}
	if err := team.AddMember(user.ID); err != nil {
		return err
	}

	return user.Participate(team.HackathonID, team.ID, at)
}

// ApplyLeave reports whether anything changed. Leaving a team the user is no
// longer part of is a no-op.
func ApplyLeave(team *Team, user *User) (bool, error) {
	if team.CreatedBy == user.ID {
		return false, ErrCreatorCannotLeave
	}
	if p, ok := user.ParticipationFor(team.HackathonID); ok && p.TeamID != team.ID {
		return false, ErrNotTeamMember
	}

	removed := team.RemoveMember(user.ID)
	cleared := user.ClearParticipation(team.HackathonID, team.ID)

	return removed || cleared, nil
}

// ApplyDelete clears the participation of every given member that still
// points at team and returns those whose profile changed.
func ApplyDelete(team Team, requesterID string, members []*User) ([]*User, error) {
	if team.CreatedBy != requesterID {
		return nil, ErrNotCreator
	}

	changed := make([]*User, 0, len(members))
	for _, m := range members {
		if m.ClearParticipation(team.HackathonID, team.ID) {
			changed = append(changed, m)
		}
	}

	return changed, nil
}
