package repository

import (
	"gorm.io/datatypes"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository/dao"
)

func userDaoToDomain(u dao.User) domain.User {
	participation := make(map[string]domain.Participation, len(u.HackathonParticipation.Data()))
	for hackathonID, p := range u.HackathonParticipation.Data() {
		participation[hackathonID] = domain.Participation{TeamID: p.TeamID, JoinedAt: p.JoinedAt}
	}

	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}

	return domain.User{
		ID:                     u.ID,
		Email:                  u.Email,
		Password:               u.Password,
		Name:                   u.Name,
		Institution:            u.Institution,
		Role:                   domain.Role(u.Role),
		Skills:                 skills,
		MobileNumber:           u.MobileNumber,
		GithubID:               u.GithubID,
		ExperienceLevel:        u.ExperienceLevel,
		EmailVerified:          u.EmailVerified,
		HackathonParticipation: participation,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func userDomainToDao(u domain.User) dao.User {
	return dao.User{
		ID:                     u.ID,
		Email:                  u.Email,
		Password:               u.Password,
		Name:                   u.Name,
		Institution:            u.Institution,
		Role:                   string(u.Role),
		Skills:                 datatypes.JSONSlice[string](u.Skills),
		MobileNumber:           u.MobileNumber,
		GithubID:               u.GithubID,
		ExperienceLevel:        u.ExperienceLevel,
		EmailVerified:          u.EmailVerified,
		HackathonParticipation: datatypes.NewJSONType(participationDomainToDao(u.HackathonParticipation)),
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func participationDomainToDao(m map[string]domain.Participation) map[string]dao.Participation {
	out := make(map[string]dao.Participation, len(m))
	for hackathonID, p := range m {
		out[hackathonID] = dao.Participation{TeamID: p.TeamID, JoinedAt: p.JoinedAt}
	}
	return out
}

func teamDaoToDomain(t dao.Team) domain.Team {
	members := []string(t.Members)
	if members == nil {
		members = []string{}
	}

	return domain.Team{
		ID:            t.ID,
		HackathonID:   t.HackathonID,
		CreatedBy:     t.CreatedBy,
		CreatedByName: t.CreatedByName,
		TeamName:      t.TeamName,
		Members:       members,
		MaxMembers:    t.MaxMembers,
		TeamCode:      t.TeamCode,
		CreatedAt:     t.CreatedAt,
	}
}

func teamDomainToDao(t domain.Team) dao.Team {
	return dao.Team{
		ID:            t.ID,
		HackathonID:   t.HackathonID,
		CreatedBy:     t.CreatedBy,
		CreatedByName: t.CreatedByName,
		TeamName:      t.TeamName,
		TeamCode:      t.TeamCode,
		Members:       datatypes.JSONSlice[string](t.Members),
		MaxMembers:    t.MaxMembers,
		CreatedAt:     t.CreatedAt,
	}
}

func teamsDaoToDomain(rows []dao.Team) []domain.Team {
	teams := make([]domain.Team, 0, len(rows))
	for _, t := range rows {
		teams = append(teams, teamDaoToDomain(t))
	}
	return teams
}

func interestDaoToDomain(i dao.Interest) domain.Interest {
	invites := make([]domain.TeamInvite, 0, len(i.Invites))
	for _, inv := range i.Invites {
		invites = append(invites, domain.TeamInvite{
			TeamID:     inv.TeamID,
			SenderName: inv.SenderName,
			Status:     domain.InviteStatus(inv.Status),
			SentAt:     inv.SentAt,
		})
	}

	return domain.Interest{
		HackathonID: i.HackathonID,
		UserID:      i.UserID,
		Name:        i.Name,
		Interested:  i.Interested,
		Invites:     invites,
		UpdatedAt:   i.UpdatedAt,
	}
}

func interestDomainToDao(i domain.Interest) dao.Interest {
	invites := make(datatypes.JSONSlice[dao.Invite], 0, len(i.Invites))
	for _, inv := range i.Invites {
		invites = append(invites, dao.Invite{
			TeamID:     inv.TeamID,
			SenderName: inv.SenderName,
			Status:     string(inv.Status),
			SentAt:     inv.SentAt,
		})
	}

	return dao.Interest{
		HackathonID: i.HackathonID,
		UserID:      i.UserID,
		Name:        i.Name,
		Interested:  i.Interested,
		Invites:     invites,
		UpdatedAt:   i.UpdatedAt,
	}
}
