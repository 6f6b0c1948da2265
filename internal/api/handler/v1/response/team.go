package response

import "github.com/htmf/hackathon-api/internal/domain"

type CreateTeamResponse struct {
	TeamID   string `json:"team_id"`
	TeamCode string `json:"team_code"`
}

type ParticipationResponse struct {
	HackathonID   string                `json:"hackathon_id"`
	Participation *domain.Participation `json:"participation"`
}

type NotificationIDResponse struct {
	NotificationID string `json:"notification_id"`
}

// FanOutResponse lists the notifications written. Failed counts the
// recipients whose copy could not be written.
type FanOutResponse struct {
	NotificationIDs []string `json:"notification_ids"`
	Failed          int      `json:"failed"`
}
