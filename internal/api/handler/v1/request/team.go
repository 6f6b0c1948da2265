package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/htmf/hackathon-api/internal/domain"
)

type CreateTeamRequest struct {
	TeamName string `json:"team_name"`
}

func (req *CreateTeamRequest) Validate() error {
	req.TeamName = strings.TrimSpace(req.TeamName)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.TeamName, validation.Required, validation.Length(1, 60)),
	)
}

type JoinByCodeRequest struct {
	TeamCode string `json:"team_code"`
}

func (req *JoinByCodeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TeamCode, validation.Required, validation.Length(domain.TeamCodeLength, domain.TeamCodeLength), is.Alphanumeric),
	)
}

type SendInviteRequest struct {
	TeamID      string `json:"team_id"`
	RecipientID string `json:"recipient_id"`
}

func (req *SendInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TeamID, validation.Required),
		validation.Field(&req.RecipientID, validation.Required),
	)
}

type RespondInviteRequest struct {
	Status string `json:"status" example:"accepted"`
}

func (req *RespondInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(string(domain.InviteAccepted), string(domain.InviteDeclined))),
	)
}
