package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type UpdateStatusRequest struct {
	Status string `json:"status" example:"approved"`
}

// Validate only requires a value. Whether the status is allowed is decided
// by the notification center.
func (req *UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}

type ReplyRequest struct {
	Reply string `json:"reply"`
}

func (req *ReplyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reply, validation.Required, validation.Length(1, 5000)),
	)
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (req *ContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Message, validation.Required, validation.Length(1, 5000)),
	)
}
