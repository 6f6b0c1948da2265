package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/htmf/hackathon-api/internal/domain"
)

var experienceLevels = []interface{}{"beginner", "intermediate", "advanced"}

// UpdateProfileRequest only carries editable fields. Omitted fields keep
// their current value.
type UpdateProfileRequest struct {
	Name            *string  `json:"name"`
	Institution     *string  `json:"institution"`
	Skills          []string `json:"skills"`
	MobileNumber    *string  `json:"mobile_number"`
	GithubID        *string  `json:"github_id"`
	ExperienceLevel *string  `json:"experience_level"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Institution, validation.Length(0, 200)),
		validation.Field(&req.Skills, validation.Length(0, 50)),
		validation.Field(&req.MobileNumber, is.E164),
		validation.Field(&req.ExperienceLevel, validation.In(experienceLevels...)),
	)
}

func (req *UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:            req.Name,
		Institution:     req.Institution,
		Skills:          req.Skills,
		MobileNumber:    req.MobileNumber,
		GithubID:        req.GithubID,
		ExperienceLevel: req.ExperienceLevel,
	}
}
