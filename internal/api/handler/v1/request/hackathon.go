package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/htmf/hackathon-api/internal/domain"
)

const dateLayout = "2006-01-02"

type CreateHackathonRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date" example:"2024-03-01"`
	Location    string  `json:"location"`
	Type        *string `json:"type"`
	ImageURL    *string `json:"image_url"`
	Deadline    *string `json:"deadline" example:"2024-02-20"`
}

func (req *CreateHackathonRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.ImageURL, is.URL),
		validation.Field(&req.Deadline, validation.Date(dateLayout)),
	)
}

// ToDomain expects Validate to have passed.
func (req *CreateHackathonRequest) ToDomain() domain.Hackathon {
	date, _ := time.Parse(dateLayout, req.Date)
	h := domain.Hackathon{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Type:        req.Type,
		ImageURL:    req.ImageURL,
	}
	if req.Deadline != nil {
		deadline, _ := time.Parse(dateLayout, *req.Deadline)
		h.Deadline = &deadline
	}

	return h
}
