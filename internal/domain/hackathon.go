package domain

import "time"

type Hackathon struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Location    string     `json:"location"`
	Type        *string    `json:"type"`
	ImageURL    *string    `json:"image_url"`
	Deadline    *time.Time `json:"deadline"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
