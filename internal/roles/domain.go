package roles

import "time"

// Role is a named permission tier with an active flag.
type Role struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveInput carries the fields accepted by Service.Save. A zero ID creates a role.
type SaveInput struct {
	ID     int64  `json:"id" validate:"gte=0"`
	Name   string `json:"name" validate:"required,max=64"`
	Active *bool  `json:"active" validate:"required"`
}
