package coach

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Coach is a staff member responsible for one or more classes
// ("entrenadores" collection in the record store).
type Coach struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Surname    string      `json:"surname"`
	IDDocument string      `json:"id_document"`
	Phone      string      `json:"phone"`
	Address    null.String `json:"address,omitempty"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at"` // UTC
}

// NewCoach contains information needed to create a new Coach.
// IDDocument and Phone arrive pre-joined ("V-12345678", "0414-1234567");
// the authoring form composes them from their type/code prefixes.
type NewCoach struct {
	Name       string `json:"name" validate:"required"`
	Surname    string `json:"surname" validate:"required"`
	IDDocument string `json:"id_document" validate:"required,iddoc"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address"`
}

// UpdateCoach defines what information may be provided to modify an existing Coach.
type UpdateCoach struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
