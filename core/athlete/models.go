package athlete

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Athlete is a student of the swim school. Rows live in the external
// record store's "atletas" collection.
type Athlete struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	IDDocument string `json:"id_document"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`

	// contact email, when one was supplied at registration
	Email     null.String `json:"email,omitempty"`
	BirthDate time.Time   `json:"birth_date"` // UTC

	// set only when the athlete is a minor
	GuardianName       null.String `json:"guardian_name,omitempty"`
	GuardianIDDocument null.String `json:"guardian_id_document,omitempty"`

	MedicalNote null.String `json:"medical_note,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsMinor reports whether the athlete is under 18 at the given time.
func (a Athlete) IsMinor(at time.Time) bool {
	return Age(a.BirthDate, at) < 18
}

// Age computes full years between birth and at.
func Age(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// UpdateAthlete defines what information may be provided to modify an existing Athlete.
type UpdateAthlete struct {
	Name        string      `json:"name"`
	Surname     string      `json:"surname"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	MedicalNote null.String `json:"medical_note"`
}
