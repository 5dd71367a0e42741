package enrollment

import "time"

type (
	// Enrollment (matrícula) is the active link between one Athlete and one
	// Class ("matriculas" collection). Soft-deactivated when its class is.
	Enrollment struct {
		ID         string    `json:"id"`
		AthleteID  string    `json:"athlete_id"`
		ClassID    string    `json:"class_id"`
		IsActive   bool      `json:"is_active"`
		EnrolledAt time.Time `json:"enrolled_at"` // UTC
		CreatedAt  time.Time `json:"created_at"`  // UTC
		UpdatedAt  time.Time `json:"updated_at"`  // UTC
	}

	// Result carries the identifiers created by a successful registration.
	Result struct {
		AthleteID    string `json:"athlete_id"`
		EnrollmentID string `json:"enrollment_id"`
		PaymentID    string `json:"payment_id"`
	}
)

// Registration is the finalized enrollment form: personal data, guardian data
// when the athlete is a minor, the selected class and the initial payment.
// The caller computes the athlete's age from the birth date before submitting.
type Registration struct {
	Name        string `json:"name" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	IDDocType   string `json:"id_doc_type" validate:"required,oneof=V E"`
	IDDocNumber string `json:"id_doc_number" validate:"required,numeric"`
	BirthDate   string `json:"birth_date" validate:"required"` // RFC 3339 date
	PhoneCode   string `json:"phone_code"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`

	// guardian block, required when the athlete is a minor
	GuardianName        string `json:"guardian_name"`
	GuardianSurname     string `json:"guardian_surname"`
	GuardianIDDocType   string `json:"guardian_id_doc_type" validate:"omitempty,oneof=V E"`
	GuardianIDDocNumber string `json:"guardian_id_doc_number" validate:"omitempty,numeric"`
	GuardianPhoneCode   string `json:"guardian_phone_code"`
	GuardianPhoneNumber string `json:"guardian_phone_number"`

	HasMedicalCondition bool   `json:"has_medical_condition"`
	MedicalNote         string `json:"medical_note"`

	ClassID string `json:"class_id"`

	Currency      string  `json:"currency" validate:"required,oneof=USD BS"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=efectivo transferencia pago_movil"`
	PaymentRef    string  `json:"payment_ref"`
	PaymentDate   string  `json:"payment_date"` // RFC 3339 date; also coverage start
	CoverageTo    string  `json:"coverage_to"`  // RFC 3339 date
	PaymentAmount float64 `json:"payment_amount" validate:"gte=0"`
}

// IDDocument joins the document type prefix with its number (V-12345678).
func (r Registration) IDDocument() string {
	return r.IDDocType + "-" + r.IDDocNumber
}

// GuardianIDDocument joins the guardian's document type prefix with its number.
func (r Registration) GuardianIDDocument() string {
	return r.GuardianIDDocType + "-" + r.GuardianIDDocNumber
}

// Phone joins the athlete's phone code with its number (0414-1234567).
func (r Registration) Phone() string {
	return r.PhoneCode + "-" + r.PhoneNumber
}

// GuardianPhone joins the guardian's phone code with its number.
func (r Registration) GuardianPhone() string {
	return r.GuardianPhoneCode + "-" + r.GuardianPhoneNumber
}
