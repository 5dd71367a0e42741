package enrollment

import (
	"github.com/go-playground/validator/v10"

	"github.com/dvergarav/acuademia/core"
)

var (
	guardianRequiredText = "guardian data is required for a minor"
	phoneRequiredText    = "a contact phone is required"
)

// Validate cleans and checks the form's shape. Age-dependent requirements
// (guardian block for minors) need the pre-computed age, so they live here
// rather than in struct tags.
func (r *Registration) Validate(validate *validator.Validate, age *int) error {
	r.Name = core.CleanString(r.Name)
	r.Surname = core.CleanString(r.Surname)
	r.IDDocNumber = core.CleanString(r.IDDocNumber)
	r.Address = core.CleanString(r.Address)
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.GuardianName = core.CleanString(r.GuardianName)
	r.GuardianSurname = core.CleanString(r.GuardianSurname)
	r.GuardianIDDocNumber = core.CleanString(r.GuardianIDDocNumber)
	r.MedicalNote = core.CleanString(r.MedicalNote)
	r.PaymentRef = core.CleanString(r.PaymentRef)

	if err := validate.Struct(r); err != nil {
		return err
	}

	if age != nil && *age < 18 {
		var flds []core.FieldError
		if r.GuardianName == "" {
			flds = append(flds, core.FieldError{Field: "guardian_name", Error: guardianRequiredText})
		}
		if r.GuardianIDDocNumber == "" {
			flds = append(flds, core.FieldError{Field: "guardian_id_doc_number", Error: guardianRequiredText})
		}
		if r.GuardianPhoneNumber == "" {
			flds = append(flds, core.FieldError{Field: "guardian_phone_number", Error: phoneRequiredText})
		}
		if len(flds) > 0 {
			return core.NewValidationError(nil, flds...)
		}
	} else if r.PhoneNumber == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "phone_number", Error: phoneRequiredText})
	}
	return nil
}
