package class

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/dvergarav/acuademia/core"
)

var (
	dayOfWeekTag  = "dayofweek"
	dayOfWeekText = "must be a day of week (LUNES..DOMINGO)"
	allDays       = map[string]bool{
		DayLunes:     true,
		DayMartes:    true,
		DayMiercoles: true,
		DayJueves:    true,
		DayViernes:   true,
		DaySabado:    true,
		DayDomingo:   true,
	}

	timeBlockTag   = "timeblock"
	timeBlockText  = "must be a time block like 08:00"
	timeBlockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// InitValidators registers the class validators against the app validator.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(dayOfWeekTag, dayOfWeekValidation)
	core.RegisterCustomTranslation(validate, translator, dayOfWeekTag, dayOfWeekText)

	_ = validate.RegisterValidation(timeBlockTag, timeBlockValidation)
	core.RegisterCustomTranslation(validate, translator, timeBlockTag, timeBlockText)
}

func dayOfWeekValidation(fl validator.FieldLevel) bool {
	return allDays[fl.Field().String()]
}

func timeBlockValidation(fl validator.FieldLevel) bool {
	return timeBlockRegex.MatchString(fl.Field().String())
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	return validate.Struct(uc)
}
