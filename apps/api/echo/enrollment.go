package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/enrollment"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, jwtmw echo.MiddlewareFunc, s *server) {
	api := enrollmentApi{svc: s.deps.EnrollmentSvc, validate: s.deps.Validate}

	eg := g.Group("/enrollments", jwtmw, staffMiddleware())
	eg.POST("", api.register)
	eg.GET("/:id", api.retrieve)
}

// register runs the whole enrollment write: athlete, enrollment, first
// payment. The response carries the three created ids.
func (api *enrollmentApi) register(ctx echo.Context) error {
	var data enrollment.Registration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}

	var age *int
	if birthDate, err := time.Parse(time.RFC3339, data.BirthDate); err == nil {
		years := athlete.Age(birthDate, time.Now())
		age = &years
	}
	if err := data.Validate(api.validate, age); err != nil {
		return err
	}
	if age == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "birth_date", Error: "invalid date"})
	}

	res, err := api.svc.Register(ctx.Request().Context(), data, age)
	if err != nil {
		return errors.Wrap(err, "registering enrollment")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	enr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding enrollment by ID")
	}
	return ctx.JSON(http.StatusOK, enr)
}
