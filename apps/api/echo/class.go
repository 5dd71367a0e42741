package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/enrollment"
)

type classApi struct {
	svc       *class.Service
	enrollSvc *enrollment.Service
	validate  *validator.Validate
}

type scheduleRequest struct {
	Schedule []class.SlotInput `json:"schedule" validate:"required,min=1,dive"`
}

func (r *scheduleRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func registerClassAPI(g *echo.Group, jwtmw echo.MiddlewareFunc, s *server) {
	api := classApi{
		svc:       s.deps.ClassSvc,
		enrollSvc: s.deps.EnrollmentSvc,
		validate:  s.deps.Validate,
	}

	cg := g.Group("/classes", jwtmw, staffMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/schedule", api.schedule)
	cg.GET("/:id/enrollments", api.enrollments)

	// mutations are admin only
	cg.POST("", api.create, adminMiddleware())
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.PUT("/:id/schedule", api.syncSchedule, adminMiddleware())
	cg.DELETE("/:id", api.deactivate, adminMiddleware())
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.CreateWithSchedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classApi) query(ctx echo.Context) error {
	var filter class.QueryFilter
	if raw := ctx.QueryParam("is_active"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &val
		}
	}
	if raw := ctx.QueryParam("age"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			active := true
			filter.IsActive = &active
			filter.MaxAge = &val
		}
	}
	filter.CoachID = ctx.QueryParam("coach_id")

	classes, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) schedule(ctx echo.Context) error {
	entries, err := api.svc.Schedule(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching class schedule")
	}
	if entries == nil {
		entries = []class.ScheduleEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *classApi) enrollments(ctx echo.Context) error {
	activeOnly := true
	if raw := ctx.QueryParam("active_only"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			activeOnly = val
		}
	}

	enrollments, err := api.enrollSvc.QueryByClass(ctx.Request().Context(), ctx.Param("id"), activeOnly)
	if err != nil {
		return errors.Wrap(err, "querying class enrollments")
	}
	if enrollments == nil {
		enrollments = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *classApi) update(ctx echo.Context) error {
	var data class.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) syncSchedule(ctx echo.Context) error {
	var data scheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to scheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	classID := ctx.Param("id")
	if _, err := api.svc.GetByID(ctx.Request().Context(), classID); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}

	if err := api.svc.SyncSchedule(ctx.Request().Context(), classID, data.Schedule); err != nil {
		return errors.Wrap(err, "syncing class schedule")
	}

	entries, err := api.svc.Schedule(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "fetching class schedule")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *classApi) deactivate(ctx echo.Context) error {
	if err := api.svc.Deactivate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deactivating class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
