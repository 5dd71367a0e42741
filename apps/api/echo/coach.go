package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dvergarav/acuademia/core/coach"
)

type coachApi struct {
	svc      *coach.Service
	validate *validator.Validate
}

type coachStatusRequest struct {
	Active bool `json:"active"`
}

func registerCoachAPI(g *echo.Group, jwtmw echo.MiddlewareFunc, s *server) {
	api := coachApi{svc: s.deps.CoachSvc, validate: s.deps.Validate}

	cg := g.Group("/coaches", jwtmw, staffMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// mutations are admin only
	cg.POST("", api.create, adminMiddleware())
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.PATCH("/:id/status", api.setStatus, adminMiddleware())
}

func (api *coachApi) create(ctx echo.Context) error {
	var data coach.NewCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCoach")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating coach")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *coachApi) query(ctx echo.Context) error {
	var isActive *bool
	if raw := ctx.QueryParam("is_active"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err == nil {
			isActive = &val
		}
	}

	coaches, err := api.svc.Query(ctx.Request().Context(), isActive)
	if err != nil {
		return errors.Wrap(err, "querying coaches")
	}
	if coaches == nil {
		coaches = []coach.Coach{}
	}
	return ctx.JSON(http.StatusOK, coaches)
}

func (api *coachApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding coach by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *coachApi) update(ctx echo.Context) error {
	var data coach.UpdateCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCoach")
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating coach")
	}
	return ctx.JSON(http.StatusOK, c)
}

// setStatus toggles the coach's active flag. Deactivation fails with a field
// error while the coach still has active classes.
func (api *coachApi) setStatus(ctx echo.Context) error {
	var data coachStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to coachStatusRequest")
	}

	if err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"), data.Active); err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "coach status updated"})
}
