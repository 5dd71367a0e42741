package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dvergarav/acuademia/core/athlete"
)

type athleteApi struct {
	svc *athlete.Service
}

func registerAthleteAPI(g *echo.Group, jwtmw echo.MiddlewareFunc, s *server) {
	api := athleteApi{svc: s.deps.AthleteSvc}

	ag := g.Group("/athletes", jwtmw, staffMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.deactivate)
}

func (api *athleteApi) query(ctx echo.Context) error {
	athletes, err := api.svc.QueryActive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying athletes")
	}
	if athletes == nil {
		athletes = []athlete.Athlete{}
	}
	return ctx.JSON(http.StatusOK, athletes)
}

func (api *athleteApi) retrieve(ctx echo.Context) error {
	ath, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == athlete.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding athlete by ID")
	}
	return ctx.JSON(http.StatusOK, ath)
}

func (api *athleteApi) update(ctx echo.Context) error {
	var data athlete.UpdateAthlete
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAthlete")
	}

	ath, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == athlete.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating athlete")
	}
	return ctx.JSON(http.StatusOK, ath)
}

func (api *athleteApi) deactivate(ctx echo.Context) error {
	if err := api.svc.Deactivate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == athlete.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deactivating athlete")
	}
	return ctx.NoContent(http.StatusNoContent)
}
