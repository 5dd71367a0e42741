package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dvergarav/acuademia/core/billing"
)

type billingApi struct {
	svc      *billing.Service
	validate *validator.Validate
}

func registerBillingAPI(g *echo.Group, jwtmw echo.MiddlewareFunc, s *server) {
	api := billingApi{svc: s.deps.BillingSvc, validate: s.deps.Validate}

	bg := g.Group("/billing", jwtmw, staffMiddleware())
	bg.POST("/charges", api.createCharge)
	bg.GET("/charges", api.queryCharges)
	bg.POST("/charges/:id/void", api.voidCharge, adminMiddleware())
	bg.POST("/payments", api.recordPayment)
	bg.GET("/concepts", api.queryConcepts)
	bg.GET("/periods", api.queryPeriods)
	bg.GET("/debt-report", api.debtReport)
}

func (api *billingApi) createCharge(ctx echo.Context) error {
	var data billing.NewCharge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCharge")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	charge, err := api.svc.CreateCharge(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating charge")
	}
	return ctx.JSON(http.StatusCreated, charge)
}

func (api *billingApi) queryCharges(ctx echo.Context) error {
	athleteID := ctx.QueryParam("athlete_id")
	if athleteID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "athlete_id is required")
	}

	charges, err := api.svc.ChargesByAthlete(ctx.Request().Context(), athleteID)
	if err != nil {
		return errors.Wrap(err, "querying charges")
	}
	if charges == nil {
		charges = []billing.Charge{}
	}
	return ctx.JSON(http.StatusOK, charges)
}

func (api *billingApi) voidCharge(ctx echo.Context) error {
	if err := api.svc.VoidCharge(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == billing.ErrChargeNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "voiding charge")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "charge voided"})
}

func (api *billingApi) recordPayment(ctx echo.Context) error {
	var data billing.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	payment, err := api.svc.RecordPayment(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == billing.ErrChargeNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, payment)
}

func (api *billingApi) queryConcepts(ctx echo.Context) error {
	concepts, err := api.svc.Concepts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying concepts")
	}
	if concepts == nil {
		concepts = []billing.Concept{}
	}
	return ctx.JSON(http.StatusOK, concepts)
}

func (api *billingApi) queryPeriods(ctx echo.Context) error {
	periods, err := api.svc.Periods(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}
	if periods == nil {
		periods = []billing.Period{}
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *billingApi) debtReport(ctx echo.Context) error {
	filter := billing.DebtReportFilter{
		AthleteID: ctx.QueryParam("athlete_id"),
		PeriodID:  ctx.QueryParam("period_id"),
		OnlyOwing: ctx.QueryParam("only_owing") == "true",
	}

	rows, err := api.svc.DebtReport(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying debt report")
	}
	if rows == nil {
		rows = []billing.DebtReportRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}
