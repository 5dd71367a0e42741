package billing

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core"
)

var (
	// errors
	ErrChargeNotFound  = errors.New("charge not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrChargeVoided    = errors.New("charge has been voided")
	ErrChargePaid      = errors.New("charge is already fully paid")
)

type (
	// DebtReportFilter narrows the derived debt aggregate.
	DebtReportFilter struct {
		AthleteID string `query:"athlete_id"`
		PeriodID  string `query:"period_id"`
		OnlyOwing bool   `query:"only_owing"` // balance > 0
	}

	Repository interface {
		CreateCharge(ctx context.Context, c Charge) (Charge, error)
		GetChargeByID(ctx context.Context, id string) (Charge, error)
		QueryChargesByAthlete(ctx context.Context, athleteID string) ([]Charge, error)
		SetChargeStatus(ctx context.Context, id, status string) error

		CreatePayment(ctx context.Context, p Payment) (Payment, error)
		// DeletePayment hard-deletes a row; rollback compensation only.
		DeletePayment(ctx context.Context, id string) error
		QueryPaymentsByCharge(ctx context.Context, chargeID string) ([]Payment, error)

		QueryConcepts(ctx context.Context) ([]Concept, error)
		QueryPeriods(ctx context.Context) ([]Period, error)

		// QueryDebtReport reads the store's derived view; this system never
		// computes the aggregate itself in production.
		QueryDebtReport(ctx context.Context, filter DebtReportFilter) ([]DebtReportRow, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (nc *NewCharge) Validate(validate *validator.Validate) error {
	return validate.Struct(nc)
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Reference = core.CleanString(np.Reference)
	return validate.Struct(np)
}

func (svc *Service) CreateCharge(ctx context.Context, nc NewCharge) (Charge, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCharge(ctx, Charge{
		AthleteID: nc.AthleteID,
		PeriodID:  nc.PeriodID,
		ConceptID: nc.ConceptID,
		Total:     nc.Total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// RecordPayment records a payment against a pending charge and flips the
// charge to PAGADO once the paid sum covers its total.
func (svc *Service) RecordPayment(ctx context.Context, np NewPayment) (Payment, error) {
	charge, err := svc.repo.GetChargeByID(ctx, np.ChargeID)
	if err != nil {
		return Payment{}, err
	}
	switch charge.Status {
	case StatusVoided:
		return Payment{}, core.NewValidationError(ErrChargeVoided)
	case StatusPaid:
		return Payment{}, core.NewValidationError(ErrChargePaid)
	}

	paidAt, err := time.Parse(time.RFC3339, np.PaidAt)
	if err != nil {
		return Payment{}, core.NewValidationError(err, core.FieldError{Field: "paid_at", Error: "invalid date"})
	}
	coverageTo, err := time.Parse(time.RFC3339, np.CoverageTo)
	if err != nil {
		return Payment{}, core.NewValidationError(err, core.FieldError{Field: "coverage_to", Error: "invalid date"})
	}

	reference := np.Reference
	if np.Method == MethodCash {
		reference = CashReference
	}

	p, err := svc.repo.CreatePayment(ctx, Payment{
		ChargeID:     null.StringFrom(charge.ID),
		Amount:       np.Amount,
		Currency:     np.Currency,
		Method:       np.Method,
		Reference:    reference,
		PaidAt:       paidAt.UTC(),
		CoverageFrom: paidAt.UTC(),
		CoverageTo:   coverageTo.UTC(),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Payment{}, pkgerrors.Wrap(err, "recording payment")
	}

	// settle the charge when covered; a failure here leaves the charge
	// PENDIENTE with full payment history intact, which the report surfaces
	if paid, sumErr := svc.sumPayments(ctx, charge.ID); sumErr == nil && paid >= charge.Total {
		if err := svc.repo.SetChargeStatus(ctx, charge.ID, StatusPaid); err != nil {
			return p, pkgerrors.Wrap(err, "settling charge")
		}
	}
	return p, nil
}

func (svc *Service) sumPayments(ctx context.Context, chargeID string) (float64, error) {
	payments, err := svc.repo.QueryPaymentsByCharge(ctx, chargeID)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum, nil
}

// VoidCharge marks a charge ANULADO. Payments already applied stay on record.
func (svc *Service) VoidCharge(ctx context.Context, id string) error {
	if _, err := svc.repo.GetChargeByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.SetChargeStatus(ctx, id, StatusVoided)
}

func (svc *Service) ChargesByAthlete(ctx context.Context, athleteID string) ([]Charge, error) {
	return svc.repo.QueryChargesByAthlete(ctx, athleteID)
}

func (svc *Service) Concepts(ctx context.Context) ([]Concept, error) {
	return svc.repo.QueryConcepts(ctx)
}

func (svc *Service) Periods(ctx context.Context) ([]Period, error) {
	return svc.repo.QueryPeriods(ctx)
}

func (svc *Service) DebtReport(ctx context.Context, filter DebtReportFilter) ([]DebtReportRow, error) {
	return svc.repo.QueryDebtReport(ctx, filter)
}
