package billing

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Charge statuses as stored ("cargos.estado").
const (
	StatusPending = "PENDIENTE"
	StatusPaid    = "PAGADO"
	StatusVoided  = "ANULADO"
)

// Currencies accepted on payments ("pagos.type").
const (
	CurrencyUSD = "USD"
	CurrencyBS  = "BS"
)

// Payment methods.
const (
	MethodCash     = "efectivo"
	MethodTransfer = "transferencia"
	MethodMobile   = "pago_movil"

	// CashReference is recorded in place of a bank reference for cash payments.
	CashReference = "EFECTIVO"
)

type (
	// Concept is a billing concept ("conceptos"): what a charge is for.
	Concept struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"` // mensual | opcional
	}

	// Period is a billing period ("periodos").
	Period struct {
		ID    string `json:"id"`
		Label string `json:"label"` // e.g. "2026-03"
	}

	// Charge is an amount owed by an athlete for a concept within a period
	// ("cargos").
	Charge struct {
		ID        string    `json:"id"`
		AthleteID string    `json:"athlete_id"`
		PeriodID  string    `json:"period_id"`
		ConceptID string    `json:"concept_id"`
		Total     float64   `json:"total"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	// Payment is a recorded payment ("pagos"). It satisfies either a Charge
	// or, for payments recorded at enrollment time, the Enrollment directly.
	Payment struct {
		ID           string      `json:"id"`
		ChargeID     null.String `json:"charge_id,omitempty"`
		EnrollmentID null.String `json:"enrollment_id,omitempty"`
		Amount       float64     `json:"amount"`
		Currency     string      `json:"currency"`
		Method       string      `json:"method"`
		Reference    string      `json:"reference"`
		PaidAt       time.Time   `json:"paid_at"`       // UTC
		CoverageFrom time.Time   `json:"coverage_from"` // UTC
		CoverageTo   time.Time   `json:"coverage_to"`   // UTC
		CreatedAt    time.Time   `json:"created_at"`    // UTC
	}

	// DebtReportRow is the derived per-charge aggregate the store's view
	// engine computes (total owed vs. sum paid). Read-only.
	DebtReportRow struct {
		ChargeID  string  `json:"charge_id"`
		AthleteID string  `json:"athlete_id"`
		PeriodID  string  `json:"period_id"`
		ConceptID string  `json:"concept_id"`
		Total     float64 `json:"total"`
		Paid      float64 `json:"paid"`
		Balance   float64 `json:"balance"`
	}
)

// NewCharge contains information needed to create a new Charge.
type NewCharge struct {
	AthleteID string  `json:"athlete_id" validate:"required"`
	PeriodID  string  `json:"period_id" validate:"required"`
	ConceptID string  `json:"concept_id" validate:"required"`
	Total     float64 `json:"total" validate:"required,gt=0"`
}

// NewPayment contains information needed to record a payment against a Charge.
type NewPayment struct {
	ChargeID   string  `json:"charge_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Currency   string  `json:"currency" validate:"required,oneof=USD BS"`
	Method     string  `json:"method" validate:"required,oneof=efectivo transferencia pago_movil"`
	Reference  string  `json:"reference"`
	PaidAt     string  `json:"paid_at" validate:"required"`     // RFC 3339 date
	CoverageTo string  `json:"coverage_to" validate:"required"` // RFC 3339 date
}
