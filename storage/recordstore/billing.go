package recordstore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core/billing"
)

const (
	chargeCollection  = "cargos"
	paymentCollection = "pagos"
	conceptCollection = "conceptos"
	periodCollection  = "periodos"

	// debtReportCollection is a read-only view computed by the store.
	debtReportCollection = "reporte_deudas"
)

type chargeRecord struct {
	ID        string  `json:"id,omitempty"`
	AthleteID string  `json:"atleta_id"`
	PeriodID  string  `json:"periodo_id"`
	ConceptID string  `json:"concepto_id"`
	Total     float64 `json:"monto_total"`
	Status    string  `json:"estado"`
	Created   string  `json:"created,omitempty"`
	Updated   string  `json:"updated,omitempty"`
}

func (rec chargeRecord) charge() billing.Charge {
	return billing.Charge{
		ID:        rec.ID,
		AthleteID: rec.AthleteID,
		PeriodID:  rec.PeriodID,
		ConceptID: rec.ConceptID,
		Total:     rec.Total,
		Status:    rec.Status,
		CreatedAt: parseTime(rec.Created),
		UpdatedAt: parseTime(rec.Updated),
	}
}

type paymentRecord struct {
	ID           string  `json:"id,omitempty"`
	ChargeID     string  `json:"cargos_id,omitempty"`
	EnrollmentID string  `json:"matricula_id,omitempty"`
	Amount       float64 `json:"monto"`
	Currency     string  `json:"type"`
	Method       string  `json:"metodo"`
	Reference    string  `json:"referencia"`
	PaidAt       string  `json:"fecha_pago"`
	CoverageFrom string  `json:"cobertura_desde"`
	CoverageTo   string  `json:"cobertura_hasta"`
	Created      string  `json:"created,omitempty"`
}

func newPaymentRecord(p billing.Payment) paymentRecord {
	return paymentRecord{
		ChargeID:     p.ChargeID.String,
		EnrollmentID: p.EnrollmentID.String,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Method:       p.Method,
		Reference:    p.Reference,
		PaidAt:       formatTime(p.PaidAt),
		CoverageFrom: formatTime(p.CoverageFrom),
		CoverageTo:   formatTime(p.CoverageTo),
	}
}

func (rec paymentRecord) payment() billing.Payment {
	return billing.Payment{
		ID:           rec.ID,
		ChargeID:     null.NewString(rec.ChargeID, rec.ChargeID != ""),
		EnrollmentID: null.NewString(rec.EnrollmentID, rec.EnrollmentID != ""),
		Amount:       rec.Amount,
		Currency:     rec.Currency,
		Method:       rec.Method,
		Reference:    rec.Reference,
		PaidAt:       parseTime(rec.PaidAt),
		CoverageFrom: parseTime(rec.CoverageFrom),
		CoverageTo:   parseTime(rec.CoverageTo),
		CreatedAt:    parseTime(rec.Created),
	}
}

type conceptRecord struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
	Type string `json:"type"`
}

type periodRecord struct {
	ID    string `json:"id"`
	Label string `json:"nombre"`
}

type debtReportRecord struct {
	ID        string  `json:"id"`
	AthleteID string  `json:"atleta_id"`
	PeriodID  string  `json:"periodo_id"`
	ConceptID string  `json:"concepto_id"`
	Total     float64 `json:"monto_total"`
	Paid      float64 `json:"total_pagado"`
	Balance   float64 `json:"saldo_pendiente"`
}

type billingRepository struct {
	client *Client
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(client *Client) billing.Repository {
	return &billingRepository{client: client}
}

func (repo *billingRepository) CreateCharge(ctx context.Context, c billing.Charge) (billing.Charge, error) {
	body := chargeRecord{
		AthleteID: c.AthleteID,
		PeriodID:  c.PeriodID,
		ConceptID: c.ConceptID,
		Total:     c.Total,
		Status:    c.Status,
	}
	var rec chargeRecord
	if err := repo.client.create(ctx, chargeCollection, body, &rec); err != nil {
		return billing.Charge{}, err
	}
	return rec.charge(), nil
}

func (repo *billingRepository) GetChargeByID(ctx context.Context, id string) (billing.Charge, error) {
	var rec chargeRecord
	if err := repo.client.getOne(ctx, chargeCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return billing.Charge{}, billing.ErrChargeNotFound
		}
		return billing.Charge{}, err
	}
	return rec.charge(), nil
}

func (repo *billingRepository) QueryChargesByAthlete(ctx context.Context, athleteID string) ([]billing.Charge, error) {
	items, err := repo.client.getFullList(ctx, chargeCollection, "atleta_id="+quote(athleteID), "created")
	if err != nil {
		return nil, err
	}
	charges := make([]billing.Charge, 0, len(items))
	for _, item := range items {
		var rec chargeRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		charges = append(charges, rec.charge())
	}
	return charges, nil
}

func (repo *billingRepository) SetChargeStatus(ctx context.Context, id, status string) error {
	err := repo.client.update(ctx, chargeCollection, id, map[string]interface{}{"estado": status}, nil)
	if err == ErrNotFound {
		return billing.ErrChargeNotFound
	}
	return err
}

func (repo *billingRepository) CreatePayment(ctx context.Context, p billing.Payment) (billing.Payment, error) {
	var rec paymentRecord
	if err := repo.client.create(ctx, paymentCollection, newPaymentRecord(p), &rec); err != nil {
		return billing.Payment{}, err
	}
	return rec.payment(), nil
}

func (repo *billingRepository) DeletePayment(ctx context.Context, id string) error {
	err := repo.client.delete(ctx, paymentCollection, id)
	if err == ErrNotFound {
		return billing.ErrPaymentNotFound
	}
	return err
}

func (repo *billingRepository) QueryPaymentsByCharge(ctx context.Context, chargeID string) ([]billing.Payment, error) {
	items, err := repo.client.getFullList(ctx, paymentCollection, "cargos_id="+quote(chargeID), "fecha_pago")
	if err != nil {
		return nil, err
	}
	payments := make([]billing.Payment, 0, len(items))
	for _, item := range items {
		var rec paymentRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		payments = append(payments, rec.payment())
	}
	return payments, nil
}

func (repo *billingRepository) QueryConcepts(ctx context.Context) ([]billing.Concept, error) {
	items, err := repo.client.getFullList(ctx, conceptCollection, "", "nombre")
	if err != nil {
		return nil, err
	}
	concepts := make([]billing.Concept, 0, len(items))
	for _, item := range items {
		var rec conceptRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		concepts = append(concepts, billing.Concept{ID: rec.ID, Name: rec.Name, Type: rec.Type})
	}
	return concepts, nil
}

func (repo *billingRepository) QueryPeriods(ctx context.Context) ([]billing.Period, error) {
	items, err := repo.client.getFullList(ctx, periodCollection, "", "nombre")
	if err != nil {
		return nil, err
	}
	periods := make([]billing.Period, 0, len(items))
	for _, item := range items {
		var rec periodRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		periods = append(periods, billing.Period{ID: rec.ID, Label: rec.Label})
	}
	return periods, nil
}

func (repo *billingRepository) QueryDebtReport(ctx context.Context, filter billing.DebtReportFilter) ([]billing.DebtReportRow, error) {
	var terms []string
	if filter.AthleteID != "" {
		terms = append(terms, "atleta_id="+quote(filter.AthleteID))
	}
	if filter.PeriodID != "" {
		terms = append(terms, "periodo_id="+quote(filter.PeriodID))
	}
	if filter.OnlyOwing {
		terms = append(terms, "saldo_pendiente>0")
	}
	items, err := repo.client.getFullList(ctx, debtReportCollection, strings.Join(terms, " && "), "")
	if err != nil {
		return nil, err
	}
	rows := make([]billing.DebtReportRow, 0, len(items))
	for _, item := range items {
		var rec debtReportRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		rows = append(rows, billing.DebtReportRow{
			ChargeID:  rec.ID,
			AthleteID: rec.AthleteID,
			PeriodID:  rec.PeriodID,
			ConceptID: rec.ConceptID,
			Total:     rec.Total,
			Paid:      rec.Paid,
			Balance:   rec.Balance,
		})
	}
	return rows, nil
}
