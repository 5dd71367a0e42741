package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dvergarav/acuademia/core/billing"
)

type billingRepository struct {
	db *billingTables
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *DB) billing.Repository {
	return &billingRepository{db: db.billing}
}

func (repo *billingRepository) CreateCharge(ctx context.Context, c billing.Charge) (billing.Charge, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	repo.db.charges[c.ID] = &c
	return c, nil
}

func (repo *billingRepository) GetChargeByID(ctx context.Context, id string) (billing.Charge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.charges[id]; ok {
		return *c, nil
	}
	return billing.Charge{}, billing.ErrChargeNotFound
}

func (repo *billingRepository) QueryChargesByAthlete(ctx context.Context, athleteID string) ([]billing.Charge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	charges := make([]billing.Charge, 0)
	for _, c := range repo.db.charges {
		if c.AthleteID == athleteID {
			charges = append(charges, *c)
		}
	}
	sort.Slice(charges, func(i, j int) bool { return charges[i].CreatedAt.Before(charges[j].CreatedAt) })
	return charges, nil
}

func (repo *billingRepository) SetChargeStatus(ctx context.Context, id, status string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.charges[id]
	if !ok {
		return billing.ErrChargeNotFound
	}
	c.Status = status
	return nil
}

func (repo *billingRepository) CreatePayment(ctx context.Context, p billing.Payment) (billing.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.NewString()
	repo.db.payments[p.ID] = &p
	return p, nil
}

func (repo *billingRepository) DeletePayment(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.payments[id]; !ok {
		return billing.ErrPaymentNotFound
	}
	delete(repo.db.payments, id)
	return nil
}

func (repo *billingRepository) QueryPaymentsByCharge(ctx context.Context, chargeID string) ([]billing.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]billing.Payment, 0)
	for _, p := range repo.db.payments {
		if p.ChargeID.Valid && p.ChargeID.String == chargeID {
			payments = append(payments, *p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.Before(payments[j].PaidAt) })
	return payments, nil
}

func (repo *billingRepository) QueryConcepts(ctx context.Context) ([]billing.Concept, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	concepts := make([]billing.Concept, 0, len(repo.db.concepts))
	for _, c := range repo.db.concepts {
		concepts = append(concepts, *c)
	}
	sort.Slice(concepts, func(i, j int) bool { return concepts[i].Name < concepts[j].Name })
	return concepts, nil
}

func (repo *billingRepository) QueryPeriods(ctx context.Context) ([]billing.Period, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := make([]billing.Period, 0, len(repo.db.periods))
	for _, p := range repo.db.periods {
		periods = append(periods, *p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Label < periods[j].Label })
	return periods, nil
}

// QueryDebtReport recomputes the per-charge aggregate locally; the hosted
// store serves it as a precomputed view instead.
func (repo *billingRepository) QueryDebtReport(ctx context.Context, filter billing.DebtReportFilter) ([]billing.DebtReportRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]billing.DebtReportRow, 0)
	for _, c := range repo.db.charges {
		if c.Status == billing.StatusVoided {
			continue
		}
		if filter.AthleteID != "" && c.AthleteID != filter.AthleteID {
			continue
		}
		if filter.PeriodID != "" && c.PeriodID != filter.PeriodID {
			continue
		}
		var paid float64
		for _, p := range repo.db.payments {
			if p.ChargeID.Valid && p.ChargeID.String == c.ID {
				paid += p.Amount
			}
		}
		balance := c.Total - paid
		if filter.OnlyOwing && balance <= 0 {
			continue
		}
		rows = append(rows, billing.DebtReportRow{
			ChargeID:  c.ID,
			AthleteID: c.AthleteID,
			PeriodID:  c.PeriodID,
			ConceptID: c.ConceptID,
			Total:     c.Total,
			Paid:      paid,
			Balance:   balance,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ChargeID < rows[j].ChargeID })
	return rows, nil
}

// SeedConcept and SeedPeriod exist for tests; the hosted store manages these
// catalogs through its own console.
func (db *DB) SeedConcept(c billing.Concept) billing.Concept {
	db.billing.Lock()
	defer db.billing.Unlock()

	c.ID = uuid.NewString()
	db.billing.concepts[c.ID] = &c
	return c
}

func (db *DB) SeedPeriod(p billing.Period) billing.Period {
	db.billing.Lock()
	defer db.billing.Unlock()

	p.ID = uuid.NewString()
	db.billing.periods[p.ID] = &p
	return p
}
