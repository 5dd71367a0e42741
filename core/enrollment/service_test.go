package enrollment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/enrollment"
	inmemdb "github.com/dvergarav/acuademia/storage/inmem"
	testutil "github.com/dvergarav/acuademia/tests"
)

type failingEnrollmentRepo struct {
	enrollment.Repository
	failCreate bool
}

func (r *failingEnrollmentRepo) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	if r.failCreate {
		return enrollment.Enrollment{}, core.NewRemoteError("create", "matriculas", nil)
	}
	return r.Repository.CreateEnrollment(ctx, e)
}

type capturingPaymentWriter struct {
	repo       billing.Repository
	failCreate bool
	created    []billing.Payment
}

func (w *capturingPaymentWriter) CreatePayment(ctx context.Context, p billing.Payment) (billing.Payment, error) {
	if w.failCreate {
		return billing.Payment{}, core.NewRemoteError("create", "pagos", nil)
	}
	p, err := w.repo.CreatePayment(ctx, p)
	if err == nil {
		w.created = append(w.created, p)
	}
	return p, err
}

func (w *capturingPaymentWriter) DeletePayment(ctx context.Context, id string) error {
	return w.repo.DeletePayment(ctx, id)
}

type fixture struct {
	db          *inmemdb.DB
	athleteRepo athlete.Repository
	enrollRepo  *failingEnrollmentRepo
	payments    *capturingPaymentWriter
	svc         *enrollment.Service
	classID     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	athleteRepo := inmemdb.NewAthleteRepository(db)
	classRepo := inmemdb.NewClassRepository(db)
	coachRepo := inmemdb.NewCoachRepository(db)
	enrollRepo := &failingEnrollmentRepo{Repository: inmemdb.NewEnrollmentRepository(db)}
	payments := &capturingPaymentWriter{repo: inmemdb.NewBillingRepository(db)}

	coach := testutil.CreateCoach(t, coachRepo, "Maria", "Lopez", "v-11222333")
	cls := testutil.CreateClass(t, classRepo, "Natacion Infantil", coach.ID, 50, 4)

	svc := enrollment.NewService(athleteRepo, classRepo, enrollRepo, payments, nil, testutil.NewLogger())
	return &fixture{
		db:          db,
		athleteRepo: athleteRepo,
		enrollRepo:  enrollRepo,
		payments:    payments,
		svc:         svc,
		classID:     cls.ID,
	}
}

func validRegistration(classID string) enrollment.Registration {
	return enrollment.Registration{
		Name:          "Pedro",
		Surname:       "Perez",
		IDDocType:     "V",
		IDDocNumber:   "20111222",
		BirthDate:     "2000-05-10T00:00:00Z",
		PhoneCode:     "0414",
		PhoneNumber:   "5550101",
		Address:       "Av. Bolivar",
		ClassID:       classID,
		Currency:      billing.CurrencyUSD,
		PaymentMethod: billing.MethodTransfer,
		PaymentRef:    "REF-001",
		PaymentDate:   "2026-03-01T00:00:00Z",
		CoverageTo:    "2026-04-01T00:00:00Z",
		PaymentAmount: 50,
	}
}

func intPtr(i int) *int { return &i }

func Test_Register_success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, validRegistration(f.classID), intPtr(25))
	require.NoError(t, err)
	assert.NotEmpty(t, res.AthleteID)
	assert.NotEmpty(t, res.EnrollmentID)
	assert.NotEmpty(t, res.PaymentID)

	ath, err := f.athleteRepo.GetAthleteByID(ctx, res.AthleteID)
	require.NoError(t, err)
	assert.Equal(t, "V-20111222", ath.IDDocument)
	assert.Equal(t, "0414-5550101", ath.Phone)
	assert.True(t, ath.IsActive)
	assert.False(t, ath.GuardianName.Valid)

	enr, err := f.enrollRepo.GetEnrollmentByID(ctx, res.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, res.AthleteID, enr.AthleteID)
	assert.Equal(t, f.classID, enr.ClassID)
	assert.True(t, enr.IsActive)

	require.Len(t, f.payments.created, 1)
	pay := f.payments.created[0]
	assert.Equal(t, res.PaymentID, pay.ID)
	assert.Equal(t, res.EnrollmentID, pay.EnrollmentID.String)
	assert.Equal(t, float64(50), pay.Amount)
	assert.Equal(t, "REF-001", pay.Reference)
	assert.Equal(t, pay.PaidAt, pay.CoverageFrom)
}

func Test_Register_minorUsesGuardianData(t *testing.T) {
	f := newFixture(t)

	reg := validRegistration(f.classID)
	reg.BirthDate = time.Now().AddDate(-10, 0, 0).UTC().Format(time.RFC3339)
	reg.GuardianName = "Ana"
	reg.GuardianSurname = "Perez"
	reg.GuardianIDDocType = "V"
	reg.GuardianIDDocNumber = "9888777"
	reg.GuardianPhoneCode = "0424"
	reg.GuardianPhoneNumber = "5550202"

	res, err := f.svc.Register(context.Background(), reg, intPtr(10))
	require.NoError(t, err)

	ath, err := f.athleteRepo.GetAthleteByID(context.Background(), res.AthleteID)
	require.NoError(t, err)
	assert.Equal(t, "0424-5550202", ath.Phone) // guardian's phone, not the minor's
	assert.Equal(t, "Ana Perez", ath.GuardianName.String)
	assert.Equal(t, "V-9888777", ath.GuardianIDDocument.String)
}

func Test_Register_cashPaymentGetsFixedReference(t *testing.T) {
	f := newFixture(t)

	reg := validRegistration(f.classID)
	reg.PaymentMethod = billing.MethodCash
	reg.PaymentRef = "ignored"

	_, err := f.svc.Register(context.Background(), reg, intPtr(25))
	require.NoError(t, err)
	require.Len(t, f.payments.created, 1)
	assert.Equal(t, billing.CashReference, f.payments.created[0].Reference)
}

func Test_Register_zeroAmountFallsBackToMonthlyCost(t *testing.T) {
	f := newFixture(t)

	reg := validRegistration(f.classID)
	reg.PaymentAmount = 0 // USD: allowed, defaults to the class cost

	_, err := f.svc.Register(context.Background(), reg, intPtr(25))
	require.NoError(t, err)
	require.Len(t, f.payments.created, 1)
	assert.Equal(t, float64(50), f.payments.created[0].Amount)
}

func Test_Register_preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		mod  func(*enrollment.Registration)
		age  *int
	}{
		{"age unknown", func(r *enrollment.Registration) {}, nil},
		{"no class selected", func(r *enrollment.Registration) { r.ClassID = "" }, intPtr(25)},
		{"missing payment date", func(r *enrollment.Registration) { r.PaymentDate = "" }, intPtr(25)},
		{"missing coverage end", func(r *enrollment.Registration) { r.CoverageTo = "" }, intPtr(25)},
		{"bs requires amount", func(r *enrollment.Registration) { r.Currency = billing.CurrencyBS; r.PaymentAmount = 0 }, intPtr(25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration(f.classID)
			tt.mod(&reg)

			_, err := f.svc.Register(ctx, reg, tt.age)
			require.Error(t, err)
			assert.Equal(t, core.KindValidation, core.KindOf(err))

			// nothing was written
			athletes, err := f.athleteRepo.QueryActiveAthletes(ctx)
			require.NoError(t, err)
			assert.Empty(t, athletes)
			assert.Empty(t, f.payments.created)
		})
	}
}

func Test_Register_unknownClassLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := validRegistration("missing")
	_, err := f.svc.Register(ctx, reg, intPtr(25))
	require.Error(t, err)

	athletes, err := f.athleteRepo.QueryActiveAthletes(ctx)
	require.NoError(t, err)
	assert.Empty(t, athletes)
}

func Test_Register_enrollmentFailureRollsBackAthlete(t *testing.T) {
	f := newFixture(t)
	f.enrollRepo.failCreate = true
	ctx := context.Background()

	_, err := f.svc.Register(ctx, validRegistration(f.classID), intPtr(25))
	require.Error(t, err)
	assert.Equal(t, core.KindRemote, core.KindOf(err))

	athletes, err := f.athleteRepo.QueryActiveAthletes(ctx)
	require.NoError(t, err)
	assert.Empty(t, athletes, "the created athlete must be deleted again")
}

func Test_Register_paymentFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.payments.failCreate = true
	ctx := context.Background()

	_, err := f.svc.Register(ctx, validRegistration(f.classID), intPtr(25))
	require.Error(t, err)
	assert.Equal(t, core.KindRemote, core.KindOf(err))

	athletes, err := f.athleteRepo.QueryActiveAthletes(ctx)
	require.NoError(t, err)
	assert.Empty(t, athletes)

	enrollments, err := f.enrollRepo.QueryEnrollmentsByClass(ctx, f.classID, false)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}
