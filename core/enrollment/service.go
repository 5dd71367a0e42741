package enrollment

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/class"
)

var (
	// errors
	ErrNotFound = errors.New("enrollment not found")

	// precondition failures, each distinct and raised before any network call
	errAgeUnknown      = errors.New("the athlete's age has not been computed")
	errNoClassSelected = errors.New("a class must be selected")
	errMissingDates    = errors.New("the payment date and the coverage end date are required")
	errAmountRequired  = errors.New("payments in BS require an explicit amount")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		QueryEnrollmentsByClass(ctx context.Context, classID string, activeOnly bool) ([]Enrollment, error)
		QueryActiveEnrollmentIDsByClass(ctx context.Context, classID string) ([]string, error)
		SetEnrollmentActive(ctx context.Context, id string, active bool) error
		// DeleteEnrollment hard-deletes a row; rollback compensation only.
		DeleteEnrollment(ctx context.Context, id string) error
	}

	// ClassGetter is the slice of the class store the writer needs.
	ClassGetter interface {
		GetClassByID(ctx context.Context, id string) (class.Class, error)
	}

	// PaymentWriter creates the initial payment and can undo it.
	PaymentWriter interface {
		CreatePayment(ctx context.Context, p billing.Payment) (billing.Payment, error)
		DeletePayment(ctx context.Context, id string) error
	}

	Service struct {
		athletes athlete.Repository
		classes  ClassGetter
		repo     Repository
		payments PaymentWriter
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(
	athletes athlete.Repository,
	classes ClassGetter,
	repo Repository,
	payments PaymentWriter,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		athletes: athletes,
		classes:  classes,
		repo:     repo,
		payments: payments,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// Register creates the athlete, the enrollment linking it to the selected
// class and the initial payment, strictly in that order; each step's success
// gates the next. The record store has no transactions, so on any failure
// after the athlete was created, whatever exists already is deleted again in
// reverse order before the error is surfaced: callers observe either full
// success or zero residual rows.
func (svc *Service) Register(ctx context.Context, reg Registration, age *int) (Result, error) {
	// preconditions: no network call has happened yet, no partial state possible
	if age == nil {
		return Result{}, core.NewValidationError(errAgeUnknown)
	}
	if reg.ClassID == "" {
		return Result{}, core.NewValidationError(errNoClassSelected, core.FieldError{Field: "class_id", Error: errNoClassSelected.Error()})
	}
	if reg.PaymentDate == "" || reg.CoverageTo == "" {
		return Result{}, core.NewValidationError(errMissingDates)
	}
	if reg.Currency == billing.CurrencyBS && reg.PaymentAmount <= 0 {
		return Result{}, core.NewValidationError(errAmountRequired, core.FieldError{Field: "payment_amount", Error: errAmountRequired.Error()})
	}

	birthDate, err := time.Parse(time.RFC3339, reg.BirthDate)
	if err != nil {
		return Result{}, core.NewValidationError(err, core.FieldError{Field: "birth_date", Error: "invalid date"})
	}
	paidAt, err := time.Parse(time.RFC3339, reg.PaymentDate)
	if err != nil {
		return Result{}, core.NewValidationError(err, core.FieldError{Field: "payment_date", Error: "invalid date"})
	}
	coverageTo, err := time.Parse(time.RFC3339, reg.CoverageTo)
	if err != nil {
		return Result{}, core.NewValidationError(err, core.FieldError{Field: "coverage_to", Error: "invalid date"})
	}

	isMinor := *age < 18
	phone := reg.Phone()
	if isMinor {
		phone = reg.GuardianPhone()
	}

	// step 1: the class drives the default payment amount
	cls, err := svc.classes.GetClassByID(ctx, reg.ClassID)
	if err != nil {
		return Result{}, pkgerrors.Wrap(err, "fetching class")
	}

	var saga core.Saga
	now := time.Now().UTC()

	// step 2: athlete
	ath := athlete.Athlete{
		Name:       reg.Name,
		Surname:    reg.Surname,
		IDDocument: reg.IDDocument(),
		Phone:      phone,
		Address:    reg.Address,
		Email:      null.NewString(reg.Email, reg.Email != ""),
		BirthDate:  birthDate.UTC(),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if isMinor {
		ath.GuardianName = null.StringFrom(core.CleanString(reg.GuardianName + " " + reg.GuardianSurname))
		ath.GuardianIDDocument = null.StringFrom(reg.GuardianIDDocument())
	}
	if reg.HasMedicalCondition {
		ath.MedicalNote = null.StringFrom(reg.MedicalNote)
	}
	ath, err = svc.athletes.CreateAthlete(ctx, ath)
	if err != nil {
		return Result{}, pkgerrors.Wrap(err, "creating athlete")
	}
	saga.Record("atletas", ath.ID, func(ctx context.Context) error {
		return svc.athletes.DeleteAthlete(ctx, ath.ID)
	})

	// step 3: enrollment
	enr, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		AthleteID:  ath.ID,
		ClassID:    cls.ID,
		IsActive:   true,
		EnrolledAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Result{}, saga.Fail(ctx, svc.logger, pkgerrors.Wrap(err, "creating enrollment"))
	}
	saga.Record("matriculas", enr.ID, func(ctx context.Context) error {
		return svc.repo.DeleteEnrollment(ctx, enr.ID)
	})

	// step 4: payment; the class's monthly cost is the fallback amount
	amount := reg.PaymentAmount
	if amount <= 0 {
		amount = cls.MonthlyCost
	}
	reference := reg.PaymentRef
	if reg.PaymentMethod == billing.MethodCash {
		reference = billing.CashReference
	}
	pay, err := svc.payments.CreatePayment(ctx, billing.Payment{
		EnrollmentID: null.StringFrom(enr.ID),
		Amount:       amount,
		Currency:     reg.Currency,
		Method:       reg.PaymentMethod,
		Reference:    reference,
		PaidAt:       paidAt.UTC(),
		CoverageFrom: paidAt.UTC(),
		CoverageTo:   coverageTo.UTC(),
		CreatedAt:    now,
	})
	if err != nil {
		return Result{}, saga.Fail(ctx, svc.logger, pkgerrors.Wrap(err, "creating payment"))
	}

	svc.sendReceipt(ath, cls, amount, reg.Currency)

	return Result{
		AthleteID:    ath.ID,
		EnrollmentID: enr.ID,
		PaymentID:    pay.ID,
	}, nil
}

// sendReceipt dispatches a registration receipt when the form carried a
// contact email. Fire-and-forget: a mail failure never fails the enrollment.
func (svc *Service) sendReceipt(ath athlete.Athlete, cls class.Class, amount float64, currency string) {
	if svc.mailSvc == nil || !ath.Email.Valid {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: ath.Name + " " + ath.Surname, Address: ath.Email.String}},
		Subject: "Inscripción confirmada",
		Body: fmt.Sprintf(
			"%s %s has been enrolled in %s. Initial payment: %.2f %s.",
			ath.Name, ath.Surname, cls.Name, amount, currency,
		),
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

// QueryByClass lists a class's enrollments, newest first.
func (svc *Service) QueryByClass(ctx context.Context, classID string, activeOnly bool) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByClass(ctx, classID, activeOnly)
}
