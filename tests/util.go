package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/coach"
	"github.com/dvergarav/acuademia/core/enrollment"
	"github.com/dvergarav/acuademia/core/user"
)

// Logger is a silent core.Logger for tests.
type Logger struct{}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l Logger) Enable(bool)                        {}
func (l Logger) Debug(string, ...interface{})       {}
func (l Logger) Info(string, ...interface{})        {}
func (l Logger) Warn(string, ...interface{})        {}
func (l Logger) Error(string, ...interface{})       {}
func (l Logger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateAthlete(t *testing.T, repo athlete.Repository, name, surname, idDoc string, birthDate time.Time) athlete.Athlete {
	t.Helper()

	tstamp := time.Now().UTC()
	ath, err := repo.CreateAthlete(context.Background(), athlete.Athlete{
		Name:       name,
		Surname:    surname,
		IDDocument: idDoc,
		Phone:      "0414-1234567",
		Address:    "Av. Principal",
		BirthDate:  birthDate.UTC(),
		IsActive:   true,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAthlete() failed: %v", err)
	}
	return ath
}

func CreateCoach(t *testing.T, repo coach.Repository, name, surname, idDoc string) coach.Coach {
	t.Helper()

	tstamp := time.Now().UTC()
	c, err := repo.CreateCoach(context.Background(), coach.Coach{
		Name:       name,
		Surname:    surname,
		IDDocument: idDoc,
		Phone:      "0414-7654321",
		IsActive:   true,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCoach() failed: %v", err)
	}
	return c
}

func CreateClass(t *testing.T, repo class.Repository, name, coachID string, monthlyCost float64, minAge int) class.Class {
	t.Helper()

	tstamp := time.Now().UTC()
	c, err := repo.CreateClass(context.Background(), class.Class{
		Name:        name,
		MonthlyCost: monthlyCost,
		MinAge:      minAge,
		CoachID:     coachID,
		IsActive:    true,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return c
}

func CreateEnrollment(t *testing.T, repo enrollment.Repository, athleteID, classID string) enrollment.Enrollment {
	t.Helper()

	tstamp := time.Now().UTC()
	enr, err := repo.CreateEnrollment(context.Background(), enrollment.Enrollment{
		AthleteID:  athleteID,
		ClassID:    classID,
		IsActive:   true,
		EnrolledAt: tstamp,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateCharge(t *testing.T, repo billing.Repository, athleteID, periodID, conceptID string, total float64) billing.Charge {
	t.Helper()

	tstamp := time.Now().UTC()
	c, err := repo.CreateCharge(context.Background(), billing.Charge{
		AthleteID: athleteID,
		PeriodID:  periodID,
		ConceptID: conceptID,
		Total:     total,
		Status:    billing.StatusPending,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCharge() failed: %v", err)
	}
	return c
}
