package athlete

import (
	"context"
	"errors"
	"time"

	"github.com/dvergarav/acuademia/core"
)

var (
	// errors
	ErrNotFound = errors.New("athlete not found")
)

type (
	Repository interface {
		CreateAthlete(ctx context.Context, ath Athlete) (Athlete, error)
		GetAthleteByID(ctx context.Context, id string) (Athlete, error)
		// QueryActiveAthletes returns active athletes sorted by name.
		QueryActiveAthletes(ctx context.Context) ([]Athlete, error)
		UpdateAthlete(ctx context.Context, ath Athlete) (Athlete, error)
		SetAthleteActive(ctx context.Context, id string, active bool) error
		// DeleteAthlete hard-deletes a row. Only ever used as a rollback
		// compensation; regular retirement is SetAthleteActive(false).
		DeleteAthlete(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryActive(ctx context.Context) ([]Athlete, error) {
	return svc.repo.QueryActiveAthletes(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Athlete, error) {
	return svc.repo.GetAthleteByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAthlete) (Athlete, error) {
	ath, err := svc.repo.GetAthleteByID(ctx, id)
	if err != nil {
		return Athlete{}, err
	}
	if name := core.CleanString(ua.Name); name != "" {
		ath.Name = name
	}
	if surname := core.CleanString(ua.Surname); surname != "" {
		ath.Surname = surname
	}
	if phone := core.CleanString(ua.Phone); phone != "" {
		ath.Phone = phone
	}
	if addr := core.CleanString(ua.Address); addr != "" {
		ath.Address = addr
	}
	if ua.MedicalNote.Valid {
		ath.MedicalNote = ua.MedicalNote
	}
	ath.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAthlete(ctx, ath)
}

func (svc *Service) Deactivate(ctx context.Context, id string) error {
	return svc.repo.SetAthleteActive(ctx, id, false)
}
