package coach

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core"
)

var (
	// errors
	ErrNotFound         = errors.New("coach not found")
	ErrHasActiveClasses = errors.New("coach still has active classes")
)

type (
	Repository interface {
		CreateCoach(ctx context.Context, c Coach) (Coach, error)
		GetCoachByID(ctx context.Context, id string) (Coach, error)
		// QueryCoaches returns all coaches sorted by name; isActive narrows by flag when set.
		QueryCoaches(ctx context.Context, isActive *bool) ([]Coach, error)
		UpdateCoach(ctx context.Context, c Coach) (Coach, error)
		SetCoachActive(ctx context.Context, id string, active bool) error
	}

	// ActiveClassChecker guards deactivation: a coach keeping active classes
	// must have them reassigned or deactivated first.
	ActiveClassChecker interface {
		CoachHasActiveClasses(ctx context.Context, coachID string) (bool, error)
	}

	Service struct {
		repo    Repository
		classes ActiveClassChecker
	}
)

func NewService(repo Repository, classes ActiveClassChecker) *Service {
	return &Service{repo: repo, classes: classes}
}

func (nc *NewCoach) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Surname = core.CleanString(nc.Surname)
	nc.IDDocument = core.CleanString(nc.IDDocument, true /* lower */)
	nc.Phone = core.CleanString(nc.Phone)
	nc.Address = core.CleanString(nc.Address)
	return validate.Struct(nc)
}

func (svc *Service) Create(ctx context.Context, nc NewCoach) (Coach, error) {
	now := time.Now().UTC()
	c := Coach{
		Name:       nc.Name,
		Surname:    nc.Surname,
		IDDocument: nc.IDDocument,
		Phone:      nc.Phone,
		Address:    null.NewString(nc.Address, nc.Address != ""),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateCoach(ctx, c)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Coach, error) {
	return svc.repo.GetCoachByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, isActive *bool) ([]Coach, error) {
	return svc.repo.QueryCoaches(ctx, isActive)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCoach) (Coach, error) {
	c, err := svc.repo.GetCoachByID(ctx, id)
	if err != nil {
		return Coach{}, err
	}
	if name := core.CleanString(uc.Name); name != "" {
		c.Name = name
	}
	if surname := core.CleanString(uc.Surname); surname != "" {
		c.Surname = surname
	}
	if phone := core.CleanString(uc.Phone); phone != "" {
		c.Phone = phone
	}
	if addr := core.CleanString(uc.Address); addr != "" {
		c.Address = null.StringFrom(addr)
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCoach(ctx, c)
}

// SetActive toggles the coach's active flag. Deactivation is refused while
// the coach still has active classes; the flag is left unchanged.
func (svc *Service) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := svc.repo.GetCoachByID(ctx, id); err != nil {
		return err
	}
	if !active {
		busy, err := svc.classes.CoachHasActiveClasses(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return core.NewValidationError(ErrHasActiveClasses)
		}
	}
	return svc.repo.SetCoachActive(ctx, id, active)
}
