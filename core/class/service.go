package class

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dvergarav/acuademia/core"
)

var (
	// errors
	ErrNotFound     = errors.New("class not found")
	ErrSlotNotFound = errors.New("schedule slot not found")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		// QueryClasses applies AND on the set QueryFilter fields, sorted by creation time.
		QueryClasses(ctx context.Context, filter QueryFilter) ([]Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		SetClassActive(ctx context.Context, id string, active bool) error
		// HasActiveClassByCoach reports whether at least one active class
		// references the coach. Implementations fetch at most one row.
		HasActiveClassByCoach(ctx context.Context, coachID string) (bool, error)
		DeleteClass(ctx context.Context, id string) error
	}

	SlotRepository interface {
		// GetSlotByDayTime returns the unique slot for (day, time), or ErrSlotNotFound.
		GetSlotByDayTime(ctx context.Context, day, time string) (ScheduleSlot, error)
		GetSlotByID(ctx context.Context, id string) (ScheduleSlot, error)
		CreateSlot(ctx context.Context, s ScheduleSlot) (ScheduleSlot, error)
	}

	LinkRepository interface {
		// QueryLinksByClass returns the class's links in creation order.
		QueryLinksByClass(ctx context.Context, classID string) ([]ScheduleLink, error)
		CreateLink(ctx context.Context, l ScheduleLink) (ScheduleLink, error)
		DeleteLink(ctx context.Context, id string) error
	}

	// EnrollmentDeactivator is the slice of the enrollment store the
	// deactivation cascade needs. Children are deactivated before the parent.
	EnrollmentDeactivator interface {
		QueryActiveEnrollmentIDsByClass(ctx context.Context, classID string) ([]string, error)
		SetEnrollmentActive(ctx context.Context, id string, active bool) error
	}

	Service struct {
		repo    Repository
		slots   SlotRepository
		links   LinkRepository
		enrolls EnrollmentDeactivator
		logger  core.Logger
	}
)

func NewService(
	repo Repository,
	slots SlotRepository,
	links LinkRepository,
	enrolls EnrollmentDeactivator,
	logger core.Logger,
) *Service {
	return &Service{
		repo:    repo,
		slots:   slots,
		links:   links,
		enrolls: enrolls,
		logger:  logger,
	}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, filter)
}

// QueryForAge lists the active classes an athlete of the given age may join
// (MinAge <= age).
func (svc *Service) QueryForAge(ctx context.Context, age int) ([]Class, error) {
	active := true
	return svc.repo.QueryClasses(ctx, QueryFilter{IsActive: &active, MaxAge: &age})
}

// CoachHasActiveClasses implements the coach deactivation guard.
func (svc *Service) CoachHasActiveClasses(ctx context.Context, coachID string) (bool, error) {
	return svc.repo.HasActiveClassByCoach(ctx, coachID)
}

// CreateWithSchedule creates a class together with its schedule links. On any
// failure after the class row exists, everything created so far is deleted
// before the error is surfaced.
func (svc *Service) CreateWithSchedule(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	c, err := svc.repo.CreateClass(ctx, Class{
		Name:        nc.Name,
		MonthlyCost: nc.MonthlyCost,
		MinAge:      nc.MinAge,
		CoachID:     nc.CoachID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Class{}, pkgerrors.Wrap(err, "creating class")
	}

	var saga core.Saga
	saga.Record("clases", c.ID, func(ctx context.Context) error {
		return svc.repo.DeleteClass(ctx, c.ID)
	})

	if err := svc.buildLinks(ctx, c.ID, nc.Schedule, &saga); err != nil {
		return Class{}, saga.Fail(ctx, svc.logger, pkgerrors.Wrap(err, "building class schedule"))
	}
	return c, nil
}

// SyncSchedule makes the class's link set exactly match the desired pairs:
// delete every existing link, then recreate one link per pair, reusing slots
// from the shared catalog. The clear step is not compensated; a rebuild
// failure can leave the class with fewer links than before (the operation is
// idempotent, re-running it repairs the set).
func (svc *Service) SyncSchedule(ctx context.Context, classID string, want []SlotInput) error {
	old, err := svc.links.QueryLinksByClass(ctx, classID)
	if err != nil {
		return pkgerrors.Wrap(err, "listing schedule links")
	}

	// clear: independent rows, deleted in parallel and jointly awaited
	g, gctx := errgroup.WithContext(ctx)
	for _, link := range old {
		link := link
		g.Go(func() error {
			return svc.links.DeleteLink(gctx, link.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return pkgerrors.Wrap(err, "clearing schedule links")
	}

	return svc.buildLinks(ctx, classID, want, nil)
}

// buildLinks resolves-or-creates each desired slot and links it to the class,
// in input order. Lookup-or-create must precede the link create; shared slots
// are never recorded for rollback (they outlive any one class).
func (svc *Service) buildLinks(ctx context.Context, classID string, want []SlotInput, saga *core.Saga) error {
	for _, in := range want {
		slot, err := svc.slots.GetSlotByDayTime(ctx, in.Day, in.Time)
		if err != nil {
			if pkgerrors.Cause(err) != ErrSlotNotFound {
				return pkgerrors.Wrapf(err, "looking up slot %s %s", in.Day, in.Time)
			}
			slot, err = svc.slots.CreateSlot(ctx, ScheduleSlot{Day: in.Day, Time: in.Time})
			if err != nil {
				return pkgerrors.Wrapf(err, "creating slot %s %s", in.Day, in.Time)
			}
		}

		link, err := svc.links.CreateLink(ctx, ScheduleLink{
			ClassID:   classID,
			SlotID:    slot.ID,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrapf(err, "linking slot %s %s", in.Day, in.Time)
		}
		if saga != nil {
			saga.Record("clases_horarios", link.ID, func(ctx context.Context) error {
				return svc.links.DeleteLink(ctx, link.ID)
			})
		}
	}
	return nil
}

// Schedule returns the class's links joined with their slots, in link
// creation order. The join is explicit; nothing is inferred from expanded
// store payloads.
func (svc *Service) Schedule(ctx context.Context, classID string) ([]ScheduleEntry, error) {
	links, err := svc.links.QueryLinksByClass(ctx, classID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "listing schedule links")
	}
	entries := make([]ScheduleEntry, 0, len(links))
	for _, link := range links {
		slot, err := svc.slots.GetSlotByID(ctx, link.SlotID)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "resolving slot %q", link.SlotID)
		}
		entries = append(entries, ScheduleEntry{
			LinkID: link.ID,
			SlotID: slot.ID,
			Day:    slot.Day,
			Time:   slot.Time,
		})
	}
	return entries, nil
}

// Deactivate retires a class without destroying history: all of its active
// enrollments are deactivated first (in parallel), then the class itself.
// Re-running it on an already-inactive class is a no-op that still succeeds.
// A partial failure is not rolled back; the caller retries.
func (svc *Service) Deactivate(ctx context.Context, classID string) error {
	if _, err := svc.repo.GetClassByID(ctx, classID); err != nil {
		return err
	}

	ids, err := svc.enrolls.QueryActiveEnrollmentIDsByClass(ctx, classID)
	if err != nil {
		return pkgerrors.Wrap(err, "listing active enrollments")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return svc.enrolls.SetEnrollmentActive(gctx, id, false)
		})
	}
	if err := g.Wait(); err != nil {
		return pkgerrors.Wrap(err, "deactivating enrollments")
	}

	if err := svc.repo.SetClassActive(ctx, classID, false); err != nil {
		return pkgerrors.Wrap(err, "deactivating class")
	}
	return nil
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if uc.Name != "" {
		c.Name = uc.Name
	}
	if uc.MonthlyCost != nil {
		c.MonthlyCost = *uc.MonthlyCost
	}
	if uc.MinAge != nil {
		c.MinAge = *uc.MinAge
	}
	if uc.CoachID != "" {
		c.CoachID = uc.CoachID
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(ctx, c)
}
