package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dvergarav/acuademia/core/class"
)

type classRepository struct {
	db *classTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) QueryClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.MaxAge != nil && c.MinAge > *filter.MaxAge {
			continue
		}
		if filter.CoachID != "" && c.CoachID != filter.CoachID {
			continue
		}
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].CreatedAt.Before(classes[j].CreatedAt) })
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return class.Class{}, class.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *classRepository) SetClassActive(ctx context.Context, id string, active bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return class.ErrNotFound
	}
	c.IsActive = active
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *classRepository) HasActiveClassByCoach(ctx context.Context, coachID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.table {
		if c.CoachID == coachID && c.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return class.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

type slotRepository struct {
	db *slotTable
}

var _ class.SlotRepository = (*slotRepository)(nil) // interface compliance check

func NewSlotRepository(db *DB) class.SlotRepository {
	return &slotRepository{db: db.slot}
}

func (repo *slotRepository) GetSlotByDayTime(ctx context.Context, day, time string) (class.ScheduleSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.Day == day && s.Time == time {
			return *s, nil
		}
	}
	return class.ScheduleSlot{}, class.ErrSlotNotFound
}

func (repo *slotRepository) GetSlotByID(ctx context.Context, id string) (class.ScheduleSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return class.ScheduleSlot{}, class.ErrSlotNotFound
}

func (repo *slotRepository) CreateSlot(ctx context.Context, s class.ScheduleSlot) (class.ScheduleSlot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// uphold slot uniqueness even when two lookups raced
	for _, existing := range repo.db.table {
		if existing.Day == s.Day && existing.Time == s.Time {
			return *existing, nil
		}
	}
	s.ID = uuid.NewString()
	repo.db.table[s.ID] = &s
	return s, nil
}

type linkRepository struct {
	db *linkTable
}

var _ class.LinkRepository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(db *DB) class.LinkRepository {
	return &linkRepository{db: db.link}
}

func (repo *linkRepository) QueryLinksByClass(ctx context.Context, classID string) ([]class.ScheduleLink, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	links := make([]class.ScheduleLink, 0)
	for _, l := range repo.db.table {
		if l.ClassID == classID {
			links = append(links, *l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.Before(links[j].CreatedAt) })
	return links, nil
}

func (repo *linkRepository) CreateLink(ctx context.Context, l class.ScheduleLink) (class.ScheduleLink, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = uuid.NewString()
	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *linkRepository) DeleteLink(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
