package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dvergarav/acuademia/core/coach"
)

type coachRepository struct {
	db *coachTable
}

var _ coach.Repository = (*coachRepository)(nil) // interface compliance check

func NewCoachRepository(db *DB) coach.Repository {
	return &coachRepository{db: db.coach}
}

func (repo *coachRepository) CreateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *coachRepository) GetCoachByID(ctx context.Context, id string) (coach.Coach, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return coach.Coach{}, coach.ErrNotFound
}

func (repo *coachRepository) QueryCoaches(ctx context.Context, isActive *bool) ([]coach.Coach, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	coaches := make([]coach.Coach, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if isActive != nil && c.IsActive != *isActive {
			continue
		}
		coaches = append(coaches, *c)
	}
	sort.Slice(coaches, func(i, j int) bool { return coaches[i].Name < coaches[j].Name })
	return coaches, nil
}

func (repo *coachRepository) UpdateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return coach.Coach{}, coach.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *coachRepository) SetCoachActive(ctx context.Context, id string, active bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return coach.ErrNotFound
	}
	c.IsActive = active
	return nil
}
