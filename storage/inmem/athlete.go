package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dvergarav/acuademia/core/athlete"
)

type athleteRepository struct {
	db *athleteTable
}

var _ athlete.Repository = (*athleteRepository)(nil) // interface compliance check

func NewAthleteRepository(db *DB) athlete.Repository {
	return &athleteRepository{db: db.athlete}
}

func (repo *athleteRepository) CreateAthlete(ctx context.Context, ath athlete.Athlete) (athlete.Athlete, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ath.ID = uuid.NewString()
	repo.db.table[ath.ID] = &ath
	return ath, nil
}

func (repo *athleteRepository) GetAthleteByID(ctx context.Context, id string) (athlete.Athlete, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ath, ok := repo.db.table[id]; ok {
		return *ath, nil
	}
	return athlete.Athlete{}, athlete.ErrNotFound
}

func (repo *athleteRepository) QueryActiveAthletes(ctx context.Context) ([]athlete.Athlete, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	athletes := make([]athlete.Athlete, 0, len(repo.db.table))
	for _, ath := range repo.db.table {
		if ath.IsActive {
			athletes = append(athletes, *ath)
		}
	}
	sort.Slice(athletes, func(i, j int) bool { return athletes[i].Name < athletes[j].Name })
	return athletes, nil
}

func (repo *athleteRepository) UpdateAthlete(ctx context.Context, ath athlete.Athlete) (athlete.Athlete, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ath.ID]; !ok {
		return athlete.Athlete{}, athlete.ErrNotFound
	}
	repo.db.table[ath.ID] = &ath
	return ath, nil
}

func (repo *athleteRepository) SetAthleteActive(ctx context.Context, id string, active bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	ath, ok := repo.db.table[id]
	if !ok {
		return athlete.ErrNotFound
	}
	ath.IsActive = active
	ath.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *athleteRepository) DeleteAthlete(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return athlete.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
