package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dvergarav/acuademia/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = uuid.NewString()
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollmentsByClass(ctx context.Context, classID string, activeOnly bool) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrollments := make([]enrollment.Enrollment, 0)
	for _, e := range repo.db.table {
		if e.ClassID != classID {
			continue
		}
		if activeOnly && !e.IsActive {
			continue
		}
		enrollments = append(enrollments, *e)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt) })
	return enrollments, nil
}

func (repo *enrollmentRepository) QueryActiveEnrollmentIDsByClass(ctx context.Context, classID string) ([]string, error) {
	enrollments, err := repo.QueryEnrollmentsByClass(ctx, classID, true)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (repo *enrollmentRepository) SetEnrollmentActive(ctx context.Context, id string, active bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[id]
	if !ok {
		return enrollment.ErrNotFound
	}
	e.IsActive = active
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *enrollmentRepository) DeleteEnrollment(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return enrollment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
