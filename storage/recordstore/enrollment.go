package recordstore

import (
	"context"
	"encoding/json"

	"github.com/dvergarav/acuademia/core/enrollment"
)

const enrollmentCollection = "matriculas"

type enrollmentRecord struct {
	ID         string `json:"id,omitempty"`
	AthleteID  string `json:"atleta_id"`
	ClassID    string `json:"clase_id"`
	IsActive   bool   `json:"activo"`
	EnrolledAt string `json:"fecha_inscripcion"`
	Created    string `json:"created,omitempty"`
	Updated    string `json:"updated,omitempty"`
}

func newEnrollmentRecord(e enrollment.Enrollment) enrollmentRecord {
	return enrollmentRecord{
		AthleteID:  e.AthleteID,
		ClassID:    e.ClassID,
		IsActive:   e.IsActive,
		EnrolledAt: formatTime(e.EnrolledAt),
	}
}

func (rec enrollmentRecord) enrollment() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:         rec.ID,
		AthleteID:  rec.AthleteID,
		ClassID:    rec.ClassID,
		IsActive:   rec.IsActive,
		EnrolledAt: parseTime(rec.EnrolledAt),
		CreatedAt:  parseTime(rec.Created),
		UpdatedAt:  parseTime(rec.Updated),
	}
}

type enrollmentRepository struct {
	client *Client
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(client *Client) enrollment.Repository {
	return &enrollmentRepository{client: client}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	var rec enrollmentRecord
	if err := repo.client.create(ctx, enrollmentCollection, newEnrollmentRecord(e), &rec); err != nil {
		return enrollment.Enrollment{}, err
	}
	return rec.enrollment(), nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	var rec enrollmentRecord
	if err := repo.client.getOne(ctx, enrollmentCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return enrollment.Enrollment{}, enrollment.ErrNotFound
		}
		return enrollment.Enrollment{}, err
	}
	return rec.enrollment(), nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByClass(ctx context.Context, classID string, activeOnly bool) ([]enrollment.Enrollment, error) {
	filter := "clase_id=" + quote(classID)
	if activeOnly {
		filter += " && activo=true"
	}
	items, err := repo.client.getFullList(ctx, enrollmentCollection, filter, "-fecha_inscripcion")
	if err != nil {
		return nil, err
	}
	enrollments := make([]enrollment.Enrollment, 0, len(items))
	for _, item := range items {
		var rec enrollmentRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, rec.enrollment())
	}
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
	err := repo.client.update(ctx, enrollmentCollection, id, map[string]interface{}{"activo": active}, nil)
	if err == ErrNotFound {
		return enrollment.ErrNotFound
	}
	return err
}

func (repo *enrollmentRepository) DeleteEnrollment(ctx context.Context, id string) error {
	err := repo.client.delete(ctx, enrollmentCollection, id)
	if err == ErrNotFound {
		return enrollment.ErrNotFound
	}
	return err
}
