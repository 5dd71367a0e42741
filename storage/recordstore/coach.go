package recordstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core/coach"
)

const coachCollection = "entrenadores"

// coachRecord is the wire shape of an "entrenadores" row.
type coachRecord struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"nombre"`
	Surname    string `json:"apellido"`
	IDDocument string `json:"cedula"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion,omitempty"`
	IsActive   bool   `json:"activo"`
	Created    string `json:"created,omitempty"`
	Updated    string `json:"updated,omitempty"`
}

func newCoachRecord(c coach.Coach) coachRecord {
	return coachRecord{
		Name:       c.Name,
		Surname:    c.Surname,
		IDDocument: c.IDDocument,
		Phone:      c.Phone,
		Address:    c.Address.String,
		IsActive:   c.IsActive,
	}
}

func (rec coachRecord) coach() coach.Coach {
	return coach.Coach{
		ID:         rec.ID,
		Name:       rec.Name,
		Surname:    rec.Surname,
		IDDocument: rec.IDDocument,
		Phone:      rec.Phone,
		Address:    null.NewString(rec.Address, rec.Address != ""),
		IsActive:   rec.IsActive,
		CreatedAt:  parseTime(rec.Created),
		UpdatedAt:  parseTime(rec.Updated),
	}
}

type coachRepository struct {
	client *Client
}

var _ coach.Repository = (*coachRepository)(nil) // interface compliance check

func NewCoachRepository(client *Client) coach.Repository {
	return &coachRepository{client: client}
}

func (repo *coachRepository) CreateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	var rec coachRecord
	if err := repo.client.create(ctx, coachCollection, newCoachRecord(c), &rec); err != nil {
		return coach.Coach{}, err
	}
	return rec.coach(), nil
}

func (repo *coachRepository) GetCoachByID(ctx context.Context, id string) (coach.Coach, error) {
	var rec coachRecord
	if err := repo.client.getOne(ctx, coachCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return coach.Coach{}, coach.ErrNotFound
		}
		return coach.Coach{}, err
	}
	return rec.coach(), nil
}

func (repo *coachRepository) QueryCoaches(ctx context.Context, isActive *bool) ([]coach.Coach, error) {
	var filter string
	if isActive != nil {
		filter = fmt.Sprintf("activo=%t", *isActive)
	}
	items, err := repo.client.getFullList(ctx, coachCollection, filter, "nombre")
	if err != nil {
		return nil, err
	}
	coaches := make([]coach.Coach, 0, len(items))
	for _, item := range items {
		var rec coachRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		coaches = append(coaches, rec.coach())
	}
	return coaches, nil
}

func (repo *coachRepository) UpdateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	var rec coachRecord
	if err := repo.client.update(ctx, coachCollection, c.ID, newCoachRecord(c), &rec); err != nil {
		if err == ErrNotFound {
			return coach.Coach{}, coach.ErrNotFound
		}
		return coach.Coach{}, err
	}
	return rec.coach(), nil
}

func (repo *coachRepository) SetCoachActive(ctx context.Context, id string, active bool) error {
	err := repo.client.update(ctx, coachCollection, id, map[string]interface{}{"activo": active}, nil)
	if err == ErrNotFound {
		return coach.ErrNotFound
	}
	return err
}
