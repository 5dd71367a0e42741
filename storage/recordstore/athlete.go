package recordstore

import (
	"context"
	"encoding/json"

	"github.com/volatiletech/null/v8"

	"github.com/dvergarav/acuademia/core/athlete"
)

const athleteCollection = "atletas"

// athleteRecord is the wire shape of an "atletas" row.
type athleteRecord struct {
	ID                 string `json:"id,omitempty"`
	Name               string `json:"nombre"`
	Surname            string `json:"apellido"`
	IDDocument         string `json:"cedula"`
	Phone              string `json:"telefono"`
	Address            string `json:"direccion"`
	Email              string `json:"email,omitempty"`
	BirthDate          string `json:"fecha_nacimiento"`
	GuardianName       string `json:"representante_nombre,omitempty"`
	GuardianIDDocument string `json:"representante_cedula,omitempty"`
	MedicalNote        string `json:"condicion_medica,omitempty"`
	IsActive           bool   `json:"activo"`
	Created            string `json:"created,omitempty"`
	Updated            string `json:"updated,omitempty"`
}

func newAthleteRecord(ath athlete.Athlete) athleteRecord {
	return athleteRecord{
		Name:               ath.Name,
		Surname:            ath.Surname,
		IDDocument:         ath.IDDocument,
		Phone:              ath.Phone,
		Address:            ath.Address,
		Email:              ath.Email.String,
		BirthDate:          formatTime(ath.BirthDate),
		GuardianName:       ath.GuardianName.String,
		GuardianIDDocument: ath.GuardianIDDocument.String,
		MedicalNote:        ath.MedicalNote.String,
		IsActive:           ath.IsActive,
	}
}

func (rec athleteRecord) athlete() athlete.Athlete {
	return athlete.Athlete{
		ID:                 rec.ID,
		Name:               rec.Name,
		Surname:            rec.Surname,
		IDDocument:         rec.IDDocument,
		Phone:              rec.Phone,
		Address:            rec.Address,
		Email:              null.NewString(rec.Email, rec.Email != ""),
		BirthDate:          parseTime(rec.BirthDate),
		GuardianName:       null.NewString(rec.GuardianName, rec.GuardianName != ""),
		GuardianIDDocument: null.NewString(rec.GuardianIDDocument, rec.GuardianIDDocument != ""),
		MedicalNote:        null.NewString(rec.MedicalNote, rec.MedicalNote != ""),
		IsActive:           rec.IsActive,
		CreatedAt:          parseTime(rec.Created),
		UpdatedAt:          parseTime(rec.Updated),
	}
}

type athleteRepository struct {
	client *Client
}

var _ athlete.Repository = (*athleteRepository)(nil) // interface compliance check

func NewAthleteRepository(client *Client) athlete.Repository {
	return &athleteRepository{client: client}
}

func (repo *athleteRepository) CreateAthlete(ctx context.Context, ath athlete.Athlete) (athlete.Athlete, error) {
	var rec athleteRecord
	if err := repo.client.create(ctx, athleteCollection, newAthleteRecord(ath), &rec); err != nil {
		return athlete.Athlete{}, err
	}
	return rec.athlete(), nil
}

func (repo *athleteRepository) GetAthleteByID(ctx context.Context, id string) (athlete.Athlete, error) {
	var rec athleteRecord
	if err := repo.client.getOne(ctx, athleteCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return athlete.Athlete{}, athlete.ErrNotFound
		}
		return athlete.Athlete{}, err
	}
	return rec.athlete(), nil
}

func (repo *athleteRepository) QueryActiveAthletes(ctx context.Context) ([]athlete.Athlete, error) {
	items, err := repo.client.getFullList(ctx, athleteCollection, "activo=true", "nombre")
	if err != nil {
		return nil, err
	}
	athletes := make([]athlete.Athlete, 0, len(items))
	for _, item := range items {
		var rec athleteRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		athletes = append(athletes, rec.athlete())
	}
	return athletes, nil
}

func (repo *athleteRepository) UpdateAthlete(ctx context.Context, ath athlete.Athlete) (athlete.Athlete, error) {
	var rec athleteRecord
	if err := repo.client.update(ctx, athleteCollection, ath.ID, newAthleteRecord(ath), &rec); err != nil {
		if err == ErrNotFound {
			return athlete.Athlete{}, athlete.ErrNotFound
		}
		return athlete.Athlete{}, err
	}
	return rec.athlete(), nil
}

func (repo *athleteRepository) SetAthleteActive(ctx context.Context, id string, active bool) error {
	err := repo.client.update(ctx, athleteCollection, id, map[string]interface{}{"activo": active}, nil)
	if err == ErrNotFound {
		return athlete.ErrNotFound
	}
	return err
}

func (repo *athleteRepository) DeleteAthlete(ctx context.Context, id string) error {
	err := repo.client.delete(ctx, athleteCollection, id)
	if err == ErrNotFound {
		return athlete.ErrNotFound
	}
	return err
}
