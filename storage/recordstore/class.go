package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvergarav/acuademia/core/class"
)

const (
	classCollection = "clases"
	slotCollection  = "horarios"
	linkCollection  = "clases_horarios"
)

type classRecord struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"nombre"`
	MonthlyCost float64 `json:"costo"`
	MinAge      int     `json:"edadMin"`
	CoachID     string  `json:"entrenador_id"`
	IsActive    bool    `json:"activo"`
	Created     string  `json:"created,omitempty"`
	Updated     string  `json:"updated,omitempty"`
}

func newClassRecord(c class.Class) classRecord {
	return classRecord{
		Name:        c.Name,
		MonthlyCost: c.MonthlyCost,
		MinAge:      c.MinAge,
		CoachID:     c.CoachID,
		IsActive:    c.IsActive,
	}
}

func (rec classRecord) class() class.Class {
	return class.Class{
		ID:          rec.ID,
		Name:        rec.Name,
		MonthlyCost: rec.MonthlyCost,
		MinAge:      rec.MinAge,
		CoachID:     rec.CoachID,
		IsActive:    rec.IsActive,
		CreatedAt:   parseTime(rec.Created),
		UpdatedAt:   parseTime(rec.Updated),
	}
}

type slotRecord struct {
	ID   string `json:"id,omitempty"`
	Day  string `json:"dia"`
	Time string `json:"hora"`
}

func (rec slotRecord) slot() class.ScheduleSlot {
	return class.ScheduleSlot{ID: rec.ID, Day: rec.Day, Time: rec.Time}
}

type linkRecord struct {
	ID      string `json:"id,omitempty"`
	ClassID string `json:"clase_id"`
	SlotID  string `json:"horario_id"`
	Created string `json:"created,omitempty"`
}

func (rec linkRecord) link() class.ScheduleLink {
	return class.ScheduleLink{
		ID:        rec.ID,
		ClassID:   rec.ClassID,
		SlotID:    rec.SlotID,
		CreatedAt: parseTime(rec.Created),
	}
}

type classRepository struct {
	client *Client
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(client *Client) class.Repository {
	return &classRepository{client: client}
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	var rec classRecord
	if err := repo.client.create(ctx, classCollection, newClassRecord(c), &rec); err != nil {
		return class.Class{}, err
	}
	return rec.class(), nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	var rec classRecord
	if err := repo.client.getOne(ctx, classCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, err
	}
	return rec.class(), nil
}

func (repo *classRepository) QueryClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	var terms []string
	if filter.IsActive != nil {
		terms = append(terms, fmt.Sprintf("activo=%t", *filter.IsActive))
	}
	if filter.MaxAge != nil {
		terms = append(terms, fmt.Sprintf("edadMin<=%d", *filter.MaxAge))
	}
	if filter.CoachID != "" {
		terms = append(terms, "entrenador_id="+quote(filter.CoachID))
	}
	items, err := repo.client.getFullList(ctx, classCollection, strings.Join(terms, " && "), "created")
	if err != nil {
		return nil, err
	}
	classes := make([]class.Class, 0, len(items))
	for _, item := range items {
		var rec classRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		classes = append(classes, rec.class())
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	var rec classRecord
	if err := repo.client.update(ctx, classCollection, c.ID, newClassRecord(c), &rec); err != nil {
		if err == ErrNotFound {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, err
	}
	return rec.class(), nil
}

func (repo *classRepository) SetClassActive(ctx context.Context, id string, active bool) error {
	err := repo.client.update(ctx, classCollection, id, map[string]interface{}{"activo": active}, nil)
	if err == ErrNotFound {
		return class.ErrNotFound
	}
	return err
}

func (repo *classRepository) HasActiveClassByCoach(ctx context.Context, coachID string) (bool, error) {
	var rec classRecord
	filter := "entrenador_id=" + quote(coachID) + " && activo=true"
	if err := repo.client.getFirstMatch(ctx, classCollection, filter, &rec); err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	err := repo.client.delete(ctx, classCollection, id)
	if err == ErrNotFound {
		return class.ErrNotFound
	}
	return err
}

type slotRepository struct {
	client *Client
}

var _ class.SlotRepository = (*slotRepository)(nil) // interface compliance check

func NewSlotRepository(client *Client) class.SlotRepository {
	return &slotRepository{client: client}
}

func (repo *slotRepository) GetSlotByDayTime(ctx context.Context, day, time string) (class.ScheduleSlot, error) {
	var rec slotRecord
	filter := "dia=" + quote(day) + " && hora=" + quote(time)
	if err := repo.client.getFirstMatch(ctx, slotCollection, filter, &rec); err != nil {
		if err == ErrNotFound {
			return class.ScheduleSlot{}, class.ErrSlotNotFound
		}
		return class.ScheduleSlot{}, err
	}
	return rec.slot(), nil
}

func (repo *slotRepository) GetSlotByID(ctx context.Context, id string) (class.ScheduleSlot, error) {
	var rec slotRecord
	if err := repo.client.getOne(ctx, slotCollection, id, &rec); err != nil {
		if err == ErrNotFound {
			return class.ScheduleSlot{}, class.ErrSlotNotFound
		}
		return class.ScheduleSlot{}, err
	}
	return rec.slot(), nil
}

func (repo *slotRepository) CreateSlot(ctx context.Context, s class.ScheduleSlot) (class.ScheduleSlot, error) {
	var rec slotRecord
	if err := repo.client.create(ctx, slotCollection, slotRecord{Day: s.Day, Time: s.Time}, &rec); err != nil {
		return class.ScheduleSlot{}, err
	}
	return rec.slot(), nil
}

type linkRepository struct {
	client *Client
}

var _ class.LinkRepository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(client *Client) class.LinkRepository {
	return &linkRepository{client: client}
}

func (repo *linkRepository) QueryLinksByClass(ctx context.Context, classID string) ([]class.ScheduleLink, error) {
	items, err := repo.client.getFullList(ctx, linkCollection, "clase_id="+quote(classID), "created")
	if err != nil {
		return nil, err
	}
	links := make([]class.ScheduleLink, 0, len(items))
	for _, item := range items {
		var rec linkRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		links = append(links, rec.link())
	}
	return links, nil
}

func (repo *linkRepository) CreateLink(ctx context.Context, l class.ScheduleLink) (class.ScheduleLink, error) {
	var rec linkRecord
	if err := repo.client.create(ctx, linkCollection, linkRecord{ClassID: l.ClassID, SlotID: l.SlotID}, &rec); err != nil {
		return class.ScheduleLink{}, err
	}
	return rec.link(), nil
}

func (repo *linkRepository) DeleteLink(ctx context.Context, id string) error {
	err := repo.client.delete(ctx, linkCollection, id)
	if err == ErrNotFound {
		return nil
	}
	return err
}
