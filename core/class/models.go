package class

import "time"

// Days of week as stored in the slot catalog.
const (
	DayLunes     = "LUNES"
	DayMartes    = "MARTES"
	DayMiercoles = "MIERCOLES"
	DayJueves    = "JUEVES"
	DayViernes   = "VIERNES"
	DaySabado    = "SABADO"
	DayDomingo   = "DOMINGO"
)

type (
	// Class is a recurring offering with a cost, a minimum age and one coach
	// ("clases" collection).
	Class struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		MonthlyCost float64   `json:"monthly_cost"`
		MinAge      int       `json:"min_age"`
		CoachID     string    `json:"coach_id"`
		IsActive    bool      `json:"is_active"`
		CreatedAt   time.Time `json:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at"` // UTC
	}

	// ScheduleSlot is a deduplicated (day, time) pair shared across all
	// classes ("horarios" collection). At most one row exists per pair.
	ScheduleSlot struct {
		ID   string `json:"id"`
		Day  string `json:"day"`
		Time string `json:"time"` // "08:00"
	}

	// ScheduleLink joins a Class to a ScheduleSlot ("clases_horarios").
	// The link set for a class is fully replaced on every schedule edit.
	ScheduleLink struct {
		ID        string    `json:"id"`
		ClassID   string    `json:"class_id"`
		SlotID    string    `json:"slot_id"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	// SlotInput is one desired (day, time) pair in a schedule submission.
	// The authoring form already refuses duplicate pairs.
	SlotInput struct {
		Day  string `json:"day" validate:"required,dayofweek"`
		Time string `json:"time" validate:"required,timeblock"`
	}

	// ScheduleEntry is a link joined with its slot, in link creation order.
	ScheduleEntry struct {
		LinkID string `json:"link_id"`
		SlotID string `json:"slot_id"`
		Day    string `json:"day"`
		Time   string `json:"time"`
	}
)

// NewClass contains information needed to create a new Class with its schedule.
type NewClass struct {
	Name        string      `json:"name" validate:"required"`
	MonthlyCost float64     `json:"monthly_cost" validate:"gte=0"`
	MinAge      int         `json:"min_age" validate:"gte=0"`
	CoachID     string      `json:"coach_id" validate:"required"`
	Schedule    []SlotInput `json:"schedule" validate:"required,min=1,dive"`
}

// UpdateClass defines what information may be provided to modify an existing
// Class. The schedule is edited separately through SyncSchedule.
type UpdateClass struct {
	Name        string   `json:"name"`
	MonthlyCost *float64 `json:"monthly_cost" validate:"omitempty,gte=0"`
	MinAge      *int     `json:"min_age" validate:"omitempty,gte=0"`
	CoachID     string   `json:"coach_id"`
}

// QueryFilter narrows class listings.
type QueryFilter struct {
	IsActive *bool  `query:"is_active"`
	MaxAge   *int   `query:"age"` // only classes whose MinAge <= MaxAge
	CoachID  string `query:"coach_id"`
}
