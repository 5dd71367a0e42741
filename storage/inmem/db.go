// Package inmemdb provides a non-persistent record store backed by in-memory
// maps. It implements every repository interface of the core packages and is
// the store of choice for tests and local development.
package inmemdb

import (
	"sync"

	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/coach"
	"github.com/dvergarav/acuademia/core/enrollment"
	"github.com/dvergarav/acuademia/core/user"
)

type (
	DB struct {
		user       *userTable
		athlete    *athleteTable
		coach      *coachTable
		class      *classTable
		slot       *slotTable
		link       *linkTable
		enrollment *enrollmentTable
		billing    *billingTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	athleteTable struct {
		sync.RWMutex
		table map[string]*athlete.Athlete
	}

	coachTable struct {
		sync.RWMutex
		table map[string]*coach.Coach
	}

	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}

	slotTable struct {
		sync.RWMutex
		table map[string]*class.ScheduleSlot
	}

	linkTable struct {
		sync.RWMutex
		table map[string]*class.ScheduleLink
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment
	}

	// billingTables groups the billing collections under one lock; the debt
	// report joins charges and payments and needs a consistent view of both.
	billingTables struct {
		sync.RWMutex
		charges  map[string]*billing.Charge
		payments map[string]*billing.Payment
		concepts map[string]*billing.Concept
		periods  map[string]*billing.Period
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		athlete:    &athleteTable{table: make(map[string]*athlete.Athlete)},
		coach:      &coachTable{table: make(map[string]*coach.Coach)},
		class:      &classTable{table: make(map[string]*class.Class)},
		slot:       &slotTable{table: make(map[string]*class.ScheduleSlot)},
		link:       &linkTable{table: make(map[string]*class.ScheduleLink)},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
		billing: &billingTables{
			charges:  make(map[string]*billing.Charge),
			payments: make(map[string]*billing.Payment),
			concepts: make(map[string]*billing.Concept),
			periods:  make(map[string]*billing.Period),
		},
	}
	return db, nil
}
