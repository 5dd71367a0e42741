package coach_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/coach"
	inmemdb "github.com/dvergarav/acuademia/storage/inmem"
	testutil "github.com/dvergarav/acuademia/tests"
)

func validate() *validator.Validate {
	v := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(v, translator)
	return v
}

func setup(t *testing.T) (*coach.Service, *class.Service, coach.Repository, *inmemdb.DB) {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	coachRepo := inmemdb.NewCoachRepository(db)
	classSvc := class.NewService(
		inmemdb.NewClassRepository(db),
		inmemdb.NewSlotRepository(db),
		inmemdb.NewLinkRepository(db),
		inmemdb.NewEnrollmentRepository(db),
		testutil.NewLogger(),
	)
	return coach.NewService(coachRepo, classSvc), classSvc, coachRepo, db
}

func Test_SetActive_deactivationGuard(t *testing.T) {
	svc, classSvc, coachRepo, _ := setup(t)
	ctx := context.Background()

	c := testutil.CreateCoach(t, coachRepo, "Luis", "Marin", "v-16777888")

	cls, err := classSvc.CreateWithSchedule(ctx, class.NewClass{
		Name:        "Natacion Adultos",
		MonthlyCost: 45,
		MinAge:      18,
		CoachID:     c.ID,
		Schedule:    []class.SlotInput{{Day: class.DaySabado, Time: "10:00"}},
	})
	require.NoError(t, err)

	// refused while an active class references the coach
	err = svc.SetActive(ctx, c.ID, false)
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	// the flag is unchanged
	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	// once the class is retired, deactivation goes through
	require.NoError(t, classSvc.Deactivate(ctx, cls.ID))
	require.NoError(t, svc.SetActive(ctx, c.ID, false))

	got, err = svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// and can be reversed freely
	require.NoError(t, svc.SetActive(ctx, c.ID, true))
}

func Test_SetActive_unknownCoach(t *testing.T) {
	svc, _, _, _ := setup(t)

	err := svc.SetActive(context.Background(), "missing", false)
	assert.Equal(t, coach.ErrNotFound, err)
}

func Test_Create_and_Query(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	nc := coach.NewCoach{
		Name:       "  Carla ",
		Surname:    "Diaz",
		IDDocument: "V-18999000",
		Phone:      "0412-5550303",
	}
	require.NoError(t, nc.Validate(validate()))

	c, err := svc.Create(ctx, nc)
	require.NoError(t, err)
	assert.Equal(t, "Carla", c.Name)
	assert.Equal(t, "v-18999000", c.IDDocument) // normalized lowercase
	assert.True(t, c.IsActive)
	assert.False(t, c.Address.Valid)

	active := true
	coaches, err := svc.Query(ctx, &active)
	require.NoError(t, err)
	assert.Len(t, coaches, 1)
}
