package class_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/class"
	inmemdb "github.com/dvergarav/acuademia/storage/inmem"
	testutil "github.com/dvergarav/acuademia/tests"
)

type failingLinkRepo struct {
	class.LinkRepository
	failAfter int // fail CreateLink once this many links were created
	creates   int
}

func (r *failingLinkRepo) CreateLink(ctx context.Context, l class.ScheduleLink) (class.ScheduleLink, error) {
	if r.creates >= r.failAfter {
		return class.ScheduleLink{}, core.NewRemoteError("create", "clases_horarios", nil)
	}
	r.creates++
	return r.LinkRepository.CreateLink(ctx, l)
}

type classFixture struct {
	db      *inmemdb.DB
	repo    class.Repository
	slots   class.SlotRepository
	links   class.LinkRepository
	enrolls class.EnrollmentDeactivator
	svc     *class.Service
	coachID string
}

func newClassFixture(t *testing.T) *classFixture {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	repo := inmemdb.NewClassRepository(db)
	slots := inmemdb.NewSlotRepository(db)
	links := inmemdb.NewLinkRepository(db)
	enrolls := inmemdb.NewEnrollmentRepository(db)

	coach := testutil.CreateCoach(t, inmemdb.NewCoachRepository(db), "Jose", "Rondon", "v-14555666")

	return &classFixture{
		db:      db,
		repo:    repo,
		slots:   slots,
		links:   links,
		enrolls: enrolls,
		svc:     class.NewService(repo, slots, links, enrolls, testutil.NewLogger()),
		coachID: coach.ID,
	}
}

func (f *classFixture) newClass() class.NewClass {
	return class.NewClass{
		Name:        "Natacion Avanzada",
		MonthlyCost: 60,
		MinAge:      10,
		CoachID:     f.coachID,
		Schedule: []class.SlotInput{
			{Day: class.DayLunes, Time: "08:00"},
			{Day: class.DayMiercoles, Time: "08:00"},
		},
	}
}

func Test_CreateWithSchedule(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	entries, err := f.svc.Schedule(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, class.DayLunes, entries[0].Day)
	assert.Equal(t, class.DayMiercoles, entries[1].Day)
	assert.Equal(t, "08:00", entries[0].Time)
}

func Test_CreateWithSchedule_rollsBackOnLinkFailure(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	failing := &failingLinkRepo{LinkRepository: f.links, failAfter: 1}
	svc := class.NewService(f.repo, f.slots, failing, f.enrolls, testutil.NewLogger())

	_, err := svc.CreateWithSchedule(ctx, f.newClass())
	require.Error(t, err)

	// neither the class nor the surviving link remain
	classes, err := f.repo.QueryClasses(ctx, class.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func Test_SyncSchedule_reusesSlots(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c1, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	nc := f.newClass()
	nc.Name = "Natacion Master"
	c2, err := f.svc.CreateWithSchedule(ctx, nc)
	require.NoError(t, err)

	// both classes share the deduplicated slot catalog
	e1, err := f.svc.Schedule(ctx, c1.ID)
	require.NoError(t, err)
	e2, err := f.svc.Schedule(ctx, c2.ID)
	require.NoError(t, err)
	require.Len(t, e1, 2)
	require.Len(t, e2, 2)
	assert.Equal(t, e1[0].SlotID, e2[0].SlotID)
	assert.Equal(t, e1[1].SlotID, e2[1].SlotID)
}

func Test_SyncSchedule_replacesLinkSet(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	want := []class.SlotInput{
		{Day: class.DayViernes, Time: "16:00"},
	}
	require.NoError(t, f.svc.SyncSchedule(ctx, c.ID, want))

	entries, err := f.svc.Schedule(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, class.DayViernes, entries[0].Day)
	assert.Equal(t, "16:00", entries[0].Time)
}

func Test_SyncSchedule_isIdempotent(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	want := []class.SlotInput{
		{Day: class.DayLunes, Time: "08:00"},
		{Day: class.DayMiercoles, Time: "08:00"},
	}
	require.NoError(t, f.svc.SyncSchedule(ctx, c.ID, want))
	require.NoError(t, f.svc.SyncSchedule(ctx, c.ID, want))

	entries, err := f.svc.Schedule(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func Test_SyncSchedule_emptySetClears(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	require.NoError(t, f.svc.SyncSchedule(ctx, c.ID, nil))

	entries, err := f.svc.Schedule(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_Deactivate_cascadesToEnrollments(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	enrollRepo := inmemdb.NewEnrollmentRepository(f.db)
	athleteRepo := inmemdb.NewAthleteRepository(f.db)
	for i := 0; i < 3; i++ {
		ath := testutil.CreateAthlete(t, athleteRepo, "Atleta", "Test", "v-1000000", birthDate(t))
		testutil.CreateEnrollment(t, enrollRepo, ath.ID, c.ID)
	}

	require.NoError(t, f.svc.Deactivate(ctx, c.ID))

	got, err := f.svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	ids, err := enrollRepo.QueryActiveEnrollmentIDsByClass(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// already inactive: still succeeds
	require.NoError(t, f.svc.Deactivate(ctx, c.ID))
}

func Test_Deactivate_unknownClass(t *testing.T) {
	f := newClassFixture(t)

	err := f.svc.Deactivate(context.Background(), "missing")
	assert.Equal(t, class.ErrNotFound, err)
}

func Test_QueryForAge(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWithSchedule(ctx, f.newClass()) // MinAge 10
	require.NoError(t, err)

	nc := f.newClass()
	nc.Name = "Natacion Bebes"
	nc.MinAge = 1
	_, err = f.svc.CreateWithSchedule(ctx, nc)
	require.NoError(t, err)

	classes, err := f.svc.QueryForAge(ctx, 5)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Natacion Bebes", classes[0].Name)
}

func Test_CoachHasActiveClasses(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	busy, err := f.svc.CoachHasActiveClasses(ctx, f.coachID)
	require.NoError(t, err)
	assert.False(t, busy)

	c, err := f.svc.CreateWithSchedule(ctx, f.newClass())
	require.NoError(t, err)

	busy, err = f.svc.CoachHasActiveClasses(ctx, f.coachID)
	require.NoError(t, err)
	assert.True(t, busy)

	require.NoError(t, f.svc.Deactivate(ctx, c.ID))

	busy, err = f.svc.CoachHasActiveClasses(ctx, f.coachID)
	require.NoError(t, err)
	assert.False(t, busy)
}

func birthDate(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2010, time.May, 10, 0, 0, 0, 0, time.UTC)
}
