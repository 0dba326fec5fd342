package studio_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/archidraw/internal/db"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/phase"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/timeline"
)

// Thursday
var clock = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

type memStore struct {
	projects     []models.Project
	tasks        []models.Task
	stakeholders []models.Stakeholder
	settings     models.Settings
	fail         bool
	saves        int
}

func newMemStore() *memStore {
	return &memStore{
		projects:     db.SeedProjects(clock),
		stakeholders: db.SeedStakeholders(),
		settings:     models.DefaultSettings(),
	}
}

func (m *memStore) LoadProjects(context.Context, time.Time) ([]models.Project, error) {
	return m.projects, nil
}

func (m *memStore) LoadTasks(context.Context) ([]models.Task, error) { return m.tasks, nil }

func (m *memStore) LoadStakeholders(context.Context) ([]models.Stakeholder, error) {
	return m.stakeholders, nil
}

func (m *memStore) LoadSettings(context.Context) (models.Settings, error) { return m.settings, nil }

func (m *memStore) save() error {
	if m.fail {
		return errDiskFull
	}
	m.saves++
	return nil
}

func (m *memStore) SaveProjects(_ context.Context, p []models.Project) error {
	if err := m.save(); err != nil {
		return err
	}
	m.projects = p
	return nil
}

func (m *memStore) SaveTasks(_ context.Context, t []models.Task) error {
	if err := m.save(); err != nil {
		return err
	}
	m.tasks = t
	return nil
}

func (m *memStore) SaveStakeholders(_ context.Context, s []models.Stakeholder) error {
	if err := m.save(); err != nil {
		return err
	}
	m.stakeholders = s
	return nil
}

func (m *memStore) SaveSettings(_ context.Context, s models.Settings) error {
	if err := m.save(); err != nil {
		return err
	}
	m.settings = s
	return nil
}

type fakeSuggester struct {
	items []string
}

func (f fakeSuggester) Suggest(context.Context, string, string) []string { return f.items }

func newEngine() *phase.Engine {
	n := 0
	return &phase.Engine{
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
		Now: func() time.Time { return clock },
	}
}

func open(t *testing.T, store *memStore) *studio.Studio {
	t.Helper()

	s, err := studio.Open(context.Background(), store, newEngine(), fakeSuggester{items: []string{"Measure site", "Draft plan"}})
	require.NoError(t, err)
	return s
}

func TestReviewCycle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	store := newMemStore()
	s := open(t, store)

	task, err := s.StartPhase(ctx, "p1", models.PhaseLayout2D)
	require.NoError(t, err)
	assert.Equal("Layout 2D REV 1", task.Title)
	assert.Equal(store.tasks, s.State().Tasks)

	require.NoError(t, s.AssignReviewer(ctx, task.ID, "s1"))
	assert.Len(s.ReviewQueue("s1"), 1)
	assert.Equal(1, s.OpenLoad()["s1"])

	next, err := s.Reject(ctx, task.ID, "  Move the kitchen island  ")
	require.NoError(t, err)
	assert.Equal("Layout 2D REV 2", next.Title)
	require.Len(t, next.History, 1)
	assert.Equal("Move the kitchen island", next.History[0].Note)
	assert.Empty(s.ReviewQueue("s1"))

	require.NoError(t, s.AssignReviewer(ctx, next.ID, "s1"))
	ev, suggestions, err := s.Approve(ctx, next.ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(2, ev.Revision)
	assert.Equal([]models.Phase{models.PhaseMoodboard, models.PhaseLayout2D, models.Phase3DDesign}, suggestions)

	lineage := s.Lineage("p1", models.PhaseLayout2D)
	require.Len(t, lineage, 2)
	assert.Equal("Layout 2D REV 1 - REJECTED", lineage[0].Title)
	assert.Equal("Layout 2D REV 2 - APPROVED", lineage[1].Title)
	assert.Empty(s.OpenPhaseTasks("p1"))
}

func TestStartPhaseRefusesOpenPhase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := open(t, newMemStore())

	_, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)

	_, err = s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	assert.ErrorIs(t, err, studio.ErrPhaseOpen)
	assert.Len(t, s.State().Tasks, 1)

	task, err := s.StartPhase(ctx, "missing", models.PhaseMoodboard)
	assert.NoError(t, err)
	assert.Empty(t, task.ID)
}

func TestInvalidTransitionLeavesState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()
	s := open(t, store)

	task, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)
	saves := store.saves

	_, _, err = s.Approve(ctx, task.ID)
	assert.ErrorIs(t, err, phase.ErrInvalidTransition)

	_, err = s.Reject(ctx, task.ID, "too dark")
	assert.ErrorIs(t, err, phase.ErrInvalidTransition)

	assert.Equal(t, saves, store.saves)
	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusTodo, got.Status)
}

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	store := newMemStore()
	s := open(t, store)

	task, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)
	require.NoError(t, s.AssignReviewer(ctx, task.ID, "s2"))
	before := s.State()

	store.fail = true

	_, err = s.Reject(ctx, task.ID, "needs warmer palette")
	assert.ErrorIs(err, errDiskFull)
	assert.Equal(before, s.State())

	_, err = s.CreateProject(ctx, "Villa Canggu", "Ibu Maya", "")
	assert.ErrorIs(err, errDiskFull)
	assert.Len(s.State().Projects, 1)

	assert.ErrorIs(s.SetShortcut(ctx, models.ShortcutDate, false), errDiskFull)
	assert.True(s.State().Settings.Shortcuts.EnableDate)
}

func TestCompose(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	s := open(t, newMemStore())

	parent, err := s.StartPhase(ctx, "p1", models.PhaseMaterials)
	require.NoError(t, err)

	sub, res, err := s.Compose(ctx, parent.ID, "Order marble samples p1 @rina tomorrow")
	require.NoError(t, err)
	assert.Equal("Order marble samples", sub.Title)
	assert.Equal(models.P1, sub.Priority)
	require.NotNil(t, sub.DueDate)
	assert.Equal(time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), *sub.DueDate)
	assert.Equal("s3", res.StakeholderID)
	assert.Equal(parent.ID, sub.ParentID)

	sub, _, err = s.Compose(ctx, parent.ID, "Confirm grout colour")
	require.NoError(t, err)
	assert.Equal(models.P3, sub.Priority)
	assert.Nil(sub.DueDate)

	_, _, err = s.Compose(ctx, parent.ID, "  p2 today ")
	assert.ErrorIs(err, studio.ErrEmptyTitle)

	assert.Len(s.Subtasks(parent.ID), 2)
}

func TestComposeRespectsShortcutSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := open(t, newMemStore())

	parent, err := s.StartPhase(ctx, "p1", models.PhaseMaterials)
	require.NoError(t, err)
	require.NoError(t, s.SetShortcut(ctx, models.ShortcutPriority, false))

	sub, _, err := s.Compose(ctx, parent.ID, "Check p1 tiles")
	require.NoError(t, err)
	assert.Equal(t, "Check p1 tiles", sub.Title)
	assert.Equal(t, models.P3, sub.Priority)
}

func TestAssignReviewerByMention(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	s := open(t, newMemStore())

	first, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)
	second, err := s.StartPhase(ctx, "p1", models.PhaseLayout2D)
	require.NoError(t, err)

	st, err := s.AssignReviewerByMention(ctx, first.ID, "@budi")
	require.NoError(t, err)
	assert.Equal("s2", st.ID)

	st, err = s.AssignReviewerByMention(ctx, second.ID, "Pak Harto")
	require.NoError(t, err)
	assert.Equal("Pak Harto", st.Name)
	assert.Equal(models.RoleInternal, st.Role)
	assert.Len(s.State().Stakeholders, 6)

	got, _ := s.Task(second.ID)
	assert.Equal(st.ID, got.BallWith)
	assert.Equal(models.StatusInReview, got.Status)

	_, err = s.AssignReviewerByMention(ctx, first.ID, "@")
	assert.ErrorIs(err, phase.ErrInvalidTransition)
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	s := open(t, newMemStore())

	parent, err := s.StartPhase(ctx, "p1", models.Phase3DDesign)
	require.NoError(t, err)

	items := s.Suggest(ctx, parent.ID)
	assert.Equal([]string{"Measure site", "Draft plan"}, items)
	assert.Empty(s.Suggest(ctx, "missing"))

	added, err := s.AddSuggestions(ctx, parent.ID, append(items, "   "))
	require.NoError(t, err)
	require.Len(t, added, 2)
	for _, sub := range added {
		assert.Equal(models.P3, sub.Priority)
		assert.Equal(models.Phase3DDesign, sub.Phase)
	}
	assert.Len(s.Subtasks(parent.ID), 2)
}

func TestDeleteAndToggle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	s := open(t, newMemStore())

	parent, err := s.StartPhase(ctx, "p1", models.PhaseConstruction)
	require.NoError(t, err)
	sub, _, err := s.Compose(ctx, parent.ID, "Site visit")
	require.NoError(t, err)

	require.NoError(t, s.ToggleSubtask(ctx, sub.ID))
	got, _ := s.Task(sub.ID)
	assert.Equal(models.StatusCompleted, got.Status)

	require.NoError(t, s.DeleteTask(ctx, parent.ID))
	assert.Empty(s.State().Tasks)
	assert.NoError(s.DeleteTask(ctx, "missing"))
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := open(t, newMemStore())

	parent, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)

	title := "Moodboard warm palette"
	p := models.P1
	require.NoError(t, s.UpdateTask(ctx, parent.ID, phase.TaskUpdate{Title: &title, Priority: &p}))

	got, _ := s.Task(parent.ID)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, models.P1, got.Priority)
}

func TestProjectsAndSchedule(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	s := open(t, newMemStore())

	p, err := s.CreateProject(ctx, "Villa Canggu", "Ibu Maya", "Tropical")
	require.NoError(t, err)
	assert.Equal(models.P2, p.Priority)
	assert.Equal(clock, p.StartDate)
	assert.Len(s.ActiveProjects(), 2)

	_, err = s.CreateProject(ctx, "", "", "")
	assert.ErrorIs(err, studio.ErrEmptyTitle)

	require.NoError(t, s.ToggleArchive(ctx, "p1"))
	active := s.ActiveProjects()
	require.Len(t, active, 1)
	assert.Equal(p.ID, active[0].ID)

	require.NoError(t, s.RescheduleProject(ctx, p.ID, 1, timeline.EdgeBoth))
	got, _ := s.Project(p.ID)
	assert.Equal(time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC), got.StartDate)

	// Friday + 1 business day lands on Monday
	require.NoError(t, s.RescheduleProject(ctx, p.ID, 1, timeline.EdgeStart))
	got, _ = s.Project(p.ID)
	assert.Equal(time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC), got.StartDate)
}

func TestStakeholders(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	store := newMemStore()
	s := open(t, store)

	st, err := s.AddStakeholder(ctx, " Arief Lighting ", models.RoleVendor)
	require.NoError(t, err)
	assert.Equal("Arief Lighting", st.Name)
	assert.Len(store.stakeholders, 6)

	require.NoError(t, s.RemoveStakeholder(ctx, st.ID))
	_, ok := s.Stakeholder(st.ID)
	assert.False(ok)
	assert.Len(store.stakeholders, 5)
}

func TestOpenWithDatabase(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "studio.db")

	store, err := db.New(path)
	require.NoError(t, err)

	s, err := studio.Open(ctx, store, newEngine(), nil)
	require.NoError(t, err)
	task, err := s.StartPhase(ctx, "p1", models.PhaseMoodboard)
	require.NoError(t, err)
	assert.Empty(s.Suggest(ctx, task.ID))
	require.NoError(t, store.Close())

	store, err = db.New(path)
	require.NoError(t, err)
	defer store.Close()

	reopened, err := studio.Open(ctx, store, newEngine(), nil)
	require.NoError(t, err)
	got, ok := reopened.Task(task.ID)
	assert.True(ok)
	assert.Equal("Moodboard REV 1", got.Title)
	assert.Len(reopened.State().Stakeholders, 5)
}
