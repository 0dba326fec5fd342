package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/timeline"
	"github.com/tgienger/archidraw/internal/workday"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func project() models.Project {
	return models.Project{
		ID:         "p1",
		Name:       "Penthouse",
		Priority:   models.P1,
		StartDate:  day(time.October, 15), // Thursday
		EndDate:    day(time.October, 23), // Friday
		ClientName: "Bapak Surya",
	}
}

func TestShiftProjectBoth(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	p := timeline.ShiftProject(project(), 2, timeline.EdgeBoth)
	assert.Equal(day(time.October, 19), p.StartDate)
	assert.Equal(day(time.October, 27), p.EndDate)
	assert.Equal("Bapak Surya", p.ClientName)

	back := timeline.ShiftProject(p, -2, timeline.EdgeBoth)
	assert.Equal(project(), back)
}

func TestShiftProjectEdges(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	p := timeline.ShiftProject(project(), -1, timeline.EdgeStart)
	assert.Equal(day(time.October, 14), p.StartDate)
	assert.Equal(day(time.October, 23), p.EndDate)

	p = timeline.ShiftProject(project(), 1, timeline.EdgeEnd)
	assert.Equal(day(time.October, 15), p.StartDate)
	assert.Equal(day(time.October, 26), p.EndDate)
}

func TestShiftProjectEdgeClamps(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	p := timeline.ShiftProject(project(), 20, timeline.EdgeStart)
	assert.Equal(p.EndDate, p.StartDate)

	p = timeline.ShiftProject(project(), -20, timeline.EdgeEnd)
	assert.Equal(p.StartDate, p.EndDate)
	assert.Equal(day(time.October, 15), p.StartDate)
}

func TestShiftTaskUsesEffectiveRange(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	created := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC) // Friday
	task := models.Task{ID: "t1", Title: "Moodboard REV 1", CreatedAt: created, Status: models.StatusTodo}

	both := timeline.ShiftTask(task, 1, timeline.EdgeBoth)
	require.NotNil(t, both.StartDate)
	require.NotNil(t, both.DueDate)
	assert.Equal(time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC), *both.StartDate)
	assert.Equal(*both.StartDate, *both.DueDate)
	assert.Equal(created, both.CreatedAt)
	assert.Equal(task.Title, both.Title)

	end := timeline.ShiftTask(task, 3, timeline.EdgeEnd)
	assert.Nil(end.StartDate)
	require.NotNil(t, end.DueDate)
	assert.Equal(time.Date(2026, time.October, 21, 9, 0, 0, 0, time.UTC), *end.DueDate)

	// moving the start of a single-day task forward collapses onto its end
	start := timeline.ShiftTask(task, 1, timeline.EdgeStart)
	require.NotNil(t, start.StartDate)
	assert.Nil(start.DueDate)
	assert.Equal(created, *start.StartDate)
}

func TestShiftTaskZeroDelta(t *testing.T) {
	t.Parallel()

	task := models.Task{ID: "t1", CreatedAt: day(time.October, 16)}
	assert.Equal(t, task, timeline.ShiftTask(task, 0, timeline.EdgeBoth))
}

func TestRescheduleCollections(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	projects := []models.Project{project(), {ID: "p2", StartDate: day(time.October, 12), EndDate: day(time.October, 13)}}
	out := timeline.RescheduleProject(projects, "p2", 1, timeline.EdgeBoth)
	assert.Equal(day(time.October, 13), out[1].StartDate)
	assert.Equal(day(time.October, 12), projects[1].StartDate)
	assert.Equal(projects[0], out[0])
	assert.Equal(projects, timeline.RescheduleProject(projects, "missing", 1, timeline.EdgeBoth))

	tasks := []models.Task{{ID: "t1", CreatedAt: day(time.October, 12), DueDate: ptr(day(time.October, 14))}}
	shifted := timeline.RescheduleTask(tasks, "t1", -1, timeline.EdgeEnd)
	assert.Equal(day(time.October, 13), *shifted[0].DueDate)
	assert.Equal(day(time.October, 14), *tasks[0].DueDate)
	assert.Equal(tasks, timeline.RescheduleTask(tasks, "missing", 1, timeline.EdgeEnd))
}

func TestBars(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	w := workday.BuildWindow(day(time.October, 18), workday.DefaultWindowSize)

	bar := timeline.ProjectBar(w, project())
	assert.InDelta(3.0/45*100, bar.Left, 1e-9)
	assert.InDelta(6.0/45*100, bar.Width, 1e-9)

	task := models.Task{CreatedAt: day(time.October, 12)}
	tb := timeline.TaskBar(w, task)
	assert.Equal(0.0, tb.Left)
	assert.Equal(3.0, tb.Width)
}

func TestParseEdge(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	for _, e := range []timeline.Edge{timeline.EdgeBoth, timeline.EdgeStart, timeline.EdgeEnd} {
		got, err := timeline.ParseEdge(e.String())
		assert.NoError(err)
		assert.Equal(e, got)
	}
	_, err := timeline.ParseEdge("middle")
	assert.Error(err)
}

func TestCells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bar      timeline.Bar
		from, to int
		ok       bool
	}{
		{"inside", timeline.Bar{Left: 10, Width: 20}, 10, 30, true},
		{"clipped left", timeline.Bar{Left: workday.OffLeft, Width: 25}, 0, 20, true},
		{"clipped right", timeline.Bar{Left: 90, Width: 15}, 90, 100, true},
		{"narrow still shows", timeline.Bar{Left: 50, Width: 0.1}, 50, 51, true},
		{"before window", timeline.Bar{Left: workday.OffLeft, Width: 4}, 0, 0, false},
		{"after window", timeline.Bar{Left: workday.OffRight, Width: 4}, 0, 0, false},
		{"not placed", timeline.Bar{Left: workday.NotPlaced, Width: 200}, 0, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, to, ok := timeline.Cells(tt.bar, 100)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.from, from)
				assert.Equal(t, tt.to, to)
			}
		})
	}
}
