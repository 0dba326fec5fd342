// Package timeline reschedules projects and tasks in business days and places them on
// the workday window.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/workday"
)

// Edge selects which boundary of a date range moves
type Edge int

const (
	EdgeBoth Edge = iota
	EdgeStart
	EdgeEnd
)

func (e Edge) String() string {
	switch e {
	case EdgeBoth:
		return "both"
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	}
	return "unknown"
}

// ParseEdge maps "both", "start" or "end" to an Edge
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "both", "":
		return EdgeBoth, nil
	case "start":
		return EdgeStart, nil
	case "end":
		return EdgeEnd, nil
	}
	return EdgeBoth, fmt.Errorf("unknown edge %q", s)
}

// Minimum bar widths, in percent of the window
const (
	minProjectWidth = 4.0
	minTaskWidth    = 3.0
)

// Bar is an entity's placement on the timeline in percent of the window
type Bar struct {
	Left  float64
	Width float64
}

// shiftRange moves one or both ends of [start, end]. A single edge never crosses the
// other: it stops at the opposite boundary, so a range can collapse but not invert.
func shiftRange(start, end time.Time, delta int, edge Edge) (time.Time, time.Time) {
	switch edge {
	case EdgeStart:
		moved := workday.Shift(start, delta)
		if moved.After(end) {
			moved = end
		}
		return moved, end
	case EdgeEnd:
		moved := workday.Shift(end, delta)
		if moved.Before(start) {
			moved = start
		}
		return start, moved
	default:
		return workday.Shift(start, delta), workday.Shift(end, delta)
	}
}

// ShiftProject moves a project's start and/or end date by delta business days
func ShiftProject(p models.Project, delta int, edge Edge) models.Project {
	if delta == 0 {
		return p
	}
	p.StartDate, p.EndDate = shiftRange(p.StartDate, p.EndDate, delta, edge)
	return p
}

// TaskRange returns a task's effective start and end. Without a start date the task
// starts when it was created; without a due date it ends where it starts.
func TaskRange(t models.Task) (time.Time, time.Time) {
	start := t.CreatedAt
	if t.StartDate != nil {
		start = *t.StartDate
	}
	end := start
	if t.DueDate != nil {
		end = *t.DueDate
	}
	return start, end
}

// ShiftTask moves a task's start and/or due date by delta business days. Only the
// boundaries being moved are written back; all other fields are preserved.
func ShiftTask(t models.Task, delta int, edge Edge) models.Task {
	if delta == 0 {
		return t
	}
	start, end := TaskRange(t)
	newStart, newEnd := shiftRange(start, end, delta, edge)

	if edge == EdgeBoth || edge == EdgeStart {
		t.StartDate = &newStart
	}
	if edge == EdgeBoth || edge == EdgeEnd {
		t.DueDate = &newEnd
	}
	return t
}

// RescheduleProject applies ShiftProject to the project with the given id
func RescheduleProject(projects []models.Project, id string, delta int, edge Edge) []models.Project {
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		out := make([]models.Project, len(projects))
		copy(out, projects)
		out[i] = ShiftProject(out[i], delta, edge)
		return out
	}
	return projects
}

// RescheduleTask applies ShiftTask to the task with the given id
func RescheduleTask(tasks []models.Task, id string, delta int, edge Edge) []models.Task {
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		out[i] = ShiftTask(out[i], delta, edge)
		return out
	}
	return tasks
}

// ProjectBar places a project on the window
func ProjectBar(w workday.Window, p models.Project) Bar {
	return place(w, p.StartDate, p.EndDate, minProjectWidth)
}

// TaskBar places a task on the window using its effective range
func TaskBar(w workday.Window, t models.Task) Bar {
	start, end := TaskRange(t)
	return place(w, start, end, minTaskWidth)
}

func place(w workday.Window, start, end time.Time, minWidth float64) Bar {
	left := w.Position(&start)
	right := w.Position(&end)
	width := right - left
	if width < minWidth {
		width = minWidth
	}
	return Bar{Left: left, Width: width}
}

// Cells converts a bar into the [from, to) columns of a track that is track cells
// wide. A bar entirely outside the window reports ok=false.
func Cells(b Bar, track int) (from, to int, ok bool) {
	if b.Left == workday.NotPlaced || track <= 0 {
		return 0, 0, false
	}
	left := math.Max(b.Left, 0)
	right := math.Min(b.Left+b.Width, 100)
	if right <= 0 || left >= 100 || right <= left {
		return 0, 0, false
	}
	from = int(left * float64(track) / 100)
	to = int(math.Ceil(right * float64(track) / 100))
	if to <= from {
		to = from + 1
	}
	return from, min(to, track), true
}
