package phase

import (
	"sort"
	"strings"
	"time"

	"github.com/tgienger/archidraw/internal/models"
)

// maxNextPhaseSuggestions caps the phases offered after an approval
const maxNextPhaseSuggestions = 3

// AvailablePhases returns the phases that can be started for a project: every phase
// without an open top-level task, in canonical order.
func AvailablePhases(tasks []models.Task, projectID string) []models.Phase {
	open := make(map[models.Phase]bool)
	for _, t := range tasks {
		if t.ProjectID == projectID && t.IsPhaseTask() && t.Open() {
			open[t.Phase] = true
		}
	}

	var phases []models.Phase
	for _, p := range models.Phases {
		if !open[p] {
			phases = append(phases, p)
		}
	}
	return phases
}

// NextPhaseSuggestions picks the phases to offer right after an approval
func NextPhaseSuggestions(available []models.Phase) []models.Phase {
	if len(available) > maxNextPhaseSuggestions {
		return available[:maxNextPhaseSuggestions]
	}
	return available
}

// OpenPhaseTasks lists the project's non-completed phase tasks in phase order
func OpenPhaseTasks(tasks []models.Task, projectID string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.ProjectID == projectID && t.IsPhaseTask() && t.Open() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return phaseRank(out[i].Phase) < phaseRank(out[j].Phase)
	})
	return out
}

// Subtasks lists the instructions under a phase task in creation order
func Subtasks(tasks []models.Task, parentID string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.ParentID == parentID && parentID != "" {
			out = append(out, t)
		}
	}
	return out
}

// Lineage returns every revision of a phase for a project, oldest first
func Lineage(tasks []models.Task, projectID string, p models.Phase) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.ProjectID == projectID && t.Phase == p && t.IsPhaseTask() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revision < out[j].Revision })
	return out
}

// ReviewQueue lists the phase tasks currently waiting on a stakeholder
func ReviewQueue(tasks []models.Task, stakeholderID string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status == models.StatusInReview && t.BallWith == stakeholderID {
			out = append(out, t)
		}
	}
	return out
}

// OpenLoad counts non-completed tasks held by each stakeholder
func OpenLoad(tasks []models.Task) map[string]int {
	load := make(map[string]int)
	for _, t := range tasks {
		if t.BallWith != "" && t.Open() {
			load[t.BallWith]++
		}
	}
	return load
}

// TaskUpdate carries the editable fields of a task; nil fields are left unchanged.
// Status, history and ball-with are owned by the workflow and cannot be set here. A phase
// change renumbers the task as the next revision of the target phase.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Phase       *models.Phase
	DueDate     *time.Time
	StartDate   *time.Time
}

// Update applies a field-level edit to one task. Unknown ids are ignored.
func (e *Engine) Update(tasks []models.Task, id string, u TaskUpdate) []models.Task {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks
	}
	out := clone(tasks)
	t := &out[idx]
	if u.Title != nil && strings.TrimSpace(*u.Title) != "" {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil && u.Priority.Valid() {
		t.Priority = *u.Priority
	}
	if u.Phase != nil && *u.Phase != t.Phase && canMoveTo(out, *t, *u.Phase) {
		t.Revision = latestRevision(out, t.ProjectID, *u.Phase) + 1
		t.Phase = *u.Phase
		t.Title = Title(t.Phase, t.Revision)
		for i := range out {
			if out[i].ParentID == t.ID {
				out[i].Phase = t.Phase
			}
		}
	}
	if u.DueDate != nil {
		due := *u.DueDate
		t.DueDate = &due
	}
	if u.StartDate != nil {
		start := *u.StartDate
		t.StartDate = &start
	}
	return out
}

// canMoveTo keeps a project at one open task per phase. Only an open task with no
// revision history can move; it joins the target lineage as its next revision.
func canMoveTo(tasks []models.Task, t models.Task, p models.Phase) bool {
	if phaseRank(p) >= len(models.Phases) || !t.IsPhaseTask() {
		return false
	}
	if !t.Open() || len(t.History) > 0 {
		return false
	}
	for _, other := range tasks {
		if other.ID != t.ID && other.ProjectID == t.ProjectID && other.IsPhaseTask() && other.Open() && other.Phase == p {
			return false
		}
	}
	return true
}

func phaseRank(p models.Phase) int {
	for i, candidate := range models.Phases {
		if candidate == p {
			return i
		}
	}
	return len(models.Phases)
}
