// Package phase implements the phase-task revision workflow. The Engine never holds
// task state: each operation takes the current tasks and returns a new slice, leaving
// the input untouched.
package phase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/archidraw/internal/models"
)

// ErrInvalidTransition is returned when a task cannot move to the requested state
var ErrInvalidTransition = errors.New("invalid transition")

const (
	defaultPhasePriority   = models.P2
	defaultSubtaskPriority = models.P3
)

// IDFunc generates task ids
type IDFunc func() string

// Engine applies workflow transitions to task collections
type Engine struct {
	NewID IDFunc
	Now   func() time.Time
}

// NewEngine returns an Engine using random UUIDs and the wall clock
func NewEngine() *Engine {
	return &Engine{
		NewID: func() string { return uuid.NewString() },
		Now:   time.Now,
	}
}

// Approved is emitted when a phase task is approved so the caller can offer the next phase
type Approved struct {
	ProjectID string
	Phase     models.Phase
	Revision  int
}

// SubtaskFields are the optional fields of a new instruction
type SubtaskFields struct {
	Description string
	Priority    models.Priority
	DueDate     *time.Time
	StartDate   *time.Time
}

// Title formats a phase task title such as "Layout 2D REV 2"
func Title(p models.Phase, revision int) string {
	return fmt.Sprintf("%s REV %d", p, revision)
}

// CreatePhaseTask opens a new phase task. Its revision follows the highest revision of
// that phase already recorded for the project.
func (e *Engine) CreatePhaseTask(tasks []models.Task, projectID string, p models.Phase) ([]models.Task, models.Task) {
	rev := latestRevision(tasks, projectID, p) + 1
	task := models.Task{
		ID:        e.NewID(),
		ProjectID: projectID,
		Title:     Title(p, rev),
		Priority:  defaultPhasePriority,
		Status:    models.StatusTodo,
		Phase:     p,
		Revision:  rev,
		CreatedAt: e.Now(),
		History:   []models.RevisionRecord{},
	}
	return append(clone(tasks), task), task
}

// AddSubtask attaches an instruction to a phase task. An unknown or non-phase parent
// leaves tasks unchanged and reports false.
func (e *Engine) AddSubtask(tasks []models.Task, parentID, title string, fields SubtaskFields) ([]models.Task, models.Task, bool) {
	idx := indexOf(tasks, parentID)
	if idx < 0 || !tasks[idx].IsPhaseTask() {
		return tasks, models.Task{}, false
	}
	parent := tasks[idx]

	priority := fields.Priority
	if !priority.Valid() {
		priority = defaultSubtaskPriority
	}

	sub := models.Task{
		ID:          e.NewID(),
		ProjectID:   parent.ProjectID,
		ParentID:    parent.ID,
		Title:       title,
		Description: fields.Description,
		Priority:    priority,
		Status:      models.StatusTodo,
		Phase:       parent.Phase,
		Revision:    0,
		DueDate:     fields.DueDate,
		StartDate:   fields.StartDate,
		CreatedAt:   e.Now(),
		History:     []models.RevisionRecord{},
	}
	return append(clone(tasks), sub), sub, true
}

// DeletePhaseTask removes a task together with every subtask pointing at it
func (e *Engine) DeletePhaseTask(tasks []models.Task, id string) []models.Task {
	if indexOf(tasks, id) < 0 {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id || t.ParentID == id {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ToggleSubtask flips an instruction between TODO and COMPLETED. Phase tasks are
// driven by review outcomes and are left alone.
func (e *Engine) ToggleSubtask(tasks []models.Task, id string) []models.Task {
	idx := indexOf(tasks, id)
	if idx < 0 || tasks[idx].IsPhaseTask() {
		return tasks
	}
	out := clone(tasks)
	if out[idx].Status == models.StatusCompleted {
		out[idx].Status = models.StatusTodo
	} else {
		out[idx].Status = models.StatusCompleted
	}
	return out
}

// AssignReviewer hands a draft phase task to a stakeholder for review
func (e *Engine) AssignReviewer(tasks []models.Task, id, stakeholderID string) ([]models.Task, error) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, nil
	}
	if strings.TrimSpace(stakeholderID) == "" {
		return tasks, fmt.Errorf("assign reviewer to %s: no stakeholder selected: %w", id, ErrInvalidTransition)
	}
	if err := expect(tasks[idx], models.StatusTodo, "assign reviewer"); err != nil {
		return tasks, err
	}

	out := clone(tasks)
	out[idx].Status = models.StatusInReview
	out[idx].BallWith = stakeholderID
	return out, nil
}

// Approve closes an in-review phase task without opening a new revision
func (e *Engine) Approve(tasks []models.Task, id string) ([]models.Task, *Approved, error) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, nil, nil
	}
	if err := expect(tasks[idx], models.StatusInReview, "approve"); err != nil {
		return tasks, nil, err
	}

	out := clone(tasks)
	t := &out[idx]
	t.Status = models.StatusCompleted
	t.BallWith = ""
	t.Title = Title(t.Phase, t.Revision) + " - APPROVED"

	return out, &Approved{ProjectID: t.ProjectID, Phase: t.Phase, Revision: t.Revision}, nil
}

// Reject closes an in-review phase task and opens its next revision in one step. The
// feedback is recorded on both tasks so the whole revision chain carries its history.
func (e *Engine) Reject(tasks []models.Task, id, feedback string) ([]models.Task, models.Task, error) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, models.Task{}, nil
	}
	note := strings.TrimSpace(feedback)
	if note == "" {
		return tasks, models.Task{}, fmt.Errorf("reject %s: feedback is required: %w", id, ErrInvalidTransition)
	}
	if err := expect(tasks[idx], models.StatusInReview, "reject"); err != nil {
		return tasks, models.Task{}, err
	}

	now := e.Now()
	out := clone(tasks)
	rejected := &out[idx]

	history := make([]models.RevisionRecord, 0, len(rejected.History)+1)
	history = append(history, rejected.History...)
	history = append(history, models.RevisionRecord{Revision: rejected.Revision, Note: note, Date: now})

	rejected.Status = models.StatusCompleted
	rejected.BallWith = ""
	rejected.Title = Title(rejected.Phase, rejected.Revision) + " - REJECTED"
	rejected.History = history

	nextRev := rejected.Revision + 1
	successor := models.Task{
		ID:        e.NewID(),
		ProjectID: rejected.ProjectID,
		Title:     Title(rejected.Phase, nextRev),
		Priority:  rejected.Priority,
		Status:    models.StatusTodo,
		Phase:     rejected.Phase,
		Revision:  nextRev,
		CreatedAt: now,
		History:   append([]models.RevisionRecord(nil), history...),
	}

	return append(out, successor), successor, nil
}

func expect(t models.Task, want models.Status, action string) error {
	if !t.IsPhaseTask() {
		return fmt.Errorf("%s %s: not a phase task: %w", action, t.ID, ErrInvalidTransition)
	}
	if t.Status != want {
		return fmt.Errorf("%s %s: status is %s, want %s: %w", action, t.ID, t.Status, want, ErrInvalidTransition)
	}
	return nil
}

func latestRevision(tasks []models.Task, projectID string, p models.Phase) int {
	latest := 0
	for _, t := range tasks {
		if t.ProjectID == projectID && t.Phase == p && t.IsPhaseTask() && t.Revision > latest {
			latest = t.Revision
		}
	}
	return latest
}

func indexOf(tasks []models.Task, id string) int {
	if id == "" {
		return -1
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// clone copies the slice so callers keep their snapshot. History slices are shared
// because they are only ever replaced, never appended to in place.
func clone(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return out
}
