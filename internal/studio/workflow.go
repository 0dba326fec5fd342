package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/phase"
	"github.com/tgienger/archidraw/internal/shortcut"
	"github.com/tgienger/archidraw/internal/suggest"
	"github.com/tgienger/archidraw/internal/timeline"
)

// Compose parses quick-entry text and adds the result as an instruction under parentID.
// The parse result is returned so the caller can act on an unresolved mention.
func (s *Studio) Compose(ctx context.Context, parentID, input string) (models.Task, shortcut.Result, error) {
	res := shortcut.Parse(input, s.state.Stakeholders, shortcut.OptionsFrom(s.state.Settings.Shortcuts), s.Now())
	if res.CleanTitle == "" {
		return models.Task{}, res, ErrEmptyTitle
	}

	tasks, sub, ok := s.engine.AddSubtask(s.state.Tasks, parentID, res.CleanTitle, phase.SubtaskFields{
		Priority: res.Priority,
		DueDate:  res.DueDate,
	})
	if !ok {
		return models.Task{}, res, nil
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return models.Task{}, res, err
	}
	log.Debug().Str("task", sub.ID).Str("parent", parentID).Int("priority", int(sub.Priority)).Msg("instruction added")
	return sub, res, nil
}

// AssignReviewer hands a phase task to a stakeholder
func (s *Studio) AssignReviewer(ctx context.Context, id, stakeholderID string) error {
	tasks, err := s.engine.AssignReviewer(s.state.Tasks, id, stakeholderID)
	if err != nil {
		return err
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return err
	}
	log.Info().Str("task", id).Str("stakeholder", stakeholderID).Msg("sent for review")
	return nil
}

// AssignReviewerByMention resolves "@name" (the "@" is optional) against the directory.
// A name nobody matches is added as an Internal stakeholder first.
func (s *Studio) AssignReviewerByMention(ctx context.Context, id, mention string) (models.Stakeholder, error) {
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(mention), "@"))
	if name == "" {
		return models.Stakeholder{}, fmt.Errorf("assign reviewer to %s: empty mention: %w", id, phase.ErrInvalidTransition)
	}
	if _, ok := s.Task(id); !ok {
		return models.Stakeholder{}, nil
	}

	st, ok := shortcut.Resolve(name, s.state.Stakeholders)
	if !ok {
		var err error
		if st, err = s.AddStakeholder(ctx, name, models.RoleInternal); err != nil {
			return models.Stakeholder{}, err
		}
	}
	return st, s.AssignReviewer(ctx, id, st.ID)
}

// Approve completes a phase task and returns the phases worth starting next
func (s *Studio) Approve(ctx context.Context, id string) (*phase.Approved, []models.Phase, error) {
	tasks, ev, err := s.engine.Approve(s.state.Tasks, id)
	if err != nil || ev == nil {
		return nil, nil, err
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return nil, nil, err
	}
	log.Info().Str("task", id).Str("phase", string(ev.Phase)).Int("revision", ev.Revision).Msg("phase approved")
	return ev, phase.NextPhaseSuggestions(s.AvailablePhases(ev.ProjectID)), nil
}

// Reject completes a phase task with feedback and opens its next revision
func (s *Studio) Reject(ctx context.Context, id, feedback string) (models.Task, error) {
	tasks, next, err := s.engine.Reject(s.state.Tasks, id, feedback)
	if err != nil || next.ID == "" {
		return models.Task{}, err
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	log.Info().Str("task", id).Str("next", next.ID).Int("revision", next.Revision).Msg("phase rejected")
	return next, nil
}

// DeleteTask removes a task and its instructions
func (s *Studio) DeleteTask(ctx context.Context, id string) error {
	tasks := s.engine.DeletePhaseTask(s.state.Tasks, id)
	if len(tasks) == len(s.state.Tasks) {
		return nil
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return err
	}
	log.Info().Str("task", id).Int("removed", len(s.state.Tasks)-len(tasks)).Msg("task deleted")
	return nil
}

// ToggleSubtask flips an instruction between TODO and COMPLETED
func (s *Studio) ToggleSubtask(ctx context.Context, id string) error {
	return s.commitTasks(ctx, s.engine.ToggleSubtask(s.state.Tasks, id))
}

// UpdateTask applies field edits to a task
func (s *Studio) UpdateTask(ctx context.Context, id string, u phase.TaskUpdate) error {
	return s.commitTasks(ctx, s.engine.Update(s.state.Tasks, id, u))
}

// RescheduleProject shifts a project by delta business days
func (s *Studio) RescheduleProject(ctx context.Context, id string, delta int, edge timeline.Edge) error {
	if delta == 0 {
		return nil
	}
	return s.commitProjects(ctx, timeline.RescheduleProject(s.state.Projects, id, delta, edge))
}

// RescheduleTask shifts a task by delta business days
func (s *Studio) RescheduleTask(ctx context.Context, id string, delta int, edge timeline.Edge) error {
	if delta == 0 {
		return nil
	}
	return s.commitTasks(ctx, timeline.RescheduleTask(s.state.Tasks, id, delta, edge))
}

// Suggester is the configured suggestion service. The TUI calls it from a command
// with a snapshot of the task so the remote call never touches studio state.
func (s *Studio) Suggester() suggest.Suggester {
	return s.suggester
}

// Suggest asks the suggestion service for instructions for a task
func (s *Studio) Suggest(ctx context.Context, taskID string) []string {
	t, ok := s.Task(taskID)
	if !ok {
		return []string{}
	}
	return s.suggester.Suggest(ctx, t.Title, t.Description)
}

// AddSuggestions appends suggested instructions under a phase task
func (s *Studio) AddSuggestions(ctx context.Context, parentID string, items []string) ([]models.Task, error) {
	tasks := s.state.Tasks
	var added []models.Task
	for _, item := range items {
		title := strings.Join(strings.Fields(item), " ")
		if title == "" {
			continue
		}
		var (
			sub models.Task
			ok  bool
		)
		tasks, sub, ok = s.engine.AddSubtask(tasks, parentID, title, phase.SubtaskFields{})
		if !ok {
			return nil, nil
		}
		added = append(added, sub)
	}
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.commitTasks(ctx, tasks); err != nil {
		return nil, err
	}
	log.Debug().Str("parent", parentID).Int("count", len(added)).Msg("suggestions added")
	return added, nil
}

// AddStakeholder appends someone to the directory
func (s *Studio) AddStakeholder(ctx context.Context, name string, role models.Role) (models.Stakeholder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Stakeholder{}, ErrEmptyTitle
	}
	st := models.Stakeholder{ID: s.engine.NewID(), Name: name, Role: role}
	stakeholders := append(append([]models.Stakeholder(nil), s.state.Stakeholders...), st)
	if err := s.commitStakeholders(ctx, stakeholders); err != nil {
		return models.Stakeholder{}, err
	}
	log.Info().Str("stakeholder", st.ID).Str("name", name).Str("role", string(role)).Msg("stakeholder added")
	return st, nil
}

// RemoveStakeholder drops someone from the directory. Tasks still held by them keep
// the id so the review history stays intact.
func (s *Studio) RemoveStakeholder(ctx context.Context, id string) error {
	out := make([]models.Stakeholder, 0, len(s.state.Stakeholders))
	for _, st := range s.state.Stakeholders {
		if st.ID != id {
			out = append(out, st)
		}
	}
	if len(out) == len(s.state.Stakeholders) {
		return nil
	}
	return s.commitStakeholders(ctx, out)
}

// SetShortcut toggles one quick-entry shortcut and saves the settings
func (s *Studio) SetShortcut(ctx context.Context, flag models.ShortcutFlag, enabled bool) error {
	settings, err := s.state.Settings.SetShortcut(flag, enabled)
	if err != nil {
		return err
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.state.Settings = settings
	log.Debug().Str("flag", string(flag)).Bool("enabled", enabled).Msg("shortcut changed")
	return nil
}

// ReviewQueue lists the tasks waiting on a stakeholder
func (s *Studio) ReviewQueue(stakeholderID string) []models.Task {
	return phase.ReviewQueue(s.state.Tasks, stakeholderID)
}

// OpenLoad counts open tasks held by each stakeholder
func (s *Studio) OpenLoad() map[string]int {
	return phase.OpenLoad(s.state.Tasks)
}

// OpenPhaseTasks lists a project's open phase tasks in phase order
func (s *Studio) OpenPhaseTasks(projectID string) []models.Task {
	return phase.OpenPhaseTasks(s.state.Tasks, projectID)
}

// Subtasks lists the instructions of a phase task
func (s *Studio) Subtasks(parentID string) []models.Task {
	return phase.Subtasks(s.state.Tasks, parentID)
}

// Lineage lists every revision of a phase for a project
func (s *Studio) Lineage(projectID string, p models.Phase) []models.Task {
	return phase.Lineage(s.state.Tasks, projectID, p)
}
