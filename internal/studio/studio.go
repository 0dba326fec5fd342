// Package studio owns the studio's collections and applies workflow operations to them.
// Each operation computes a new snapshot, persists it, and only then makes it current,
// so a failed save leaves the previous state in place.
package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/phase"
	"github.com/tgienger/archidraw/internal/suggest"
)

// defaultProjectSpan is the initial length of a new project
const defaultProjectSpan = 30 * 24 * time.Hour

var (
	// ErrEmptyTitle is returned when quick entry leaves nothing to use as a title
	ErrEmptyTitle = errors.New("title is empty")
	// ErrPhaseOpen is returned when starting a phase that already has an open task
	ErrPhaseOpen = errors.New("phase already open")
)

// Store persists the four collections
type Store interface {
	LoadProjects(ctx context.Context, now time.Time) ([]models.Project, error)
	LoadTasks(ctx context.Context) ([]models.Task, error)
	LoadStakeholders(ctx context.Context) ([]models.Stakeholder, error)
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveProjects(ctx context.Context, projects []models.Project) error
	SaveTasks(ctx context.Context, tasks []models.Task) error
	SaveStakeholders(ctx context.Context, stakeholders []models.Stakeholder) error
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// State is a snapshot of every collection. Treat it as read-only.
type State struct {
	Projects     []models.Project
	Tasks        []models.Task
	Stakeholders []models.Stakeholder
	Settings     models.Settings
}

// Studio coordinates the engine, the store and the suggestion service
type Studio struct {
	store     Store
	engine    *phase.Engine
	suggester suggest.Suggester
	state     State
}

// Open loads every collection from the store
func Open(ctx context.Context, store Store, engine *phase.Engine, suggester suggest.Suggester) (*Studio, error) {
	if engine == nil {
		engine = phase.NewEngine()
	}
	if suggester == nil {
		suggester = suggest.Noop{}
	}

	s := &Studio{store: store, engine: engine, suggester: suggester}

	var err error
	if s.state.Projects, err = store.LoadProjects(ctx, engine.Now()); err != nil {
		return nil, err
	}
	if s.state.Tasks, err = store.LoadTasks(ctx); err != nil {
		return nil, err
	}
	if s.state.Stakeholders, err = store.LoadStakeholders(ctx); err != nil {
		return nil, err
	}
	if s.state.Settings, err = store.LoadSettings(ctx); err != nil {
		return nil, err
	}

	log.Info().
		Int("projects", len(s.state.Projects)).
		Int("tasks", len(s.state.Tasks)).
		Int("stakeholders", len(s.state.Stakeholders)).
		Msg("studio loaded")

	return s, nil
}

// State returns the current snapshot
func (s *Studio) State() State {
	return s.state
}

// Now is the engine's clock
func (s *Studio) Now() time.Time {
	return s.engine.Now()
}

func (s *Studio) commitTasks(ctx context.Context, tasks []models.Task) error {
	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		return err
	}
	s.state.Tasks = tasks
	return nil
}

func (s *Studio) commitProjects(ctx context.Context, projects []models.Project) error {
	if err := s.store.SaveProjects(ctx, projects); err != nil {
		return err
	}
	s.state.Projects = projects
	return nil
}

func (s *Studio) commitStakeholders(ctx context.Context, stakeholders []models.Stakeholder) error {
	if err := s.store.SaveStakeholders(ctx, stakeholders); err != nil {
		return err
	}
	s.state.Stakeholders = stakeholders
	return nil
}

// Project looks a project up by id
func (s *Studio) Project(id string) (models.Project, bool) {
	for _, p := range s.state.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Task looks a task up by id
func (s *Studio) Task(id string) (models.Task, bool) {
	for _, t := range s.state.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Stakeholder looks a stakeholder up by id
func (s *Studio) Stakeholder(id string) (models.Stakeholder, bool) {
	for _, st := range s.state.Stakeholders {
		if st.ID == id {
			return st, true
		}
	}
	return models.Stakeholder{}, false
}

// ActiveProjects lists projects that are not archived
func (s *Studio) ActiveProjects() []models.Project {
	var out []models.Project
	for _, p := range s.state.Projects {
		if !p.Archived {
			out = append(out, p)
		}
	}
	return out
}

// CreateProject adds a project running for a month from today
func (s *Studio) CreateProject(ctx context.Context, name, clientName, description string) (models.Project, error) {
	if name == "" {
		return models.Project{}, ErrEmptyTitle
	}
	now := s.engine.Now()
	p := models.Project{
		ID:          s.engine.NewID(),
		Name:        name,
		Description: description,
		Priority:    models.P2,
		StartDate:   now,
		EndDate:     now.Add(defaultProjectSpan),
		ClientName:  clientName,
	}

	projects := append(append([]models.Project(nil), s.state.Projects...), p)
	if err := s.commitProjects(ctx, projects); err != nil {
		return models.Project{}, err
	}
	log.Info().Str("project", p.ID).Str("name", p.Name).Msg("project created")
	return p, nil
}

// ToggleArchive archives or restores a project. Projects are never deleted.
func (s *Studio) ToggleArchive(ctx context.Context, id string) error {
	projects := append([]models.Project(nil), s.state.Projects...)
	for i := range projects {
		if projects[i].ID == id {
			projects[i].Archived = !projects[i].Archived
			return s.commitProjects(ctx, projects)
		}
	}
	return nil
}

// AvailablePhases lists phases that can be started for a project
func (s *Studio) AvailablePhases(projectID string) []models.Phase {
	return phase.AvailablePhases(s.state.Tasks, projectID)
}

// StartPhase opens a new phase task, refusing phases that are already open
func (s *Studio) StartPhase(ctx context.Context, projectID string, p models.Phase) (models.Task, error) {
	if _, ok := s.Project(projectID); !ok {
		return models.Task{}, nil
	}

	available := false
	for _, candidate := range s.AvailablePhases(projectID) {
		if candidate == p {
			available = true
			break
		}
	}
	if !available {
		return models.Task{}, fmt.Errorf("start %s: %w", p, ErrPhaseOpen)
	}

	tasks, task := s.engine.CreatePhaseTask(s.state.Tasks, projectID, p)
	if err := s.commitTasks(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	log.Info().Str("task", task.ID).Str("phase", string(p)).Int("revision", task.Revision).Msg("phase started")
	return task, nil
}
