package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/ui/views"
)

// lastProjectKey remembers which board was open when the app closed
const lastProjectKey = "last_project_id"

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewTimeline
)

// Preferences stores small UI settings between runs
type Preferences interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type App struct {
	ctx         context.Context
	studio      *studio.Studio
	prefs       Preferences
	currentView View
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	timeline    *views.TimelineView
	width       int
	height      int
}

// Creates a new application
func NewApp(ctx context.Context, st *studio.Studio, prefs Preferences) *App {
	return &App{
		ctx:         ctx,
		studio:      st,
		prefs:       prefs,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(ctx, st),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last project if it is still active
	lastProjectID, err := a.prefs.GetSetting(a.ctx, lastProjectKey)
	if err == nil && lastProjectID != "" {
		if project, ok := a.studio.Project(lastProjectID); ok && !project.Archived {
			return tea.Batch(a.projectList.Init(), a.openProject(project))
		}
	}

	return a.projectList.Init()
}

func (a *App) remember(projectID string) {
	if err := a.prefs.SetSetting(a.ctx, lastProjectKey, projectID); err != nil {
		log.Warn().Err(err).Msg("could not save last project")
	}
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.ctx, a.studio, project)
	a.remember(project.ID)

	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.OpenTimeline:
		a.currentView = ViewTimeline
		a.timeline = views.NewTimelineView(a.ctx, a.studio)
		return a, tea.Batch(a.timeline.Init(), a.resize())

	case views.SuggestionsReady:
		// The board may have been left while the request was running
		if a.taskList != nil {
			_, cmd := a.taskList.Update(msg)
			return a, cmd
		}
		return a, nil

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.remember("")
		a.projectList.Update(views.StudioChanged{})
		return a, a.resize()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewTimeline:
		_, cmd = a.timeline.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewTimeline:
		if a.timeline != nil {
			return a.timeline.View()
		}
	}
	return a.projectList.View()
}
