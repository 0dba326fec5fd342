package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/timeline"
	"github.com/tgienger/archidraw/internal/ui/keys"
	"github.com/tgienger/archidraw/internal/ui/styles"
	"github.com/tgienger/archidraw/internal/workday"
)

const labelWidth = 26

// lane is one row of the timeline: a project or one of its open phase tasks
type lane struct {
	project models.Project
	task    *models.Task
}

func (l lane) id() string {
	if l.task != nil {
		return l.task.ID
	}
	return l.project.ID
}

// TimelineView places projects and their open phases on the workday window
type TimelineView struct {
	ctx    context.Context
	studio *studio.Studio
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int
	status status

	window workday.Window
	today  time.Time
	lanes  []lane
	cursor int
	edge   timeline.Edge

	showHelpPopup bool
}

// NewTimelineView creates the timeline anchored on today
func NewTimelineView(ctx context.Context, st *studio.Studio) *TimelineView {
	return &TimelineView{
		ctx:    ctx,
		studio: st,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		edge:   timeline.EdgeBoth,
	}
}

// Init builds the window and lanes
func (v *TimelineView) Init() tea.Cmd {
	v.today = workday.Midnight(v.studio.Now())
	v.window = workday.BuildWindow(v.today, workday.DefaultWindowSize)
	v.refresh()
	return nil
}

func (v *TimelineView) refresh() {
	selected := ""
	if v.cursor < len(v.lanes) {
		selected = v.lanes[v.cursor].id()
	}

	v.lanes = v.lanes[:0]
	for _, p := range v.studio.ActiveProjects() {
		v.lanes = append(v.lanes, lane{project: p})
		for _, t := range v.studio.OpenPhaseTasks(p.ID) {
			v.lanes = append(v.lanes, lane{project: p, task: &t})
		}
	}

	v.cursor = min(v.cursor, max(0, len(v.lanes)-1))
	for i, l := range v.lanes {
		if l.id() == selected {
			v.cursor = i
			break
		}
	}
}

// Update handles messages
func (v *TimelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case StudioChanged:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.lanes)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.CycleEdge):
			v.edge = (v.edge + 1) % 3
		case key.Matches(msg, v.keys.Left):
			v.shift(-1)
		case key.Matches(msg, v.keys.Right):
			v.shift(1)
		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(v.lanes) {
				p := v.lanes[v.cursor].project
				return v, func() tea.Msg { return SelectedProject{Project: p} }
			}
		}
	}
	return v, nil
}

func (v *TimelineView) shift(delta int) {
	if v.cursor >= len(v.lanes) {
		return
	}
	l := v.lanes[v.cursor]

	var err error
	if l.task != nil {
		err = v.studio.RescheduleTask(v.ctx, l.task.ID, delta, v.edge)
	} else {
		err = v.studio.RescheduleProject(v.ctx, l.project.ID, delta, v.edge)
	}
	if err != nil {
		v.status = statusErr(err)
		return
	}
	v.status = status{}
	v.refresh()
}

func (v *TimelineView) trackWidth() int {
	w := v.width
	if w > styles.TimelineWidth {
		w = styles.TimelineWidth
	}
	return clamp(w-labelWidth-6, 20, styles.TimelineWidth)
}

// View renders the view
func (v *TimelineView) View() string {
	s := v.styles

	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"←/h", "one business day earlier",
			"→/l", "one business day later",
			"tab", "move start, end or both",
			"↵", "open project",
			"esc", "projects",
			"q", "quit",
		)
	}

	track := v.trackWidth()

	var lines []string
	title := s.Title.Render("Timeline") + "  " +
		s.TitleMuted.Render(v.window.First().Format("Jan 2")+" - "+v.window.Last().Format("Jan 2")) + "  " +
		s.HelpKey.Render("moving: "+v.edge.String())
	lines = append(lines, title, "")
	for _, line := range v.renderScale(track) {
		lines = append(lines, strings.Repeat(" ", labelWidth+1)+line)
	}

	if len(v.lanes) == 0 {
		lines = append(lines, "", s.TitleMuted.Render("No active projects."))
	}

	visible := max(v.height-9, 1)
	start := 0
	if v.cursor >= visible {
		start = v.cursor - visible + 1
	}
	end := min(start+visible, len(v.lanes))
	for i := start; i < end; i++ {
		lines = append(lines, v.renderLane(v.lanes[i], track, i == v.cursor))
	}

	lines = append(lines, "", v.status.render(s),
		helpLine(s, "←/→", "shift", "tab", "edge", "↵", "open", "esc", "back", "?", "help"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if v.width <= styles.TimelineWidth {
		return content
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Top, content)
}

// renderScale marks each Monday with its date and today with a caret
func (v *TimelineView) renderScale(track int) []string {
	cells := []rune(strings.Repeat(" ", track))
	n := len(v.window)
	for i, day := range v.window {
		if day.Weekday() != time.Monday {
			continue
		}
		col := i * track / n
		label := []rune(day.Format("1/2"))
		for j, r := range label {
			if col+j < track {
				cells[col+j] = r
			}
		}
	}
	scale := v.styles.TitleMuted.Render(string(cells))

	todayPos := v.window.Position(&v.today)
	if todayPos < 0 || todayPos >= 100 {
		return []string{scale}
	}
	caret := strings.Repeat(" ", int(todayPos/100*float64(track))) + v.styles.Today.Render("▼ today")
	return []string{caret, scale}
}

func (v *TimelineView) renderLane(l lane, track int, selected bool) string {
	s := v.styles

	var label string
	var bar timeline.Bar
	color := styles.Current.Primary
	if l.task != nil {
		label = "  " + l.task.Title
		bar = timeline.TaskBar(v.window, *l.task)
		color = styles.PhaseColor(l.task.Phase)
	} else {
		label = l.project.Name
		bar = timeline.ProjectBar(v.window, l.project)
	}

	labelStyle := s.ListItem.Padding(0).Width(labelWidth).MaxWidth(labelWidth)
	if selected {
		labelStyle = s.ListSelected.Padding(0).Width(labelWidth).MaxWidth(labelWidth)
	}

	from, to, ok := timeline.Cells(bar, track)
	var row string
	switch {
	case ok:
		row = s.BarTrack.Render(strings.Repeat("·", from)) +
			s.Bar.Background(color).Render(strings.Repeat(" ", to-from)) +
			s.BarTrack.Render(strings.Repeat("·", track-to))
	case bar.Left < 0 && bar.Left != workday.NotPlaced:
		row = s.TitleMuted.Render("◀" + strings.Repeat("·", track-1))
	default:
		row = s.TitleMuted.Render(strings.Repeat("·", track-1) + "▶")
	}

	return labelStyle.Render(label) + " " + row
}
