package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/ui/keys"
	"github.com/tgienger/archidraw/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	open    int
	review  int
}

func (i projectItem) Title() string { return i.project.Name }

func (i projectItem) Description() string {
	parts := []string{i.project.ClientName}
	if i.open > 0 {
		parts = append(parts, fmt.Sprintf("%d open phases", i.open))
	}
	if i.review > 0 {
		parts = append(parts, fmt.Sprintf("%d in review", i.review))
	}
	if i.project.Archived {
		parts = append(parts, "archived")
	}
	return strings.Join(parts, " • ")
}

func (i projectItem) FilterValue() string { return i.project.Name + " " + i.project.ClientName }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := d.styles.TaskPriority.Render(priorityLabel(p.project.Priority)) + " " + p.Title()
	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(title), descStyle.Render(p.Description()))
}

// shortcutOptions are listed in the options popup in this order
var shortcutOptions = []struct {
	flag  models.ShortcutFlag
	label string
}{
	{models.ShortcutPriority, "Priority (p1 p2 p3)"},
	{models.ShortcutMention, "Mentions (@name)"},
	{models.ShortcutDate, "Dates (today, tomorrow, next week, mid week)"},
	{models.ShortcutAutoClean, "Remove shortcuts from titles"},
}

// ProjectListView lists the studio's projects
type ProjectListView struct {
	ctx      context.Context
	studio   *studio.Studio
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	status   status

	showArchived bool

	// Create form
	creating  bool
	newName   textinput.Model
	newClient textinput.Model
	newDesc   textinput.Model
	focusIdx  int // 0=name, 1=client, 2=desc, 3=confirm

	// Archive confirmation
	confirmingArchive bool
	archiveTarget     models.Project

	// Shortcut options popup
	showOptions   bool
	optionsCursor int

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewProjectListView creates the project list
func NewProjectListView(ctx context.Context, st *studio.Studio) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newClient := textinput.New()
	newClient.Placeholder = "Client"
	newClient.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		ctx:       ctx,
		studio:    st,
		list:      l,
		delegate:  delegate,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		newName:   newName,
		newClient: newClient,
		newDesc:   newDesc,
	}
}

// Init fills the list
func (v *ProjectListView) Init() tea.Cmd {
	v.refresh()
	return nil
}

func (v *ProjectListView) refresh() {
	state := v.studio.State()
	load := make(map[string][2]int)
	for _, t := range state.Tasks {
		if !t.IsPhaseTask() || !t.Open() {
			continue
		}
		counts := load[t.ProjectID]
		counts[0]++
		if t.Status == models.StatusInReview {
			counts[1]++
		}
		load[t.ProjectID] = counts
	}

	var items []list.Item
	for _, p := range state.Projects {
		if p.Archived && !v.showArchived {
			continue
		}
		counts := load[p.ID]
		items = append(items, projectItem{project: p, open: counts[0], review: counts[1]})
	}
	v.list.SetItems(items)

	if v.showArchived {
		v.list.Title = "Projects (incl. archived)"
	} else {
		v.list.Title = "Projects"
	}
}

// Update handles messages
func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-7)
		return v, nil

	case StudioChanged:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingArchive {
			return v.updateConfirmArchive(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.showOptions {
			return v.updateOptions(msg)
		}

		// Let the list own keys while the user is typing a filter
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			// Only q quits from the project list
			if v.list.FilterState() == list.FilterApplied {
				break
			}
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Timeline):
			return v, func() tea.Msg { return OpenTimeline{} }
		case key.Matches(msg, v.keys.ShowArchived):
			v.showArchived = !v.showArchived
			v.refresh()
			return v, nil
		case key.Matches(msg, v.keys.Options):
			v.showOptions = true
			v.optionsCursor = 0
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Archive):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingArchive = true
				v.archiveTarget = item.project
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmArchive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingArchive = false
		if err := v.studio.ToggleArchive(v.ctx, v.archiveTarget.ID); err != nil {
			v.status = statusErr(err)
			return v, nil
		}
		if v.archiveTarget.Archived {
			v.status = statusOK("Restored %s", v.archiveTarget.Name)
		} else {
			v.status = statusOK("Archived %s", v.archiveTarget.Name)
		}
		v.refresh()
		return v, nil
	case "n", "N", "esc":
		v.confirmingArchive = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Options):
		v.showOptions = false
	case key.Matches(msg, v.keys.Up):
		if v.optionsCursor > 0 {
			v.optionsCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.optionsCursor < len(shortcutOptions)-1 {
			v.optionsCursor++
		}
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Toggle):
		opt := shortcutOptions[v.optionsCursor]
		enabled := !v.studio.State().Settings.Shortcut(opt.flag)
		if err := v.studio.SetShortcut(v.ctx, opt.flag, enabled); err != nil {
			v.status = statusErr(err)
		}
	}
	return v, nil
}

func (v *ProjectListView) startCreate() {
	v.creating = true
	v.focusIdx = 0
	v.newName.Reset()
	v.newClient.Reset()
	v.newDesc.Reset()
	v.updateFocus()
}

func (v *ProjectListView) create() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		return nil
	}
	project, err := v.studio.CreateProject(v.ctx, name,
		strings.TrimSpace(v.newClient.Value()),
		strings.TrimSpace(v.newDesc.Value()))
	if err != nil {
		v.status = statusErr(err)
		return nil
	}
	v.creating = false
	v.refresh()
	return func() tea.Msg {
		return SelectedProject{Project: project}
	}
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.create()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.create()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newClient, cmd = v.newClient.Update(msg)
	case 2:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newClient.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newClient.Focus()
	case 2:
		v.newDesc.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"↵", "open project",
			"n", "new project",
			"a", "archive / restore",
			"c", "show archived",
			"o", "shortcut options",
			"t", "timeline",
			"/", "filter",
			"q", "quit",
		)
	}

	if v.confirmingArchive {
		title, detail := "Archive Project?", "It will be hidden from the project list."
		if v.archiveTarget.Archived {
			title, detail = "Restore Project?", "It will show in the project list again."
		}
		return confirm(v.styles, v.width, v.height, title, detail)
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if v.showOptions {
		return v.renderOptions()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.status.render(v.styles) + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	hint := "Press 'n' to create your first project"
	if !v.showArchived && len(v.studio.State().Projects) > 0 {
		hint = "All projects are archived. Press 'c' to show them"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render(hint),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	clientStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		clientStyle = s.InputFocused
	case 2:
		descStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Project"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Client:",
		clientStyle.Width(inputWidth).Render(v.newClient.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
		v.status.render(s),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderOptions() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	settings := v.studio.State().Settings

	var items []string
	for i, opt := range shortcutOptions {
		box := "[ ]"
		if settings.Shortcut(opt.flag) {
			box = "[x]"
		}
		style := s.ListItem
		if i == v.optionsCursor {
			style = s.ListSelected
		}
		items = append(items, style.Render(box+" "+opt.label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Quick Entry Shortcuts"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("Enter/Space: toggle • Esc: done"),
		v.status.render(s),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return helpLine(v.styles, "?", "help")
	}
	return helpLine(v.styles,
		"↵", "open",
		"n", "new",
		"a", "archive",
		"t", "timeline",
		"o", "options",
		"q", "quit",
	)
}
