package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/phase"
	"github.com/tgienger/archidraw/internal/studio"
	"github.com/tgienger/archidraw/internal/ui/keys"
	"github.com/tgienger/archidraw/internal/ui/styles"
)

// dateLayout is how due dates are typed in the edit form
const dateLayout = "2006-01-02"

// Edit form fields
const (
	fieldTitle = iota
	fieldDesc
	fieldPriority
	fieldDue
	fieldPhase
	fieldSave
	fieldCount
)

// boardRow is one line of the phase board: a phase task or one of its instructions
type boardRow struct {
	task models.Task
	sub  bool
}

// SuggestionsReady carries suggested instructions back from the suggestion service
type SuggestionsReady struct {
	ParentID string
	Items    []string
}

// TaskListView is the phase board of one project
type TaskListView struct {
	ctx     context.Context
	studio  *studio.Studio
	project models.Project
	rows    []boardRow
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int
	status status

	cursor      int
	scrollY     int
	showHistory bool // include completed revisions
	suggesting  bool

	// Phase picker, used both for "new phase" and after an approval
	picking    bool
	pickTitle  string
	pickPhases []models.Phase
	pickCursor int

	// Quick entry for instructions
	composing     bool
	composeParent models.Task
	composer      textinput.Model

	// Send for review
	reviewing    bool
	reviewTarget models.Task
	mention      textinput.Model

	// Reject with feedback
	rejecting    bool
	rejectTarget models.Task
	feedback     textarea.Model

	// Task editing
	editing      bool
	editTarget   models.Task
	editTitle    textinput.Model
	editDesc     textarea.Model
	editPriority textinput.Model
	editDue      textinput.Model
	editPhase    models.Phase
	editFocusIdx int

	// Read-only detail view
	viewingTask bool

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates the phase board for a project
func NewTaskListView(ctx context.Context, st *studio.Studio, project models.Project) *TaskListView {
	s := styles.NewStyles()

	composer := textinput.New()
	composer.Placeholder = "Measure windows p1 @budi tomorrow"
	composer.CharLimit = 200

	mention := textinput.New()
	mention.Placeholder = "@name"
	mention.CharLimit = 60

	feedback := textarea.New()
	feedback.Placeholder = "What needs to change?"
	feedback.CharLimit = 2000
	feedback.SetWidth(50)
	feedback.SetHeight(4)
	feedback.ShowLineNumbers = false

	editTitle := textinput.New()
	editTitle.Placeholder = "Title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editPriority := textinput.New()
	editPriority.Placeholder = "1-3"
	editPriority.CharLimit = 2

	editDue := textinput.New()
	editDue.Placeholder = dateLayout
	editDue.CharLimit = 10

	return &TaskListView{
		ctx:          ctx,
		studio:       st,
		project:      project,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		composer:     composer,
		mention:      mention,
		feedback:     feedback,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editPriority: editPriority,
		editDue:      editDue,
	}
}

// Init builds the board
func (v *TaskListView) Init() tea.Cmd {
	v.refresh()
	return nil
}

// refresh rebuilds the rows from the studio, keeping the cursor on the same task
func (v *TaskListView) refresh() {
	selected := ""
	if t, ok := v.selected(); ok {
		selected = t.ID
	}

	var phaseTasks []models.Task
	if v.showHistory {
		for _, p := range models.Phases {
			phaseTasks = append(phaseTasks, v.studio.Lineage(v.project.ID, p)...)
		}
	} else {
		phaseTasks = v.studio.OpenPhaseTasks(v.project.ID)
	}

	v.rows = v.rows[:0]
	for _, t := range phaseTasks {
		v.rows = append(v.rows, boardRow{task: t})
		for _, sub := range v.studio.Subtasks(t.ID) {
			v.rows = append(v.rows, boardRow{task: sub, sub: true})
		}
	}

	v.cursor = min(v.cursor, max(0, len(v.rows)-1))
	for i, r := range v.rows {
		if r.task.ID == selected {
			v.cursor = i
			break
		}
	}
	v.ensureVisible()
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return models.Task{}, false
	}
	return v.rows[v.cursor].task, true
}

// selectedPhaseTask returns the phase task under the cursor, or the parent of the
// instruction under the cursor
func (v *TaskListView) selectedPhaseTask() (models.Task, bool) {
	for i := min(v.cursor, len(v.rows)-1); i >= 0; i-- {
		if !v.rows[i].sub {
			return v.rows[i].task, true
		}
	}
	return models.Task{}, false
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.feedback.SetWidth(inputWidth)
		v.composer.Width = inputWidth - 2
		return v, nil

	case StudioChanged:
		v.refresh()
		return v, nil

	case SuggestionsReady:
		v.suggesting = false
		if len(msg.Items) == 0 {
			v.status = statusOK("No suggestions")
			return v, nil
		}
		added, err := v.studio.AddSuggestions(v.ctx, msg.ParentID, msg.Items)
		if err != nil {
			v.status = statusErr(err)
			return v, nil
		}
		v.status = statusOK("Added %d suggested instructions", len(added))
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch {
		case v.confirmingDelete:
			return v.updateConfirmDelete(msg)
		case v.picking:
			return v.updatePicking(msg)
		case v.composing:
			return v.updateComposing(msg)
		case v.reviewing:
			return v.updateReviewing(msg)
		case v.rejecting:
			return v.updateRejecting(msg)
		case v.editing:
			return v.updateEditing(msg)
		case v.viewingTask:
			return v.updateViewingTask(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Timeline):
		return v, func() tea.Msg { return OpenTimeline{} }

	case key.Matches(msg, v.keys.History):
		v.showHistory = !v.showHistory
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.New):
		available := v.studio.AvailablePhases(v.project.ID)
		if len(available) == 0 {
			v.status = statusOK("Every phase already has an open task")
			return v, nil
		}
		v.startPicking("Start Phase", available)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if len(v.rows) > 0 {
			v.viewingTask = true
		}
		return v, nil
	}

	task, ok := v.selected()
	if !ok {
		return v, nil
	}
	parent, _ := v.selectedPhaseTask()

	switch {
	case key.Matches(msg, v.keys.Compose):
		if !parent.Open() {
			v.status = statusOK("%s is closed", parent.Title)
			return v, nil
		}
		v.composing = true
		v.composeParent = parent
		v.composer.Reset()
		v.composer.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if !v.rows[v.cursor].sub {
			return v, nil
		}
		v.apply(v.studio.ToggleSubtask(v.ctx, task.ID))
		return v, nil

	case key.Matches(msg, v.keys.Review):
		v.reviewing = true
		v.reviewTarget = parent
		v.mention.SetValue("@")
		v.mention.CursorEnd()
		v.mention.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Approve):
		ev, next, err := v.studio.Approve(v.ctx, parent.ID)
		if err != nil {
			v.status = statusErr(err)
			return v, nil
		}
		v.refresh()
		if ev == nil {
			return v, nil
		}
		v.status = statusOK("%s REV %d approved", ev.Phase, ev.Revision)
		if len(next) > 0 {
			v.startPicking("Start Next Phase?", next)
		}
		return v, nil

	case key.Matches(msg, v.keys.Reject):
		if parent.Status != models.StatusInReview {
			v.status = statusOK("%s is not in review", parent.Title)
			return v, nil
		}
		v.rejecting = true
		v.rejectTarget = parent
		v.feedback.Reset()
		v.feedback.Focus()
		return v, textarea.Blink

	case key.Matches(msg, v.keys.Suggest):
		if v.suggesting {
			return v, nil
		}
		v.suggesting = true
		v.status = statusOK("Asking for suggestions...")
		return v, v.suggest(parent)

	case key.Matches(msg, v.keys.Edit):
		v.startEditTask(task)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTarget = task
		return v, nil
	}

	return v, nil
}

// suggest calls the suggestion service off the UI goroutine with a snapshot of the task
func (v *TaskListView) suggest(t models.Task) tea.Cmd {
	sg := v.studio.Suggester()
	ctx := v.ctx
	return func() tea.Msg {
		return SuggestionsReady{ParentID: t.ID, Items: sg.Suggest(ctx, t.Title, t.Description)}
	}
}

// apply records the outcome of a studio call and refreshes on success
func (v *TaskListView) apply(err error) bool {
	if err != nil {
		v.status = statusErr(err)
		return false
	}
	v.status = status{}
	v.refresh()
	return true
}

func (v *TaskListView) startPicking(title string, phases []models.Phase) {
	v.picking = true
	v.pickTitle = title
	v.pickPhases = phases
	v.pickCursor = 0
}

func (v *TaskListView) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.picking = false
	case key.Matches(msg, v.keys.Up):
		if v.pickCursor > 0 {
			v.pickCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.pickCursor < len(v.pickPhases)-1 {
			v.pickCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		v.picking = false
		task, err := v.studio.StartPhase(v.ctx, v.project.ID, v.pickPhases[v.pickCursor])
		if v.apply(err) {
			v.status = statusOK("Started %s", task.Title)
			for i, r := range v.rows {
				if r.task.ID == task.ID {
					v.cursor = i
				}
			}
			v.ensureVisible()
		}
	}
	return v, nil
}

func (v *TaskListView) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.composing = false
		v.composer.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		sub, res, err := v.studio.Compose(v.ctx, v.composeParent.ID, v.composer.Value())
		if errors.Is(err, studio.ErrEmptyTitle) {
			return v, nil
		}
		if !v.apply(err) {
			return v, nil
		}
		v.status = statusOK("Added %s", sub.Title)
		if res.NewStakeholderName != "" {
			v.status = statusOK("Added %s (@%s is not in the directory)", sub.Title, res.NewStakeholderName)
		}
		// Stay in the composer for the next instruction
		v.composer.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.reviewing = false
		v.mention.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.reviewing = false
		v.mention.Blur()
		st, err := v.studio.AssignReviewerByMention(v.ctx, v.reviewTarget.ID, v.mention.Value())
		if v.apply(err) {
			v.status = statusOK("%s sent to %s", v.reviewTarget.Title, st.Name)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.mention, cmd = v.mention.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateRejecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.rejecting = false
		v.feedback.Blur()
		return v, nil

	case msg.String() == "ctrl+s":
		next, err := v.studio.Reject(v.ctx, v.rejectTarget.ID, v.feedback.Value())
		if !v.apply(err) {
			return v, nil
		}
		v.rejecting = false
		v.feedback.Blur()
		v.status = statusOK("Opened %s", next.Title)
		return v, nil
	}

	var cmd tea.Cmd
	v.feedback, cmd = v.feedback.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		if v.apply(v.studio.DeleteTask(v.ctx, v.deleteTarget.ID)) {
			v.status = statusOK("Deleted %s", v.deleteTarget.Title)
		}
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.selected()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTarget = task
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editTarget = task
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editPriority.SetValue(strconv.Itoa(int(task.Priority)))
	v.editDue.Reset()
	if task.DueDate != nil {
		v.editDue.SetValue(task.DueDate.Format(dateLayout))
	}
	v.editPhase = task.Phase
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editPriority.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldPriority:
		v.editPriority.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		v.saveTask()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case v.editFocusIdx == fieldPhase && (key.Matches(msg, v.keys.Left) || key.Matches(msg, v.keys.Right)):
		step := 1
		if key.Matches(msg, v.keys.Left) {
			step = len(models.Phases) - 1
		}
		for i, p := range models.Phases {
			if p == v.editPhase {
				v.editPhase = models.Phases[(i+step)%len(models.Phases)]
				break
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter) && v.editFocusIdx != fieldDesc:
		if v.editFocusIdx == fieldSave {
			v.saveTask()
			return v, nil
		}
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldPriority:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) saveTask() {
	title := strings.TrimSpace(v.editTitle.Value())
	desc := strings.TrimSpace(v.editDesc.Value())
	u := phase.TaskUpdate{Title: &title, Description: &desc}

	if n, err := strconv.Atoi(strings.TrimSpace(v.editPriority.Value())); err == nil {
		p := models.Priority(n)
		u.Priority = &p
	}

	if raw := strings.TrimSpace(v.editDue.Value()); raw != "" {
		due, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			v.status = statusErr(fmt.Errorf("due date must look like %s", dateLayout))
			return
		}
		u.DueDate = &due
	}

	if v.editTarget.IsPhaseTask() && v.editPhase != v.editTarget.Phase {
		p := v.editPhase
		u.Phase = &p
	}

	if v.apply(v.studio.UpdateTask(v.ctx, v.editTarget.ID, u)) {
		v.editing = false
		if u.Phase != nil {
			if got, ok := v.studio.Task(v.editTarget.ID); ok && got.Phase != *u.Phase {
				v.status = statusOK("%s already has an open task", *u.Phase)
			}
		}
	}
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) visibleRows() int {
	return max(v.height-10, 1)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"n", "start phase",
			"i", "add instruction",
			"space", "instruction done",
			"r", "send for review",
			"y", "approve",
			"x", "reject with feedback",
			"s", "suggest instructions",
			"e", "edit",
			"d", "delete",
			"↵", "details",
			"c", "show history",
			"t", "timeline",
			"esc", "projects",
			"q", "quit",
		)
	}

	if v.confirmingDelete {
		detail := "Instructions under it are removed too."
		if !v.deleteTarget.IsPhaseTask() {
			detail = v.deleteTarget.Title
		}
		return confirm(v.styles, v.width, v.height, "Delete Task?", detail)
	}

	if v.picking {
		return v.renderPicker()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderBoard())
	b.WriteString("\n")

	switch {
	case v.composing:
		b.WriteString(v.renderPrompt("Add to "+v.composeParent.Title, v.composer.View(), "↵ add • esc done"))
	case v.reviewing:
		b.WriteString(v.renderPrompt("Send "+v.reviewTarget.Title+" to", v.mention.View(), "↵ send • esc cancel"))
	case v.rejecting:
		b.WriteString(v.renderPrompt("Reject "+v.rejectTarget.Title, v.feedback.View(), "ctrl+s reject • esc cancel"))
	default:
		b.WriteString(v.status.render(v.styles))
		b.WriteString("\n")
		b.WriteString(v.renderHelp())
	}

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles

	project := v.project
	if p, ok := v.studio.Project(project.ID); ok {
		project = p
	}

	titleText := project.Name
	if v.showHistory {
		titleText += " (History)"
	}

	sub := project.ClientName
	if !project.StartDate.IsZero() {
		sub += fmt.Sprintf(" • %s - %s", project.StartDate.Format("Jan 2"), project.EndDate.Format("Jan 2"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(titleText),
		s.TitleMuted.Render(sub),
	)
}

func (v *TaskListView) renderBoard() string {
	s := v.styles

	if len(v.rows) == 0 {
		return s.TitleMuted.Render("No open phases. Press 'n' to start one.")
	}

	end := min(v.scrollY+v.visibleRows(), len(v.rows))
	var lines []string
	for i := v.scrollY; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) renderRow(r boardRow, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)
	t := r.task

	var line string
	if r.sub {
		box := "[ ]"
		title := t.Title
		if t.Status == models.StatusCompleted {
			box = "[x]"
			title = s.Done.Render(title)
		}
		parts := []string{"  " + box, s.TaskPriority.Render(priorityLabel(t.Priority)), title}
		if due := dueLabel(t); due != "" {
			parts = append(parts, s.TitleMuted.Render(due))
		}
		line = strings.Join(parts, " ")
	} else {
		phaseStyle := s.Phase.Foreground(styles.PhaseColor(t.Phase))
		parts := []string{phaseStyle.Render("■"), phaseStyle.Render(t.Title)}
		switch t.Status {
		case models.StatusInReview:
			parts = append(parts, s.InReview.Render("with "+v.stakeholderName(t.BallWith)))
		case models.StatusCompleted:
			parts = append(parts, s.TitleMuted.Render("closed"))
		}
		if len(t.History) > 0 {
			parts = append(parts, s.TitleMuted.Render(fmt.Sprintf("%d notes", len(t.History))))
		}
		line = strings.Join(parts, " ")
	}

	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func (v *TaskListView) stakeholderName(id string) string {
	if st, ok := v.studio.Stakeholder(id); ok {
		return st.Name
	}
	if id == "" {
		return "nobody"
	}
	return id
}

func (v *TaskListView) renderPrompt(label, input, hint string) string {
	s := v.styles
	width := clamp(styles.ContentWidth(v.width)-6, 20, 60)
	return lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render(label),
		s.InputFocused.Width(width).Render(input),
		s.Help.Render(hint),
		v.status.render(s),
	)
}

func (v *TaskListView) renderPicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var items []string
	for i, p := range v.pickPhases {
		style := s.ListItem
		if i == v.pickCursor {
			style = s.ListSelected
		}
		marker := s.Phase.Foreground(styles.PhaseColor(p)).Render("■")
		items = append(items, style.Render(marker+" "+string(p)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(v.pickTitle),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("↵ start • esc skip"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	field := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused.Width(inputWidth)
		}
		return s.Input.Width(inputWidth)
	}

	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render("Edit Task"),
		"",
		"Title:",
		field(fieldTitle).Render(v.editTitle.View()),
		"Description:",
		field(fieldDesc).Render(v.editDesc.View()),
		"Priority:",
		field(fieldPriority).Render(v.editPriority.View()),
		"Due:",
		field(fieldDue).Render(v.editDue.View()),
	}
	if v.editTarget.IsPhaseTask() {
		phaseLabel := "← " + string(v.editPhase) + " →"
		rows = append(rows, "Phase:", field(fieldPhase).Render(phaseLabel))
	}
	rows = append(rows,
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
		v.status.render(s),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return helpLine(v.styles, "?", "help")
	}

	historyLabel := "history"
	if v.showHistory {
		historyLabel = "open only"
	}

	return helpLine(v.styles,
		"n", "phase",
		"i", "instruction",
		"r", "review",
		"y", "approve",
		"x", "reject",
		"s", "suggest",
		"c", historyLabel,
		"?", "more",
	)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.selected()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	dueText := "None"
	if task.DueDate != nil {
		dueText = task.DueDate.Format("Mon Jan 2, 2006")
	}

	rows := []string{
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Phase"),
		s.Phase.Foreground(styles.PhaseColor(task.Phase)).Render(string(task.Phase)),
		"",
		labelStyle.Render("Status"),
		string(task.Status),
		"",
		labelStyle.Render("Priority"),
		s.TaskPriority.Render(task.Priority.String()),
		"",
		labelStyle.Render("Due"),
		dueText,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
	}

	if task.IsPhaseTask() {
		rows = append(rows, "", labelStyle.Render("With"), v.stakeholderName(task.BallWith))

		rows = append(rows, "", labelStyle.Render("Revision notes"))
		if len(task.History) == 0 {
			rows = append(rows, s.TitleMuted.Render("No feedback yet"))
		}
		for _, h := range task.History {
			rows = append(rows, lipgloss.JoinVertical(lipgloss.Left,
				s.TitleMuted.Render(fmt.Sprintf("REV %d • %s", h.Revision, h.Date.Format("Jan 2, 2006 3:04 PM"))),
				lipgloss.NewStyle().Width(textWidth).Render(h.Note),
			))
		}

		rows = append(rows, "", labelStyle.Render("Revisions"))
		for _, rev := range v.studio.Lineage(task.ProjectID, task.Phase) {
			rows = append(rows, fmt.Sprintf("%s  %s", rev.Title, s.TitleMuted.Render(string(rev.Status))))
		}
	}

	rows = append(rows, "", helpLine(s, "e", "edit", "d", "delete", "esc", "back"))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, v.width, v.height)
}
