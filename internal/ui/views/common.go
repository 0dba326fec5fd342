package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// SelectedProject opens a project's phase board
type SelectedProject struct {
	Project models.Project
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// OpenTimeline switches to the timeline view
type OpenTimeline struct{}

// StudioChanged tells other views to refresh from the studio
type StudioChanged struct{}

// status is a one-line message shown under a view
type status struct {
	text string
	err  bool
}

func statusOK(format string, args ...any) status {
	return status{text: fmt.Sprintf(format, args...)}
}

func statusErr(err error) status {
	return status{text: err.Error(), err: true}
}

func (st status) render(s *styles.Styles) string {
	if st.text == "" {
		return ""
	}
	if st.err {
		return s.StatusError.Render("✗ " + st.text)
	}
	return s.StatusBar.Render(st.text)
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// helpPopup renders a centered keyboard reference
func helpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	contentWidth := styles.ContentWidth(width)

	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, fmt.Sprintf("%-7s%s", s.HelpKey.Render(pairs[i]), pairs[i+1]))
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

// confirm renders a yes/no prompt
func confirm(s *styles.Styles, width, height int, title, detail string) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

func priorityLabel(p models.Priority) string {
	if !p.Valid() {
		return ""
	}
	return "[" + p.String() + "]"
}

func dueLabel(t models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return "due " + t.DueDate.Format("Jan 2")
}
