package main

import (
	"github.com/fatih/color"
	"github.com/tgienger/archidraw/internal/models"
)

// Sprint color functions for building styled strings.
var (
	bold        = color.New(color.Bold).SprintFunc()
	dim         = color.New(color.Faint).SprintFunc()
	cyan        = color.New(color.FgCyan).SprintFunc()
	green       = color.New(color.FgGreen).SprintFunc()
	red         = color.New(color.FgRed).SprintFunc()
	yellow      = color.New(color.FgYellow).SprintFunc()
	boldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	boldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// statusLabel colors a task status for listings
func statusLabel(s models.Status) string {
	switch s {
	case models.StatusTodo:
		return yellow(string(s))
	case models.StatusInReview:
		return cyan(string(s))
	case models.StatusCompleted:
		return green(string(s))
	}
	return string(s)
}

func priorityLabel(p models.Priority) string {
	if p == models.P1 {
		return red(p.String())
	}
	return boldYellow(p.String())
}
