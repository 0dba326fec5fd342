package models

import (
	"fmt"
	"time"
)

// Priority ranks projects and tasks, P1 being the most urgent
type Priority int

const (
	P1 Priority = 1
	P2 Priority = 2
	P3 Priority = 3
)

// Valid reports whether p is one of P1..P3
func (p Priority) Valid() bool {
	return p >= P1 && p <= P3
}

func (p Priority) String() string {
	if !p.Valid() {
		return "P?"
	}
	return fmt.Sprintf("P%d", int(p))
}

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo      Status = "TODO"
	StatusInReview  Status = "IN_REVIEW"
	StatusCompleted Status = "COMPLETED"
)

// Phase is one of the studio's drawing phases
type Phase string

const (
	PhaseMoodboard    Phase = "Moodboard"
	PhaseLayout2D     Phase = "Layout 2D"
	Phase3DDesign     Phase = "3D Design"
	PhaseMaterials    Phase = "Materials & FF&E"
	PhaseConstruction Phase = "Construction Drawings"
	PhaseSupervision  Phase = "Supervision"
)

// Phases lists every phase in the order a project normally moves through them
var Phases = []Phase{
	PhaseMoodboard,
	PhaseLayout2D,
	Phase3DDesign,
	PhaseMaterials,
	PhaseConstruction,
	PhaseSupervision,
}

// Role describes a stakeholder's relationship to the studio
type Role string

const (
	RoleClient     Role = "Client"
	RoleContractor Role = "Contractor"
	RoleVendor     Role = "Vendor"
	RoleConsultant Role = "Consultant"
	RoleInternal   Role = "Internal"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleContractor, RoleVendor, RoleConsultant, RoleInternal:
		return true
	}
	return false
}

// Project represents a studio project. Archived projects are hidden, never removed.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Archived    bool      `json:"isArchived"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	ClientName  string    `json:"clientName"`
}

// RevisionRecord captures the feedback that closed one revision of a phase
type RevisionRecord struct {
	Revision int       `json:"revision"`
	Note     string    `json:"note"`
	Date     time.Time `json:"date"`
}

// Task is either a phase task (ParentID empty) or an instruction subtask under one
type Task struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	ParentID    string           `json:"parentId,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    Priority         `json:"priority"`
	Status      Status           `json:"status"`
	Phase       Phase            `json:"phase"`
	Revision    int              `json:"revision"`
	BallWith    string           `json:"ballWith,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	StartDate   *time.Time       `json:"startDate,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	History     []RevisionRecord `json:"history"`
}

// IsPhaseTask reports whether the task is a top-level phase task
func (t Task) IsPhaseTask() bool {
	return t.ParentID == ""
}

// Open reports whether the task has not been completed
func (t Task) Open() bool {
	return t.Status != StatusCompleted
}

// Stakeholder is someone a phase task can be handed to for review
type Stakeholder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
