package project

import "time"

// Project is a planning container for generated task workflows.
type Project struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Deadline    string    `db:"deadline" json:"deadline,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Task is one step of a project plan.
type Task struct {
	ID           string `db:"id" json:"id"`
	ProjectID    string `db:"project_id" json:"projectId"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	DurationDays int    `db:"duration_days" json:"durationDays"`
	DependsOn    string `db:"depends_on" json:"dependsOn,omitempty"`
	Priority     string `db:"priority" json:"priority"`
	Role         string `db:"role" json:"role"`
	Status       string `db:"status" json:"status"`
	Position     int    `db:"position" json:"position"`
}

// Task statuses.
const (
	StatusTodo = "todo"
	StatusDone = "done"
)

// Status summarizes project progress for a status turn.
type Status struct {
	Message       string `json:"message"`
	TotalTasks    int    `json:"totalTasks"`
	DoneTasks     int    `json:"doneTasks"`
	RemainingDays int    `json:"remainingDays"`
	Schedule      []Task `json:"schedule"`
}

// LearningNote is a persisted takeaway from external learning sources.
// Insights are stored as a JSON array by the repository.
type LearningNote struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Insights  []string  `json:"insights"`
	CreatedAt time.Time `json:"createdAt"`
}
