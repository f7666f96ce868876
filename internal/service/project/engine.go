// Package project runs plan generation, status tracking, and risk checks
// over the persisted project store.
package project

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Batoli19/cavista/internal/model/project"
	"github.com/Batoli19/cavista/internal/store"
)

// PlanGenerator produces a task breakdown for a project.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, p *project.Project) ([]project.Task, error)
}

// Engine implements project operations over the repository.
type Engine struct {
	repo    *store.ProjectRepository
	planner PlanGenerator
}

// NewEngine creates the project engine.
func NewEngine(repo *store.ProjectRepository, planner PlanGenerator) *Engine {
	return &Engine{repo: repo, planner: planner}
}

// Active returns the current project, if any.
func (e *Engine) Active(ctx context.Context) (*project.Project, bool) {
	p, err := e.repo.Active()
	if err != nil {
		log.Printf("[project] active lookup failed: %v", err)
		return nil, false
	}
	return p, p != nil
}

// Create inserts a new project and activates it.
func (e *Engine) Create(ctx context.Context, name, description string) (*project.Project, error) {
	p := &project.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.repo.Create(p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	log.Printf("[project] created %q id=%s", p.Name, p.ID)
	return p, nil
}

// GeneratePlan builds a task breakdown for the project.
func (e *Engine) GeneratePlan(ctx context.Context, p *project.Project) ([]project.Task, error) {
	tasks, err := e.planner.GeneratePlan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	return tasks, nil
}

// SaveTasks replaces the project's plan.
func (e *Engine) SaveTasks(ctx context.Context, projectID string, tasks []project.Task) error {
	return e.repo.ReplaceTasks(projectID, tasks)
}

// Status summarizes completion and remaining effort.
func (e *Engine) Status(ctx context.Context, p *project.Project) (project.Status, error) {
	tasks, err := e.repo.Tasks(p.ID)
	if err != nil {
		return project.Status{}, fmt.Errorf("load tasks: %w", err)
	}

	done := 0
	remainingDays := 0
	for _, t := range tasks {
		if t.Status == project.StatusDone {
			done++
			continue
		}
		remainingDays += t.DurationDays
	}

	message := fmt.Sprintf("Project %q: %d of %d tasks done, about %d day(s) of work remaining.",
		p.Name, done, len(tasks), remainingDays)
	if len(tasks) == 0 {
		message = fmt.Sprintf("Project %q has no tasks yet. Say 'generate plan' to create them.", p.Name)
	}

	return project.Status{
		Message:       message,
		TotalTasks:    len(tasks),
		DoneTasks:     done,
		RemainingDays: remainingDays,
		Schedule:      tasks,
	}, nil
}

// Diagnose reports plan risks as short human-readable findings.
func (e *Engine) Diagnose(ctx context.Context, projectID string) ([]string, error) {
	tasks, err := e.repo.Tasks(projectID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return []string{"No plan exists yet, so there is nothing to audit."}, nil
	}

	var findings []string
	openHigh := 0
	longest := tasks[0]
	byID := make(map[string]project.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		if t.Status != project.StatusDone && t.Priority == "high" {
			openHigh++
		}
		if t.DurationDays > longest.DurationDays {
			longest = t
		}
	}

	if openHigh > 0 {
		findings = append(findings, fmt.Sprintf("%d high-priority task(s) are still open.", openHigh))
	}
	if longest.DurationDays >= 4 {
		findings = append(findings, fmt.Sprintf("%q is the longest task at %d days; consider splitting it.",
			longest.Name, longest.DurationDays))
	}
	for _, t := range tasks {
		if t.DependsOn == "" || t.Status == project.StatusDone {
			continue
		}
		dep, ok := byID[t.DependsOn]
		if !ok {
			findings = append(findings, fmt.Sprintf("%q depends on missing task %s.", t.Name, t.DependsOn))
			continue
		}
		if dep.Status != project.StatusDone {
			findings = append(findings, fmt.Sprintf("%q is blocked until %q completes.", t.Name, dep.Name))
		}
	}
	if len(findings) == 0 {
		findings = append(findings, "No blocking risks found. The plan looks healthy.")
	}
	return findings, nil
}

// MarkDone completes a task on the active project.
func (e *Engine) MarkDone(ctx context.Context, taskID string) (string, error) {
	p, ok := e.Active(ctx)
	if !ok {
		return "", fmt.Errorf("no active project")
	}
	taskID = strings.ToLower(strings.TrimSpace(taskID))
	task, err := e.repo.Task(p.ID, taskID)
	if err != nil {
		return "", err
	}
	if err := e.repo.SetTaskStatus(p.ID, taskID, project.StatusDone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %q (%s) as done.", task.Name, taskID), nil
}

// Delay extends a task's duration on the active project.
func (e *Engine) Delay(ctx context.Context, taskID string, days int) (string, error) {
	p, ok := e.Active(ctx)
	if !ok {
		return "", fmt.Errorf("no active project")
	}
	if days < 1 {
		days = 1
	}
	taskID = strings.ToLower(strings.TrimSpace(taskID))
	task, err := e.repo.Task(p.ID, taskID)
	if err != nil {
		return "", err
	}
	if err := e.repo.ExtendTask(p.ID, taskID, days); err != nil {
		return "", err
	}
	return fmt.Sprintf("Delayed %q (%s) by %d day(s).", task.Name, taskID, days), nil
}
