package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Batoli19/cavista/internal/model/project"
)

// ProjectRepository handles project and task persistence. Exactly one
// project is active at a time; creating a project activates it.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and makes it the active one.
func (r *ProjectRepository) Create(p *project.Project) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE projects SET active = 0 WHERE active = 1`); err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO projects (id, name, description, deadline, active, created_at)
		 VALUES (?, ?, ?, ?, 1, ?)`,
		p.ID, p.Name, p.Description, p.Deadline, p.CreatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Active returns the active project, or nil when none exists.
func (r *ProjectRepository) Active() (*project.Project, error) {
	var p project.Project
	err := r.db.Get(&p, `SELECT id, name, description, deadline, active, created_at
		FROM projects WHERE active = 1 LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceTasks swaps the project's task list atomically.
func (r *ProjectRepository) ReplaceTasks(projectID string, tasks []project.Task) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return err
	}

	for _, t := range tasks {
		_, err := tx.Exec(
			`INSERT INTO tasks (id, project_id, name, description, duration_days,
				depends_on, priority, role, status, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, projectID, t.Name, t.Description, t.DurationDays,
			t.DependsOn, t.Priority, t.Role, t.Status, t.Position,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Tasks lists the project's tasks in plan order.
func (r *ProjectRepository) Tasks(projectID string) ([]project.Task, error) {
	var tasks []project.Task
	err := r.db.Select(&tasks, `SELECT id, project_id, name, description, duration_days,
		depends_on, priority, role, status, position
		FROM tasks WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task fetches a single task by ID within a project.
func (r *ProjectRepository) Task(projectID, taskID string) (*project.Task, error) {
	var t project.Task
	err := r.db.Get(&t, `SELECT id, project_id, name, description, duration_days,
		depends_on, priority, role, status, position
		FROM tasks WHERE project_id = ? AND id = ?`, projectID, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTaskStatus updates one task's status.
func (r *ProjectRepository) SetTaskStatus(projectID, taskID, status string) error {
	res, err := r.db.Exec(`UPDATE tasks SET status = ? WHERE project_id = ? AND id = ?`,
		status, projectID, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}
	return nil
}

// ExtendTask adds days to a task's duration.
func (r *ProjectRepository) ExtendTask(projectID, taskID string, days int) error {
	res, err := r.db.Exec(
		`UPDATE tasks SET duration_days = duration_days + ? WHERE project_id = ? AND id = ?`,
		days, projectID, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}
	return nil
}
