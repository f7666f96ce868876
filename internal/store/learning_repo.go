package store

import (
	"encoding/json"

	"github.com/Batoli19/cavista/internal/model/project"
)

// LearningRepository persists lessons extracted from external videos.
type LearningRepository struct {
	db *DB
}

// NewLearningRepository creates a learning note repository.
func NewLearningRepository(db *DB) *LearningRepository {
	return &LearningRepository{db: db}
}

// Save inserts a learning note. Insights are stored as a JSON array.
func (r *LearningRepository) Save(note *project.LearningNote) error {
	insights, err := json.Marshal(note.Insights)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO learning_notes (id, source, title, summary, insights, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.Source, note.Title, note.Summary, string(insights), note.CreatedAt,
	)
	return err
}

// Recent returns the newest notes, most recent first.
func (r *LearningRepository) Recent(limit int) ([]project.LearningNote, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(
		`SELECT id, source, title, summary, insights, created_at
		 FROM learning_notes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []project.LearningNote
	for rows.Next() {
		var note project.LearningNote
		var insights string
		if err := rows.Scan(&note.ID, &note.Source, &note.Title, &note.Summary, &insights, &note.CreatedAt); err != nil {
			return nil, err
		}
		if insights != "" {
			if err := json.Unmarshal([]byte(insights), &note.Insights); err != nil {
				return nil, err
			}
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
