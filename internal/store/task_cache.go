package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/task2sms/tui/internal/model"
)

// ReplaceTasks swaps the cached task snapshot for the given collection.
// Sorting/filtering columns are denormalized; the payload column keeps the
// full JSON mirror so no field is lost between schema versions.
func (s *SQLiteStore) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing task cache: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO tasks (id, name, is_active, updated_at, payload)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshaling task %d: %w", t.ID, err)
		}

		updatedAt := ""
		if t.UpdatedAt != nil {
			updatedAt = t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}

		_, err = stmt.ExecContext(ctx, t.ID, t.Name, t.IsActive, updatedAt, string(payload))
		if err != nil {
			return fmt.Errorf("caching task %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetTasks returns the cached task snapshot, most recently updated first.
func (s *SQLiteStore) GetTasks(ctx context.Context) ([]model.Task, error) {
	var payloads []string
	err := s.db.SelectContext(ctx, &payloads,
		"SELECT payload FROM tasks ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying task cache: %w", err)
	}

	tasks := make([]model.Task, 0, len(payloads))
	for _, p := range payloads {
		var t model.Task
		if err := json.Unmarshal([]byte(p), &t); err != nil {
			return nil, fmt.Errorf("unmarshaling cached task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTaskByID returns a cached task, or nil when it is not in the snapshot.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id int) (*model.Task, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, "SELECT payload FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cached task %d: %w", id, err)
	}

	var t model.Task
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, fmt.Errorf("unmarshaling cached task %d: %w", id, err)
	}
	return &t, nil
}
