package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/task2sms/tui/internal/model"
)

// ReplaceNotifications swaps the cached delivery log for the given
// collection.
func (s *SQLiteStore) ReplaceNotifications(ctx context.Context, notifications []model.Notification) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notification cache: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO notifications (id, task_id, status, provider, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshaling notification %d: %w", n.ID, err)
		}

		createdAt := n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		_, err = stmt.ExecContext(ctx,
			n.ID, n.TaskID, n.Status, n.Provider, createdAt, string(payload))
		if err != nil {
			return fmt.Errorf("caching notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications returns the cached delivery log, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	return s.queryNotifications(ctx,
		"SELECT payload FROM notifications ORDER BY created_at DESC, id DESC")
}

// GetTaskNotifications returns the cached delivery log for one task,
// newest first.
func (s *SQLiteStore) GetTaskNotifications(ctx context.Context, taskID int) ([]model.Notification, error) {
	return s.queryNotifications(ctx,
		"SELECT payload FROM notifications WHERE task_id = ? ORDER BY created_at DESC, id DESC",
		taskID)
}

func (s *SQLiteStore) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]model.Notification, error) {
	var payloads []string
	if err := s.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("querying notification cache: %w", err)
	}

	notifications := make([]model.Notification, 0, len(payloads))
	for _, p := range payloads {
		var n model.Notification
		if err := json.Unmarshal([]byte(p), &n); err != nil {
			return nil, fmt.Errorf("unmarshaling cached notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
