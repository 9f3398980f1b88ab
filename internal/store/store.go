package store

import (
	"context"

	"github.com/task2sms/tui/internal/model"
)

// Cache is the persistence interface for the local snapshot of
// server-owned collections. Each Replace* call mirrors one full fetch;
// the server remains the source of truth.
type Cache interface {
	ReplaceTasks(ctx context.Context, tasks []model.Task) error
	GetTasks(ctx context.Context) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id int) (*model.Task, error)

	ReplaceNotifications(ctx context.Context, notifications []model.Notification) error
	GetNotifications(ctx context.Context) ([]model.Notification, error)
	GetTaskNotifications(ctx context.Context, taskID int) ([]model.Notification, error)

	Close() error
}
