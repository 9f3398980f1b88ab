package api

import (
	"context"
	"fmt"

	"github.com/task2sms/tui/internal/model"
)

// ListTasks fetches every task owned by the authenticated user. The server
// does no filtering; views aggregate over the full collection client-side.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.Get(ctx, "/api/tasks/", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	if err := c.Get(ctx, fmt.Sprintf("/api/tasks/%d", id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask submits a new task. The condition_rules sub-object must be
// freshly encoded from the form inputs on every submit.
func (c *Client) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	var created model.Task
	if err := c.Post(ctx, "/api/tasks/", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask replaces an existing task.
func (c *Client) UpdateTask(ctx context.Context, id int, task model.Task) (*model.Task, error) {
	var updated model.Task
	if err := c.Put(ctx, fmt.Sprintf("/api/tasks/%d", id), task, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/api/tasks/%d", id))
}

// ToggleTask flips a task between active and paused.
func (c *Client) ToggleTask(ctx context.Context, id int) (*model.Task, error) {
	var toggled model.Task
	if err := c.Post(ctx, fmt.Sprintf("/api/tasks/%d/toggle", id), nil, &toggled); err != nil {
		return nil, err
	}
	return &toggled, nil
}
