package api

import (
	"context"
	"fmt"

	"github.com/task2sms/tui/internal/model"
)

// ListNotifications fetches the full delivery log for the authenticated
// user, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.Get(ctx, "/api/notifications/", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListTaskNotifications fetches the delivery log for a single task.
func (c *Client) ListTaskNotifications(ctx context.Context, taskID int) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.Get(ctx, fmt.Sprintf("/api/notifications/task/%d", taskID), &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetNotification fetches a single notification by ID.
func (c *Client) GetNotification(ctx context.Context, id int) (*model.Notification, error) {
	var notification model.Notification
	if err := c.Get(ctx, fmt.Sprintf("/api/notifications/%d", id), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}
