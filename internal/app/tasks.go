package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/task2sms/tui/internal/model"
)

// tasksLoadedMsg carries a task snapshot from the cache or the server.
type tasksLoadedMsg struct {
	tasks     []model.Task
	fromCache bool
	err       error
}

// notificationsLoadedMsg carries a delivery log snapshot.
type notificationsLoadedMsg struct {
	notifications []model.Notification
	fromCache     bool
	err           error
}

// taskDetailLoadedMsg carries one automation and its delivery history.
type taskDetailLoadedMsg struct {
	task          *model.Task
	notifications []model.Notification
	err           error
}

// taskMutatedMsg reports the outcome of a create, update, toggle, or delete.
type taskMutatedMsg struct {
	status string
	err    error
}

// analyticsLoadedMsg carries notifications fetched for a reporting window.
type analyticsLoadedMsg struct {
	days          int
	notifications []model.Notification
	err           error
}

// loadCachedTasks shows the last snapshot while the fresh fetch is in flight.
func (m Model) loadCachedTasks() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		tasks, err := cache.GetTasks(context.Background())
		if err != nil {
			return tasksLoadedMsg{fromCache: true, err: err}
		}
		return tasksLoadedMsg{tasks: tasks, fromCache: true}
	}
}

func (m Model) loadCachedNotifications() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		notifications, err := cache.GetNotifications(context.Background())
		if err != nil {
			return notificationsLoadedMsg{fromCache: true, err: err}
		}
		return notificationsLoadedMsg{notifications: notifications, fromCache: true}
	}
}

// fetchTasks pulls the task list from the server and refreshes the cache.
func (m Model) fetchTasks() tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := client.ListTasks(ctx)
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		// Cache write failures do not block the UI.
		_ = cache.ReplaceTasks(ctx, tasks)
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m Model) fetchNotifications() tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		notifications, err := client.ListNotifications(ctx)
		if err != nil {
			return notificationsLoadedMsg{err: err}
		}
		_ = cache.ReplaceNotifications(ctx, notifications)
		return notificationsLoadedMsg{notifications: notifications}
	}
}

// handleTasksLoaded applies a task snapshot. Cache reads never override a
// server response with an error, they only pre-fill the dashboard.
func (m Model) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.fromCache {
			return m, nil
		}
		return m.handleAPIError(msg.err)
	}
	cmd := m.dashboardView.SetTasks(msg.tasks)
	return m, cmd
}

func (m Model) handleNotificationsLoaded(msg notificationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.fromCache {
			return m, nil
		}
		return m.handleAPIError(msg.err)
	}
	m.dashboardView.SetNotifications(msg.notifications)
	cmd := m.logView.SetNotifications(msg.notifications)
	return m, cmd
}

// loadTaskDetail fetches one automation and its deliveries, falling back to
// the cache when the server is unreachable.
func (m Model) loadTaskDetail(taskID int) tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()

		task, err := client.GetTask(ctx, taskID)
		if err != nil {
			task, cacheErr := cache.GetTaskByID(ctx, taskID)
			if cacheErr != nil || task == nil {
				return taskDetailLoadedMsg{err: err}
			}
			notifications, _ := cache.GetTaskNotifications(ctx, taskID)
			return taskDetailLoadedMsg{task: task, notifications: notifications}
		}

		notifications, err := client.ListTaskNotifications(ctx, taskID)
		if err != nil {
			notifications, _ = cache.GetTaskNotifications(ctx, taskID)
		}
		return taskDetailLoadedMsg{task: task, notifications: notifications}
	}
}

func (m Model) createTask(task model.Task) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.CreateTask(context.Background(), task)
		if err != nil {
			return taskMutatedMsg{err: err}
		}
		return taskMutatedMsg{status: "Automation created"}
	}
}

func (m Model) updateTask(task model.Task) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdateTask(context.Background(), task.ID, task)
		if err != nil {
			return taskMutatedMsg{err: err}
		}
		return taskMutatedMsg{status: "Automation updated"}
	}
}

func (m Model) toggleTask(taskID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.ToggleTask(context.Background(), taskID)
		if err != nil {
			return taskMutatedMsg{err: err}
		}
		return taskMutatedMsg{}
	}
}

func (m Model) deleteTask(taskID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteTask(context.Background(), taskID); err != nil {
			return taskMutatedMsg{err: err}
		}
		return taskMutatedMsg{status: "Automation deleted"}
	}
}

// loadAnalytics refetches the delivery log for a reporting window. Responses
// are applied by the analytics view in arrival order.
func (m Model) loadAnalytics(days int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		notifications, err := client.ListNotifications(context.Background())
		if err != nil {
			return analyticsLoadedMsg{days: days, err: err}
		}
		return analyticsLoadedMsg{days: days, notifications: notifications}
	}
}
