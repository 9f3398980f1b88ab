package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/task2sms/tui/internal/condition"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/tests/testutil"
)

func TestTaskCacheRoundTrip(t *testing.T) {
	cache := testutil.NewTestCache(t)
	ctx := context.Background()

	updated := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:              1,
			Name:            "Lakers vs Bulls",
			Recipients:      []string{"+254712345678", "+254712345678", "+15550001111"},
			ConditionRules:  condition.Build(condition.TypeTotalOver, "", "150"),
			MessageTemplate: "{home_team} {home_score} - {away_team} {away_score}",
			IsActive:        true,
			UpdatedAt:       &updated,
		},
		{
			ID:             2,
			Name:           "Price watch",
			ConditionRules: condition.Build(condition.TypeFieldLessThan, "price", "99.9"),
			WebScrapingMode: model.ScrapingModeCSSSelector,
		},
	}

	if err := cache.ReplaceTasks(ctx, tasks); err != nil {
		t.Fatal(err)
	}

	got, err := cache.GetTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("cached %d tasks, want 2", len(got))
	}

	first, err := cache.GetTaskByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("task 1 missing from cache")
	}
	// Recipient order and duplicates survive the round trip.
	if len(first.Recipients) != 3 || first.Recipients[0] != first.Recipients[1] {
		t.Errorf("recipients = %v", first.Recipients)
	}
	if first.ConditionRules != condition.Build(condition.TypeTotalOver, "", "150") {
		t.Errorf("condition rules = %+v", first.ConditionRules)
	}

	second, err := cache.GetTaskByID(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if second.WebScrapingMode != model.ScrapingModeCSSSelector {
		t.Errorf("scraping mode = %q", second.WebScrapingMode)
	}
	if second.ConditionRules.Field != "price" {
		t.Errorf("condition field = %q", second.ConditionRules.Field)
	}
}

func TestReplaceTasksDropsStaleEntries(t *testing.T) {
	cache := testutil.NewTestCache(t)
	ctx := context.Background()

	if err := cache.ReplaceTasks(ctx, []model.Task{{ID: 1, Name: "old"}}); err != nil {
		t.Fatal(err)
	}
	if err := cache.ReplaceTasks(ctx, []model.Task{{ID: 2, Name: "new"}}); err != nil {
		t.Fatal(err)
	}

	stale, err := cache.GetTaskByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stale != nil {
		t.Errorf("deleted task still cached: %+v", stale)
	}
}

func TestNotificationCache(t *testing.T) {
	cache := testutil.NewTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	notifications := []model.Notification{
		{ID: 1, TaskID: 1, Status: model.StatusSent, Provider: model.ProviderTwilio, CreatedAt: base},
		{ID: 2, TaskID: 2, Status: model.StatusFailed, Provider: model.ProviderGSMModem,
			ErrorMessage: "modem timeout", RetryCount: 2, CreatedAt: base.Add(time.Hour)},
		{ID: 3, TaskID: 1, Status: model.StatusQueued, Provider: model.ProviderTwilio,
			CreatedAt: base.Add(2 * time.Hour)},
	}

	if err := cache.ReplaceNotifications(ctx, notifications); err != nil {
		t.Fatal(err)
	}

	all, err := cache.GetNotifications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("cached %d notifications, want 3", len(all))
	}
	if all[0].ID != 3 {
		t.Errorf("newest first: got ID %d", all[0].ID)
	}

	forTask, err := cache.GetTaskNotifications(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(forTask) != 2 || forTask[0].ID != 3 || forTask[1].ID != 1 {
		t.Errorf("task 1 notifications = %+v", forTask)
	}

	failed := all[1]
	if failed.ErrorMessage != "modem timeout" || failed.RetryCount != 2 {
		t.Errorf("failed notification fields lost: %+v", failed)
	}
}
