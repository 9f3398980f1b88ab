package stats

import (
	"testing"
	"time"

	"github.com/task2sms/tui/internal/model"
)

func notif(status string, createdAt time.Time) model.Notification {
	return model.Notification{Status: status, Provider: model.ProviderTwilio, CreatedAt: createdAt}
}

func TestSummarizeTasks(t *testing.T) {
	tasks := []model.Task{
		{IsActive: true, Recipients: []string{"+1", "+2", "+1"}},
		{IsActive: false, Recipients: []string{"+3"}},
		{IsActive: true},
	}

	s := SummarizeTasks(tasks)
	if s.Total != 3 || s.Active != 2 || s.Inactive != 1 {
		t.Errorf("summary = %+v", s)
	}
	// Duplicate recipients count; the list is raw.
	if s.Recipients != 4 {
		t.Errorf("recipients = %d, want 4", s.Recipients)
	}
}

func TestSuccessRateSevenOfTen(t *testing.T) {
	now := time.Now()
	var ns []model.Notification
	for i := 0; i < 7; i++ {
		ns = append(ns, notif(model.StatusSent, now))
	}
	for i := 0; i < 2; i++ {
		ns = append(ns, notif(model.StatusFailed, now))
	}
	ns = append(ns, notif(model.StatusQueued, now))

	if got := SuccessRate(ns); got != "70.0" {
		t.Errorf("SuccessRate = %q, want 70.0", got)
	}
}

func TestSuccessRateEmptyIsZeroNotNaN(t *testing.T) {
	if got := SuccessRate(nil); got != "0" {
		t.Errorf("SuccessRate(nil) = %q, want 0", got)
	}
}

func TestSuccessRateRounding(t *testing.T) {
	now := time.Now()
	ns := []model.Notification{
		notif(model.StatusSent, now),
		notif(model.StatusFailed, now),
		notif(model.StatusFailed, now),
	}
	if got := SuccessRate(ns); got != "33.3" {
		t.Errorf("SuccessRate = %q, want 33.3", got)
	}
}

func TestGrouping(t *testing.T) {
	now := time.Now()
	ns := []model.Notification{
		{Provider: model.ProviderTwilio, Status: model.StatusSent, CreatedAt: now},
		{Provider: model.ProviderTwilio, Status: model.StatusFailed, CreatedAt: now},
		{Provider: model.ProviderAfricasTalking, Status: model.StatusSent, CreatedAt: now},
	}

	byProvider := ByProvider(ns)
	if byProvider[model.ProviderTwilio] != 2 || byProvider[model.ProviderAfricasTalking] != 1 {
		t.Errorf("ByProvider = %v", byProvider)
	}

	byStatus := ByStatus(ns)
	if byStatus[model.StatusSent] != 2 || byStatus[model.StatusFailed] != 1 {
		t.Errorf("ByStatus = %v", byStatus)
	}
}

func TestDailyBuckets(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	ns := []model.Notification{
		notif(model.StatusSent, now.Add(-2*time.Hour)),            // today
		notif(model.StatusFailed, now.AddDate(0, 0, -1)),          // yesterday
		notif(model.StatusQueued, now.AddDate(0, 0, -1)),          // yesterday
		notif(model.StatusSent, now.AddDate(0, 0, -7)),            // outside 7d window
	}

	stats := Daily(ns, 7, now)
	if len(stats) != 7 {
		t.Fatalf("len = %d, want 7", len(stats))
	}

	today := stats[6]
	if today.Date != "2026-08-30" || today.Label != "Aug 30" {
		t.Errorf("today bucket = %+v", today)
	}
	if today.Total != 1 || today.Successful != 1 || today.Failed != 0 {
		t.Errorf("today counts = %+v", today)
	}

	yesterday := stats[5]
	if yesterday.Total != 2 || yesterday.Successful != 0 || yesterday.Failed != 1 {
		t.Errorf("yesterday counts = %+v", yesterday)
	}

	oldest := stats[0]
	if oldest.Date != "2026-08-24" || oldest.Total != 0 {
		t.Errorf("oldest bucket = %+v; the -7d notification must fall outside", oldest)
	}
}

func TestDailySingleDayWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	ns := []model.Notification{
		notif(model.StatusSent, now),
		notif(model.StatusSent, now.AddDate(0, 0, -1)),
	}

	stats := Daily(ns, 1, now)
	if len(stats) != 1 || stats[0].Total != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	var ns []model.Notification
	for i := 0; i < 15; i++ {
		n := notif(model.StatusSent, base.Add(time.Duration(i)*time.Minute))
		n.ID = i
		ns = append(ns, n)
	}

	recent := RecentActivity(ns, 10)
	if len(recent) != 10 {
		t.Fatalf("len = %d, want 10", len(recent))
	}
	if recent[0].ID != 14 || recent[9].ID != 5 {
		t.Errorf("got IDs %d..%d, want newest first 14..5", recent[0].ID, recent[9].ID)
	}
	// Input order preserved.
	if ns[0].ID != 0 {
		t.Error("input slice was reordered")
	}
}
