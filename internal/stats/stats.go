// Package stats computes the read-only aggregates shown on the dashboard
// and analytics views. Everything operates on collections already fetched
// in full; the server does no filtering, so these functions must stay
// correct for whatever result-set size it returns.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/task2sms/tui/internal/model"
)

// TaskSummary is the dashboard's headline figures.
type TaskSummary struct {
	Total      int
	Active     int
	Inactive   int
	Recipients int
}

// SummarizeTasks counts tasks by active state and totals their recipient
// lists (duplicates included, matching the raw lists).
func SummarizeTasks(tasks []model.Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
		s.Recipients += len(t.Recipients)
	}
	return s
}

// ByProvider groups notifications by SMS provider.
func ByProvider(notifications []model.Notification) map[string]int {
	counts := make(map[string]int)
	for _, n := range notifications {
		counts[n.Provider]++
	}
	return counts
}

// ByStatus groups notifications by delivery status.
func ByStatus(notifications []model.Notification) map[string]int {
	counts := make(map[string]int)
	for _, n := range notifications {
		counts[n.Status]++
	}
	return counts
}

// SuccessRate returns the sent percentage formatted with one decimal place
// ("70.0"), or "0" when there are no notifications at all.
func SuccessRate(notifications []model.Notification) string {
	total := len(notifications)
	if total == 0 {
		return "0"
	}
	sent := 0
	for _, n := range notifications {
		if n.Status == model.StatusSent {
			sent++
		}
	}
	return fmt.Sprintf("%.1f", float64(sent)/float64(total)*100)
}

// DayStat is one bucket of the trailing daily series.
type DayStat struct {
	// Date is the bucket day as YYYY-MM-DD.
	Date string

	// Label is the short display form, e.g. "Aug 30".
	Label string

	Total      int
	Successful int
	Failed     int
}

// Daily buckets notifications into the trailing days-day window ending at
// now, oldest bucket first. Membership is decided by date-string prefix
// match against created_at, so a notification counts toward the calendar
// day it was created on.
func Daily(notifications []model.Notification, days int, now time.Time) []DayStat {
	stats := make([]DayStat, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		prefix := day.Format("2006-01-02")

		stat := DayStat{
			Date:  prefix,
			Label: day.Format("Jan 2"),
		}
		for _, n := range notifications {
			if n.CreatedAt.Format("2006-01-02") != prefix {
				continue
			}
			stat.Total++
			switch n.Status {
			case model.StatusSent:
				stat.Successful++
			case model.StatusFailed:
				stat.Failed++
			}
		}
		stats = append(stats, stat)
	}

	return stats
}

// RecentActivity returns the newest n notifications by creation time.
// The input slice is left untouched.
func RecentActivity(notifications []model.Notification, n int) []model.Notification {
	recent := make([]model.Notification, len(notifications))
	copy(recent, notifications)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}
