package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
)

func TestReportIncludesRecentActivityNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	notifications := []model.Notification{
		{ID: 1, Recipient: "+254700000001", Status: model.StatusSent, Provider: model.ProviderTwilio, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: 2, Recipient: "+254700000002", Status: model.StatusFailed, Provider: model.ProviderAfricasTalking, CreatedAt: base.Add(-1 * time.Hour)},
		{ID: 3, Recipient: "+254700000003", Status: model.StatusSent, Provider: model.ProviderGSMModem, CreatedAt: base},
	}

	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetNotifications(7, notifications)

	report := m.renderContent()

	if !strings.Contains(report, "Recent Activity") {
		t.Fatalf("report is missing the Recent Activity section:\n%s", report)
	}

	newest := strings.Index(report, "+254700000003")
	oldest := strings.Index(report, "+254700000001")
	if newest == -1 || oldest == -1 {
		t.Fatalf("recent deliveries not rendered:\n%s", report)
	}
	if newest > oldest {
		t.Errorf("recent activity is not newest-first: newest at %d, oldest at %d", newest, oldest)
	}
}

func TestReportRecentActivityEmpty(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetNotifications(7, nil)

	if !strings.Contains(m.renderContent(), "no recent activity") {
		t.Error("empty delivery log should render the no-activity placeholder")
	}
}
