package model

import (
	"time"

	"github.com/task2sms/tui/internal/condition"
)

// Web scraping extraction modes.
const (
	ScrapingModeSimpleText  = "simple_text"
	ScrapingModeCSSSelector = "css_selector"
	ScrapingModeXPath       = "xpath"
)

// Web scraping check frequencies.
const (
	FrequencyEvery5Minutes  = "every_5_minutes"
	FrequencyEvery15Minutes = "every_15_minutes"
	FrequencyEvery30Minutes = "every_30_minutes"
	FrequencyHourly         = "hourly"
	FrequencyEvery6Hours    = "every_6_hours"
	FrequencyDaily          = "daily"
)

// Web scraping threshold comparisons, applied when number extraction is on.
const (
	ThresholdLessThan    = "less_than"
	ThresholdGreaterThan = "greater_than"
	ThresholdEquals      = "equals"
	ThresholdChanges     = "changes"
)

// Task is a user-defined SMS automation: a data source to poll, a schedule,
// a trigger condition, and a recipient list. The server owns the record;
// this client mirrors it and submits create/update payloads.
type Task struct {
	// ID is the server-assigned identifier.
	ID int `json:"id,omitempty"`

	// Name is the human-readable automation name.
	Name string `json:"name"`

	// Description is free-form text about what this automation watches.
	Description string `json:"description"`

	// SourceLink is the URL of the API or page polled by the server.
	SourceLink string `json:"source_link"`

	// ScheduleCron is the cron expression driving the server-side scheduler.
	ScheduleCron string `json:"schedule_cron"`

	// ScheduleHuman is the human-readable form of the schedule.
	ScheduleHuman string `json:"schedule_human"`

	// Recipients is the ordered list of phone numbers to notify. Order is
	// display-only; duplicates are permitted and passed through raw.
	Recipients []string `json:"recipients"`

	// ConditionRules decides whether a fetched sample triggers an SMS.
	ConditionRules condition.Rule `json:"condition_rules"`

	// MessageTemplate is the SMS body with {field} placeholders filled
	// from the fetched data by the server.
	MessageTemplate string `json:"message_template"`

	// IsActive controls whether the server schedules this task.
	IsActive bool `json:"is_active"`

	// LastRun and NextRun are set by the server-side scheduler.
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Web scraping variant. Only meaningful when the source is a monitored
	// page rather than a JSON API.
	WebScrapingKeyword        string  `json:"web_scraping_keyword,omitempty"`
	WebScrapingFrequency      string  `json:"web_scraping_frequency,omitempty"`
	WebScrapingMode           string  `json:"web_scraping_mode,omitempty"`
	WebScrapingSelector       string  `json:"web_scraping_selector,omitempty"`
	WebScrapingXPath          string  `json:"web_scraping_xpath,omitempty"`
	WebScrapingExtractNumbers bool    `json:"web_scraping_extract_numbers,omitempty"`
	WebScrapingThresholdType  string  `json:"web_scraping_threshold_type,omitempty"`
	WebScrapingThresholdValue float64 `json:"web_scraping_threshold_value,omitempty"`
}
