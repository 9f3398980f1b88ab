package model

import "time"

// Delivery status values for a notification.
const (
	StatusPending = "pending"
	StatusQueued  = "queued"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// SMS provider identifiers.
const (
	ProviderAfricasTalking = "africastalking"
	ProviderTwilio         = "twilio"
	ProviderGSMModem       = "gsm_modem"
)

// Notification is a single SMS send attempt and its outcome. Notifications
// are created and mutated only by the server; the client reads and
// aggregates them.
type Notification struct {
	// ID is the server-assigned identifier.
	ID int `json:"id"`

	// TaskID links the notification to the automation that produced it.
	TaskID int `json:"task_id"`

	// Recipient is the phone number the SMS was addressed to.
	Recipient string `json:"recipient"`

	// Message is the rendered SMS body.
	Message string `json:"message"`

	// Provider identifies the SMS gateway used for delivery.
	Provider string `json:"provider"`

	// Status is the delivery state (use Status* constants).
	Status string `json:"status"`

	// ErrorMessage holds the provider error for failed deliveries.
	ErrorMessage string `json:"error_message,omitempty"`

	// RetryCount is how many delivery attempts the server has made.
	RetryCount int `json:"retry_count"`

	CreatedAt   time.Time  `json:"created_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
