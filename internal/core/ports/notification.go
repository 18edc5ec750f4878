package ports

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotifyRequestSubmitted       NotificationType = "request_submitted"
	NotifyRequestAnswered        NotificationType = "request_answered"
	NotifyPasswordResetRequested NotificationType = "password_reset_requested"
)

// Notification is a message about a lifecycle change, addressed to a user.
type Notification struct {
	Type NotificationType
	// Key groups notifications that must be delivered in order (the owner id).
	Key        string
	Recipient  string
	Subject    string
	Body       string
	Data       map[string]string
	OccurredAt time.Time
}

// NotificationQueue accepts notifications for asynchronous delivery.
// Enqueue never blocks; it reports false when the notification was dropped.
type NotificationQueue interface {
	Enqueue(n Notification) bool
}

// Notifier delivers a single notification to an external channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
