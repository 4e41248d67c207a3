package model

import "time"

// NotificationKind controls how a notification is styled.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
)

// Notification is a transient message surfaced to the user. It expires on
// its own shortly after being pushed.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Kind selects the toast style.
	Kind NotificationKind `json:"kind"`

	// Timestamp is when this notification was pushed.
	Timestamp time.Time `json:"timestamp"`
}
