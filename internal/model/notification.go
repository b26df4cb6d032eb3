package model

import "strings"

// NotificationSeverity grades a notification for icon and color selection.
type NotificationSeverity string

const (
	NotifCritical NotificationSeverity = "critical"
	NotifHigh     NotificationSeverity = "high"
	NotifMedium   NotificationSeverity = "medium"
	NotifLow      NotificationSeverity = "low"
	NotifInfo     NotificationSeverity = "info"
)

// Notification is one entry of the server-side inbox. Read and clear state
// is server-authoritative: the client issues the mutation then reloads the
// full list, never patching locally.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	Category  string               `json:"category"`
	Timestamp string               `json:"timestamp"`
	Read      bool                 `json:"read"`
}

// ParseNotificationSeverity normalizes the wire value; unknown grades fall
// back to info.
func ParseNotificationSeverity(s string) NotificationSeverity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return NotifCritical
	case "high":
		return NotifHigh
	case "medium":
		return NotifMedium
	case "low":
		return NotifLow
	}
	return NotifInfo
}
