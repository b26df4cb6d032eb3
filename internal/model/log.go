package model

import "time"

// LogType classifies a log line for display.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
)

// LogEntry is one line of the backend execution log tail. The authoritative
// list is reloaded wholesale on each poll; locally appended entries only
// bridge the gap until the next reload.
type LogEntry struct {
	Timestamp string  `json:"timestamp"`
	Stage     string  `json:"stage"`
	Message   string  `json:"message"`
	Type      LogType `json:"type"`
	Process   string  `json:"process"`
}

// NewLocalLog builds a client-side entry stamped with the current time, in
// the same HH:MM:SS form the log panel renders server entries with.
func NewLocalLog(stage, message string, typ LogType) LogEntry {
	return LogEntry{
		Timestamp: time.Now().Format("15:04:05"),
		Stage:     stage,
		Message:   message,
		Type:      typ,
		Process:   "System",
	}
}

// DisplayTime collapses the backend's ISO timestamps to HH:MM:SS; entries
// that already carry a bare clock time pass through unchanged.
func (e LogEntry) DisplayTime() string {
	if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		return t.Format("15:04:05")
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", e.Timestamp); err == nil {
		return t.Format("15:04:05")
	}
	return e.Timestamp
}
