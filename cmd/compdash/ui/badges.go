package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"compdash/internal/model"
)

// StatusBadge renders a compliance status with its semantic color.
func StatusBadge(s model.Status) string {
	style := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#ffffff"))
	switch s {
	case model.StatusCompliant:
		style = style.Background(Success)
	case model.StatusNonCompliant:
		style = style.Background(Destructive)
	case model.StatusRequiresAction:
		style = style.Background(Warning)
	default:
		style = style.Background(DarkMuted)
	}
	return style.Render(string(s))
}

// SeverityBadge renders a severity grade with its semantic color.
func SeverityBadge(s model.Severity) string {
	style := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#ffffff"))
	switch s {
	case model.SeverityCritical:
		style = style.Background(Destructive).Bold(true)
	case model.SeverityHigh:
		style = style.Background(Orange)
	case model.SeverityMedium:
		style = style.Background(Warning)
	case model.SeverityLow:
		style = style.Background(Info)
	default:
		style = style.Background(DarkMuted)
	}
	return style.Render(string(s))
}

// LogTypeMark returns the colored marker for a log line.
func LogTypeMark(t model.LogType) string {
	switch t {
	case model.LogSuccess:
		return lipgloss.NewStyle().Foreground(Success).Render("✓")
	case model.LogWarning:
		return lipgloss.NewStyle().Foreground(Warning).Render("!")
	case model.LogError:
		return lipgloss.NewStyle().Foreground(Destructive).Render("✗")
	default:
		return lipgloss.NewStyle().Foreground(Info).Render("·")
	}
}

// StageMark returns the marker for a pipeline stage status.
func StageMark(s model.StageStatus) string {
	switch s {
	case model.StageCompleted:
		return lipgloss.NewStyle().Foreground(Success).Render("●")
	case model.StageRunning:
		return lipgloss.NewStyle().Foreground(Info).Render("◐")
	case model.StageError:
		return lipgloss.NewStyle().Foreground(Destructive).Render("✗")
	default:
		return lipgloss.NewStyle().Foreground(DarkMuted).Render("○")
	}
}

// NotificationMark returns the severity marker for an inbox entry.
func NotificationMark(s model.NotificationSeverity) string {
	switch s {
	case model.NotifCritical:
		return lipgloss.NewStyle().Foreground(Destructive).Bold(true).Render("▲")
	case model.NotifHigh:
		return lipgloss.NewStyle().Foreground(Orange).Render("▲")
	case model.NotifMedium:
		return lipgloss.NewStyle().Foreground(Warning).Render("■")
	case model.NotifLow:
		return lipgloss.NewStyle().Foreground(Teal).Render("■")
	default:
		return lipgloss.NewStyle().Foreground(Info).Render("ℹ")
	}
}

// ConfidenceBar renders a fixed-width bar plus percentage for a 0-1 score.
func ConfidenceBar(confidence float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(confidence*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	color := Success
	if confidence < model.ReQueryThreshold {
		color = Warning
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(DarkBorder).Render(strings.Repeat("░", width-filled))
	pct := lipgloss.NewStyle().Foreground(DarkMuted).Render(fmt.Sprintf("%3.0f%%", confidence*100))
	return bar + " " + pct
}
