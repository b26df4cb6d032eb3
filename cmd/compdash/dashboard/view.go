package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"compdash/cmd/compdash/ui"
	"compdash/internal/explorer"
	"compdash/internal/model"
)

// View renders the whole screen from state alone.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if !m.authed {
		return m.viewLogin()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.overlay {
	case OverlayNotifications:
		b.WriteString(m.viewInbox())
	case OverlayChat:
		b.WriteString(m.viewChat())
	case OverlayFilePicker:
		b.WriteString(m.viewPicker())
	default:
		switch m.tab {
		case TabDashboard:
			b.WriteString(m.viewDashboard())
		case TabAnalytics:
			b.WriteString(m.viewAnalytics())
		case TabExplorer:
			b.WriteString(m.viewExplorer())
		case TabResults:
			b.WriteString(m.viewResults())
		case TabSettings:
			b.WriteString(m.viewSettings())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.viewToasts())
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		style := m.styles.Tab
		if t == m.tab {
			style = m.styles.TabOn
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	badge := m.styles.Success.Render("● Online")
	if !m.connected {
		badge = m.styles.Error.Render("● Backend Offline")
	}
	bell := fmt.Sprintf("🔔 %d", m.unread)
	if m.unread == 0 {
		bell = "🔔"
	}

	left := m.styles.Title.Render("Compliance Intelligence") + "  " + strings.Join(tabs, " ")
	right := badge + "  " + m.styles.Badge.Render(bell) + "  " + m.styles.Muted.Render(m.user.Email)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Render(left+strings.Repeat(" ", gap)+right) + "\n" +
		m.styles.RenderDivider(m.width)
}

func (m Model) viewFooter() string {
	var help string
	switch {
	case m.overlay == OverlayNotifications:
		help = "j/k move · enter mark read · A read all · C clear · esc close"
	case m.overlay == OverlayChat:
		help = "enter send · ↑/↓ scroll · esc close"
	case m.overlay == OverlayFilePicker:
		help = "enter select · esc cancel"
	case m.tab == TabExplorer:
		help = "/ search · s sort · d direction · S status · F framework · R re-query · tab next · q quit"
	default:
		help = "tab next · u upload · 1 quick run · 2 full run · o export · r reset · n inbox · c chat · L logout · q quit"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range m.toasts {
		style := m.styles.Info
		switch t.Level {
		case ToastSuccess:
			style = m.styles.Success
		case ToastError:
			style = m.styles.Error
		}
		b.WriteString(m.styles.Toast.Render(style.Render(t.Text)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Compliance Intelligence"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Sign in to continue"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Prompt.Render("Email    ") + m.emailIn.View() + "\n")
	b.WriteString(m.styles.Prompt.Render("Password ") + m.passwordIn.View() + "\n\n")
	if m.loggingIn {
		b.WriteString(m.spinner.View() + " signing in...\n")
	}
	if m.loginErr != "" {
		b.WriteString(m.styles.Error.Render(m.loginErr) + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("enter submit · tab switch field · ctrl+c quit"))

	card := m.styles.Card.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(m.viewKPIs())
	b.WriteString("\n")
	b.WriteString(m.viewWorkflow())
	b.WriteString("\n")
	b.WriteString(m.viewLogTail())
	return b.String()
}

func (m Model) viewKPIs() string {
	if m.metrics == nil {
		return m.styles.Muted.Render("No metrics yet. Upload a dataset and run an analysis.")
	}
	cells := []model.MetricCell{
		m.metrics.TotalRecords,
		m.metrics.Compliant,
		m.metrics.NonCompliant,
		m.metrics.RequiresAction,
		m.metrics.AvgConfidence,
		m.metrics.HighSeverity,
	}
	var cards []string
	for _, c := range cells {
		value := formatMetric(c)
		body := m.styles.KPI.Render(value) + "\n" + m.styles.Muted.Render(c.Label)
		cards = append(cards, m.styles.Card.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func formatMetric(c model.MetricCell) string {
	if c.Unit == "%" {
		return fmt.Sprintf("%.1f%%", c.Value)
	}
	if c.Unit != "" {
		return fmt.Sprintf("%.2g%s", c.Value, c.Unit)
	}
	if c.Value == float64(int64(c.Value)) {
		return fmt.Sprintf("%d", int64(c.Value))
	}
	return fmt.Sprintf("%.2f", c.Value)
}

func (m Model) viewWorkflow() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Workflow"))
	b.WriteString("\n")

	switch {
	case m.isUploading:
		b.WriteString(m.spinner.View() + " uploading dataset...\n")
	case m.file == nil:
		b.WriteString(m.styles.Muted.Render("No dataset uploaded. Press u to choose a file.") + "\n")
	default:
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			m.styles.Success.Render("✓"),
			m.styles.Bold.Render(m.file.Name),
			m.styles.Muted.Render(fmt.Sprintf("%d rows · %s", m.file.Rows, humanSize(m.file.Size)))))
	}

	for _, st := range m.stages {
		mark := ui.StageMark(st.Status)
		line := fmt.Sprintf("%s %s", mark, st.Name)
		if st.Status == model.StageRunning {
			line += " " + m.spinner.View()
		}
		if st.Status == model.StageCompleted && st.RecordsProcessed > 0 {
			line += m.styles.Muted.Render(
				fmt.Sprintf("  %d records in %.1fs", st.RecordsProcessed, st.ExecutionTime))
		}
		b.WriteString(line + "\n")
	}

	if m.showCompletion {
		b.WriteString(m.styles.Success.Render("Analysis complete: results are ready.") + "\n")
	}
	return m.styles.Card.Render(b.String())
}

func (m Model) viewLogTail() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Execution Log"))
	b.WriteString("\n")
	logs := m.logs
	const tail = 10
	if len(logs) > tail {
		logs = logs[len(logs)-tail:]
	}
	if len(logs) == 0 {
		b.WriteString(m.styles.Muted.Render("No log entries yet."))
	}
	for _, e := range logs {
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			m.styles.Muted.Render(e.DisplayTime()),
			ui.LogTypeMark(e.Type),
			m.styles.Bold.Render("["+e.Stage+"]"),
			e.Message))
	}
	return m.styles.Card.Render(b.String())
}

func (m Model) viewAnalytics() string {
	if m.metrics == nil {
		return m.styles.Muted.Render("No analytics yet. Run an analysis first.")
	}
	var b strings.Builder

	fw := ui.NewSimpleTable("Records by Framework", []string{"Framework", "Records"})
	for _, name := range sortedKeys(m.metrics.ByFramework) {
		fw.AddRow(name, fmt.Sprintf("%d", m.metrics.ByFramework[name]))
	}
	b.WriteString(fw.View(m.styles))
	b.WriteString("\n")

	act := ui.NewSimpleTable("Required Actions", []string{"Action", "Count"})
	for _, name := range sortedKeys(m.metrics.ByAction) {
		act.AddRow(name, fmt.Sprintf("%d", m.metrics.ByAction[name]))
	}
	b.WriteString(act.View(m.styles))
	b.WriteString("\n")

	cat := ui.NewSimpleTable("Category Breakdown", []string{"Category", "Total", "Passed", "Failed"})
	for _, c := range explorer.Categories(m.records) {
		cat.AddRow(c.Category, fmt.Sprintf("%d", c.Total),
			fmt.Sprintf("%d", c.Passed), fmt.Sprintf("%d", c.Failed))
	}
	b.WriteString(cat.View(m.styles))
	return b.String()
}

func (m Model) viewExplorer() string {
	var b strings.Builder
	b.WriteString(m.styles.Prompt.Render("Search ") + m.searchIn.View() + "\n")
	b.WriteString(m.styles.Muted.Render(m.explorerFilterLine()) + "\n\n")

	filtered := m.filteredRecords()
	if len(filtered) == 0 {
		b.WriteString(m.styles.Muted.Render("No obligations match the current filters."))
		return b.String()
	}

	const window = 12
	start := 0
	if m.explorerRow >= window {
		start = m.explorerRow - window + 1
	}
	end := min(start+window, len(filtered))

	for i := start; i < end; i++ {
		r := filtered[i]
		cursor := "  "
		if i == m.explorerRow {
			cursor = m.styles.Bold.Render("> ")
		}
		line := fmt.Sprintf("%s%-10s %-14s %s %s %s",
			cursor, r.Framework, r.ObligationID,
			ui.StatusBadge(r.Status), ui.SeverityBadge(r.Severity),
			ui.ConfidenceBar(r.Confidence, 10))
		if m.requerying[r.ObligationID] {
			line += " " + m.spinner.View() + m.styles.Muted.Render(" re-querying")
		} else if r.NeedsReQuery() {
			line += " " + m.styles.Warning.Render("R re-query")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(m.styles.Muted.Render(
		fmt.Sprintf("\n%d of %d obligations", len(filtered), len(m.records))))

	// Detail pane for the selected row.
	if m.explorerRow < len(filtered) {
		r := filtered[m.explorerRow]
		var d strings.Builder
		d.WriteString(m.styles.Bold.Render(r.ObligationID) + "  " + ui.StatusBadge(r.Status) + "\n")
		d.WriteString(r.Description + "\n")
		if r.Action != "" {
			d.WriteString(m.styles.Subtitle.Render("Action: ") + r.Action + "\n")
		}
		if r.Reason != "" {
			d.WriteString(m.styles.Muted.Render(r.Reason) + "\n")
		}
		b.WriteString("\n" + m.styles.Card.Render(d.String()))
	}
	return b.String()
}

func (m Model) explorerFilterLine() string {
	status := "all"
	if m.query.Status != "" {
		status = string(m.query.Status)
	}
	framework := "all"
	if m.query.Framework != "" {
		framework = m.query.Framework
	}
	dir := "asc"
	if m.query.Descending {
		dir = "desc"
	}
	sortBy := string(m.query.SortBy)
	if sortBy == "" {
		sortBy = "none"
	}
	return fmt.Sprintf("status: %s · framework: %s · sort: %s %s", status, framework, sortBy, dir)
}

func (m Model) viewResults() string {
	if len(m.records) == 0 {
		return m.styles.Muted.Render("No results yet. Upload a dataset and run an analysis.")
	}
	var b strings.Builder

	counts := explorer.StatusCounts(m.records)
	summary := fmt.Sprintf("%s  %s  %s",
		m.styles.Success.Render(fmt.Sprintf("%d compliant", counts[model.StatusCompliant])),
		m.styles.Error.Render(fmt.Sprintf("%d non-compliant", counts[model.StatusNonCompliant])),
		m.styles.Warning.Render(fmt.Sprintf("%d require action", counts[model.StatusRequiresAction])))
	b.WriteString(summary + "\n\n")

	t := ui.NewSimpleTable("Compliance Results",
		[]string{"Framework", "Obligation", "Status", "Severity", "Confidence", "Action"})
	for _, r := range m.records {
		t.AddRow(r.Framework, r.ObligationID, string(r.Status), string(r.Severity),
			fmt.Sprintf("%.0f%%", r.Confidence*100), r.Action)
	}
	b.WriteString(t.View(m.styles))
	b.WriteString("\n" + m.styles.Muted.Render("o export CSV"))
	return b.String()
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Session") + "\n")
	b.WriteString(fmt.Sprintf("  %s <%s> · %s\n", m.user.Name, m.user.Email, m.user.Role))
	b.WriteString("\n" + m.styles.Subtitle.Render("Server") + "\n")
	b.WriteString("  " + m.client.BaseURL() + "\n")
	b.WriteString("\n" + m.styles.Subtitle.Render("Polling") + "\n")
	b.WriteString(fmt.Sprintf("  metrics/logs every %s · notifications every %s\n",
		m.cfg.MetricsInterval(), m.cfg.NotificationsInterval()))
	b.WriteString("\n" + m.styles.Subtitle.Render("Display") + "\n")
	b.WriteString(fmt.Sprintf("  theme %s · results limit %d · logs limit %d\n",
		m.cfg.Display.Theme, m.cfg.Display.ResultsLimit, m.cfg.Display.LogsLimit))
	b.WriteString("\n" + m.styles.Muted.Render("Edit the config file to change these; changes apply live."))
	return m.styles.Card.Render(b.String())
}

func (m Model) viewInbox() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Notifications"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d unread", m.unread)) + "\n\n")

	if m.inboxBusy {
		b.WriteString(m.spinner.View() + " loading...\n")
	} else if len(m.inbox) == 0 {
		b.WriteString(m.styles.Muted.Render("Inbox is empty.") + "\n")
	}
	for i, n := range m.inbox {
		cursor := "  "
		if i == m.inboxRow {
			cursor = m.styles.Bold.Render("> ")
		}
		title := n.Title
		if !n.Read {
			title = m.styles.Bold.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor,
			ui.NotificationMark(n.Severity), title, m.styles.Muted.Render(n.Timestamp)))
		b.WriteString("    " + m.styles.Muted.Render(n.Message) + "\n")
	}
	return m.styles.Card.Render(b.String())
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Compliance Assistant") + "\n\n")
	b.WriteString(m.chatVP.View() + "\n")
	if m.chatWaiting {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render(" thinking...") + "\n")
	}
	b.WriteString(m.styles.Prompt.Render("> ") + m.chatIn.View())
	return m.styles.Card.Render(b.String())
}

// renderTranscript builds the chat viewport content. Bot replies pass
// through glamour so markdown in answers renders nicely; user lines stay
// plain.
func (m Model) renderTranscript() string {
	var b strings.Builder
	for _, msg := range m.messages {
		if msg.Sender == senderUser {
			b.WriteString(m.styles.Bold.Render("You: ") + msg.Text + "\n")
			continue
		}
		text := msg.Text
		if m.renderer != nil {
			if out, err := m.renderer.Render(text); err == nil {
				text = strings.TrimRight(out, "\n")
			}
		}
		b.WriteString(m.styles.Info.Render("Assistant:") + "\n" + text + "\n")
	}
	return b.String()
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Upload Dataset") + "\n")
	b.WriteString(m.styles.Muted.Render("Choose a .csv, .xlsx, .xls or .json file") + "\n\n")
	b.WriteString(m.picker.View())
	return b.String()
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
