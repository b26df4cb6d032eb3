package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"compdash/cmd/compdash/ui"
	"compdash/internal/explorer"
	"compdash/internal/logging"
	"compdash/internal/model"
	"compdash/internal/poll"
	"compdash/internal/session"
)

// Update is the single mutation point for application state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.chatVP.Width = min(msg.Width-8, 80)
		m.chatVP.Height = max(msg.Height-12, 6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case metricsTickMsg:
		cmds := []tea.Cmd{m.scheduleMetricsTick()}
		// Polling is suspended while a run is in flight; the post-run
		// refresh supersedes anything a poll would bring back.
		if m.authed && !m.isRunning {
			cmds = append(cmds, m.fetchMetrics(), m.fetchLogs(), m.fetchHealth())
		}
		return m, tea.Batch(cmds...)

	case notifTickMsg:
		cmds := []tea.Cmd{m.scheduleNotifTick()}
		// Unlike metrics/logs, the unread poll keeps running during an
		// execution; only its cheap counter endpoint is hit.
		if m.authed {
			cmds = append(cmds, m.fetchUnread())
		}
		return m, tea.Batch(cmds...)

	case metricsMsg:
		if !m.seq.Current(poll.ResourceMetrics, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logging.L().Warn("metrics poll failed", zap.Error(msg.err))
			return m, nil
		}
		m.metrics = msg.metrics
		return m, nil

	case logsMsg:
		if !m.seq.Current(poll.ResourceLogs, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logging.L().Warn("logs poll failed", zap.Error(msg.err))
			return m, nil
		}
		m.logs = msg.logs
		return m, nil

	case resultsMsg:
		if !m.seq.Current(poll.ResourceResults, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logging.L().Warn("results fetch failed", zap.Error(msg.err))
			return m, nil
		}
		m.records = msg.records
		m.clampExplorerRow()
		return m, nil

	case unreadMsg:
		if !m.seq.Current(poll.ResourceNotifications, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logging.L().Warn("unread poll failed", zap.Error(msg.err))
			return m, nil
		}
		m.unread = msg.count
		return m, nil

	case inboxMsg:
		m.inboxBusy = false
		if !m.seq.Current(poll.ResourceInbox, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			return m.toast(ToastError, "Could not load notifications")
		}
		m.inbox = msg.items
		if m.inboxRow >= len(m.inbox) {
			m.inboxRow = max(len(m.inbox)-1, 0)
		}
		return m, nil

	case healthMsg:
		m.connected = msg.ok
		return m, nil

	case loginMsg:
		return m.handleLogin(msg)

	case uploadMsg:
		return m.handleUpload(msg)

	case executeMsg:
		return m.handleExecute(msg)

	case refreshMsg:
		if msg.err != nil {
			logging.L().Warn("post-run refresh failed", zap.Error(msg.err))
			return m.toast(ToastError, "Refresh after run failed; data may be stale")
		}
		m.records = msg.records
		m.metrics = msg.metrics
		m.logs = msg.logs
		m.clampExplorerRow()
		return m, nil

	case chatReplyMsg:
		m.chatWaiting = false
		reply := msg.reply
		if msg.err != nil {
			logging.L().Warn("chat request failed", zap.Error(msg.err))
			reply = chatFailureReply
		}
		m.messages = append(m.messages, chatMessage{ID: newID(), Sender: senderBot, Text: reply})
		m.syncChatViewport()
		return m, nil

	case reQueryDoneMsg:
		delete(m.requerying, msg.obligationID)
		return m.toast(ToastSuccess, "Re-analysis queued for "+msg.obligationID)

	case inboxActionMsg:
		if msg.err != nil {
			return m.toast(ToastError, "Notification update failed")
		}
		// Full reload keeps the list and badge authoritative.
		return m, tea.Batch(m.fetchInbox(), m.fetchUnread())

	case exportMsg:
		if msg.err != nil {
			return m.toast(ToastError, "Export failed: "+msg.err.Error())
		}
		return m.toast(ToastSuccess, "Report saved to "+msg.path)

	case toastExpireMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.styles = ui.NewStyles(ui.ThemeByName(msg.cfg.Display.Theme))
		cmds := []tea.Cmd{waitForConfig(m.configUpdates)}
		next, cmd := m.toast(ToastInfo, "Configuration reloaded")
		return next, tea.Batch(append(cmds, cmd)...)
	}

	// Messages not handled above may belong to an embedded component.
	if m.overlay == OverlayFilePicker {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if !m.authed {
		return m.handleLoginKey(msg)
	}

	switch m.overlay {
	case OverlayNotifications:
		return m.handleInboxKey(msg)
	case OverlayChat:
		return m.handleChatKey(msg)
	case OverlayFilePicker:
		if msg.String() == "esc" {
			m.overlay = OverlayNone
			return m, nil
		}
		return m.updatePicker(msg)
	}

	if m.tab == TabExplorer && m.searchIn.Focused() {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case "n":
		m.overlay = OverlayNotifications
		m.inboxBusy = true
		return m, m.fetchInbox()
	case "c":
		m.overlay = OverlayChat
		m.chatIn.Focus()
		m.syncChatViewport()
		return m, nil
	case "u":
		if m.isRunning || m.isUploading {
			return m, nil
		}
		m.overlay = OverlayFilePicker
		return m, m.picker.Init()
	case "1":
		return m.startRun(model.ModeQuick)
	case "2":
		return m.startRun(model.ModeFull)
	case "o":
		if len(m.records) == 0 {
			return m.toast(ToastError, "No results to export")
		}
		return m, exportCmd(m.records)
	case "r":
		return m.resetWorkflow()
	case "L":
		return m.logout()
	}

	if m.tab == TabExplorer {
		return m.handleExplorerKey(msg)
	}
	return m, nil
}

// startRun validates preconditions locally; no request is issued until a
// server-confirmed upload exists.
func (m Model) startRun(mode model.RunMode) (tea.Model, tea.Cmd) {
	if m.isRunning {
		return m, nil
	}
	if m.file == nil || !m.file.Confirmed {
		return m.toast(ToastError, "Please upload a dataset first")
	}
	m.isRunning = true
	m.showCompletion = false
	m.records = nil
	m.stages = model.InitialStages()
	if len(m.stages) > 0 {
		m.stages[0].Status = model.StageRunning
	}
	m.logs = append(m.logs, model.NewLocalLog("Workflow",
		fmt.Sprintf("Starting %s analysis run", mode), model.LogInfo))
	logging.L().Info("workflow started",
		zap.String("file_id", m.file.FileID), zap.String("mode", string(mode)))
	next, cmd := m.toast(ToastInfo, "Compliance analysis started")
	return next, tea.Batch(cmd, m.executeCmd(m.file.FileID, mode))
}

func (m Model) handleExecute(msg executeMsg) (tea.Model, tea.Cmd) {
	m.isRunning = false
	if msg.err != nil {
		logging.L().Error("workflow failed", zap.Error(msg.err))
		for i := range m.stages {
			if m.stages[i].Status == model.StageRunning {
				m.stages[i].Status = model.StageError
			}
		}
		m.logs = append(m.logs, model.NewLocalLog("Workflow",
			"Analysis run failed: "+msg.err.Error(), model.LogError))
		return m.toast(ToastError, "Analysis failed")
	}
	m.stages = msg.stages
	m.showCompletion = model.AllCompleted(m.stages)
	m.logs = append(m.logs, model.NewLocalLog("Workflow",
		"Analysis run completed", model.LogSuccess))
	next, cmd := m.toast(ToastSuccess, "Compliance analysis completed")
	return next, tea.Batch(cmd, m.refreshCmd())
}

func (m Model) handleUpload(msg uploadMsg) (tea.Model, tea.Cmd) {
	m.isUploading = false
	if msg.err != nil {
		logging.L().Error("upload failed", zap.Error(msg.err))
		m.logs = append(m.logs, model.NewLocalLog("Upload",
			"Upload failed: "+msg.err.Error(), model.LogError))
		return m.toast(ToastError, "Upload failed: "+msg.err.Error())
	}
	meta := msg.meta
	m.file = &meta
	m.logs = append(m.logs, model.NewLocalLog("Upload",
		fmt.Sprintf("Uploaded %s (%d rows)", meta.Name, meta.Rows), model.LogSuccess))
	return m.toast(ToastSuccess,
		fmt.Sprintf("File uploaded successfully: %s (%d rows)", meta.Name, meta.Rows))
}

func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		m.loginErr = msg.err.Error()
		m.passwordIn.SetValue("")
		return m.toast(ToastError, "Login failed")
	}
	m.authed = true
	m.user = msg.user
	m.loginErr = ""
	if m.sessions != nil {
		if err := m.sessions.Save(&session.Session{Token: msg.token, User: msg.user}); err != nil {
			logging.L().Warn("session save failed", zap.Error(err))
		}
	}
	name := msg.user.Name
	if name == "" {
		name = msg.user.Email
	}
	next, cmd := m.toast(ToastSuccess, "Welcome back, "+name)
	mm := next.(Model)
	cmds := append(mm.initialLoads(), cmd)
	return mm, tea.Batch(cmds...)
}

// logout drops the session both locally and on the server, then returns
// the UI to the login form with all data cleared.
func (m Model) logout() (tea.Model, tea.Cmd) {
	logoutCall := m.logoutCmd()
	if m.sessions != nil {
		if err := m.sessions.Clear(); err != nil {
			logging.L().Warn("session clear failed", zap.Error(err))
		}
	}
	fresh := New(m.cfg, m.client, m.sessions, Options{ConfigUpdates: m.configUpdates})
	fresh.width, fresh.height = m.width, m.height
	next, cmd := fresh.toast(ToastInfo, "Logged out")
	// Init never runs again mid-program and spinner ticks are ID-tagged to
	// the model that started them, so the fresh spinner needs its own tick.
	return next, tea.Batch(cmd, logoutCall, fresh.spinner.Tick)
}

// resetWorkflow clears client-side run state so a new dataset can be
// analyzed. Server-side data is untouched.
func (m Model) resetWorkflow() (tea.Model, tea.Cmd) {
	if m.isRunning {
		return m.toast(ToastError, "Cannot reset while a run is in progress")
	}
	m.file = nil
	m.stages = model.InitialStages()
	m.records = nil
	m.showCompletion = false
	m.explorerRow = 0
	m.logs = append(m.logs, model.NewLocalLog("System",
		"Workflow reset; ready for a new dataset", model.LogInfo))
	return m.toast(ToastInfo, "Workflow reset")
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.emailIn.Focus()
			m.passwordIn.Blur()
		} else {
			m.passwordIn.Focus()
			m.emailIn.Blur()
		}
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailIn.Value())
		password := m.passwordIn.Value()
		if email == "" || password == "" {
			m.loginErr = "email and password are required"
			return m, nil
		}
		if m.loggingIn {
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, m.loginCmd(email, password)
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailIn, cmd = m.emailIn.Update(msg)
	} else {
		m.passwordIn, cmd = m.passwordIn.Update(msg)
	}
	return m, cmd
}

func (m Model) handleInboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.overlay = OverlayNone
		return m, nil
	case "j", "down":
		if m.inboxRow < len(m.inbox)-1 {
			m.inboxRow++
		}
		return m, nil
	case "k", "up":
		if m.inboxRow > 0 {
			m.inboxRow--
		}
		return m, nil
	case "enter":
		if m.inboxRow < len(m.inbox) && !m.inbox[m.inboxRow].Read {
			return m, m.markReadCmd(m.inbox[m.inboxRow].ID)
		}
		return m, nil
	case "A":
		if len(m.inbox) > 0 {
			return m, m.markAllReadCmd()
		}
		return m, nil
	case "C":
		if len(m.inbox) > 0 {
			return m, m.clearAllCmd()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
		m.chatIn.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.chatIn.Value())
		// Single-flight: one outstanding request at a time.
		if text == "" || m.chatWaiting {
			return m, nil
		}
		m.messages = append(m.messages, chatMessage{ID: newID(), Sender: senderUser, Text: text})
		m.chatIn.SetValue("")
		m.chatWaiting = true
		m.syncChatViewport()
		return m, m.chatCmd(text)
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.chatIn, cmd = m.chatIn.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchIn.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchIn, cmd = m.searchIn.Update(msg)
	m.query.Search = m.searchIn.Value()
	m.explorerRow = 0
	return m, cmd
}

func (m Model) handleExplorerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.filteredRecords()
	switch msg.String() {
	case "/":
		m.searchIn.Focus()
		return m, nil
	case "j", "down":
		if m.explorerRow < len(filtered)-1 {
			m.explorerRow++
		}
		return m, nil
	case "k", "up":
		if m.explorerRow > 0 {
			m.explorerRow--
		}
		return m, nil
	case "s":
		m.query.SortBy = nextSortKey(m.query.SortBy)
		return m, nil
	case "d":
		m.query.Descending = !m.query.Descending
		return m, nil
	case "S":
		m.cycleStatusFilter()
		m.explorerRow = 0
		return m, nil
	case "F":
		m.cycleFrameworkFilter()
		m.explorerRow = 0
		return m, nil
	case "R":
		if m.explorerRow >= len(filtered) {
			return m, nil
		}
		rec := filtered[m.explorerRow]
		if !rec.NeedsReQuery() || m.requerying[rec.ObligationID] {
			return m, nil
		}
		m.requerying[rec.ObligationID] = true
		next, cmd := m.toast(ToastInfo, "Re-querying "+rec.ObligationID)
		return next, tea.Batch(cmd, reQueryCmd(rec.ObligationID))
	}
	return m, nil
}

func (m *Model) cycleStatusFilter() {
	cycle := []model.Status{"", model.StatusCompliant, model.StatusNonCompliant, model.StatusRequiresAction}
	m.statusCycle = (m.statusCycle + 1) % len(cycle)
	m.query.Status = cycle[m.statusCycle]
}

func (m *Model) cycleFrameworkFilter() {
	frameworks := explorer.Frameworks(m.records)
	if len(frameworks) == 0 {
		m.query.Framework = ""
		return
	}
	// Index 0 means no filter; 1..n select a framework.
	m.frameworkIdx = (m.frameworkIdx + 1) % (len(frameworks) + 1)
	if m.frameworkIdx == 0 {
		m.query.Framework = ""
	} else {
		m.query.Framework = frameworks[m.frameworkIdx-1]
	}
}

func nextSortKey(k explorer.SortKey) explorer.SortKey {
	switch k {
	case explorer.SortFramework:
		return explorer.SortConfidence
	case explorer.SortConfidence:
		return explorer.SortSeverity
	default:
		return explorer.SortFramework
	}
}

func (m Model) filteredRecords() []model.ComplianceRecord {
	return explorer.Apply(m.records, m.query)
}

func (m *Model) clampExplorerRow() {
	if n := len(m.filteredRecords()); m.explorerRow >= n {
		m.explorerRow = max(n-1, 0)
	}
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.overlay = OverlayNone
		m.isUploading = true
		m.logs = append(m.logs, model.NewLocalLog("Upload",
			"Uploading "+path, model.LogInfo))
		next, toastCmd := m.toast(ToastInfo, "Uploading file...")
		mm := next.(Model)
		return mm, tea.Batch(cmd, toastCmd, mm.uploadCmd(path))
	}
	return m, cmd
}

// toast appends a transient message and arms its expiry timer.
func (m Model) toast(level ToastLevel, text string) (tea.Model, tea.Cmd) {
	t := Toast{ID: newID(), Level: level, Text: text}
	m.toasts = append(m.toasts, t)
	return m, expireToast(t.ID)
}

func (m *Model) syncChatViewport() {
	m.chatVP.SetContent(m.renderTranscript())
	m.chatVP.GotoBottom()
}
