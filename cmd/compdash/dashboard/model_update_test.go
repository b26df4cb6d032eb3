package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"compdash/internal/api"
	"compdash/internal/config"
	"compdash/internal/model"
	"compdash/internal/poll"
)

func newTestModel(baseURL string) Model {
	cfg := config.DefaultConfig()
	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	client := api.New(cfg.Server.BaseURL, time.Second)
	m := New(cfg, client, nil, Options{})
	m.authed = true
	m.user = model.User{Name: "Test User", Email: "test@example.com"}
	m.width, m.height = 120, 40
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func lastToast(t *testing.T, m Model) Toast {
	t.Helper()
	if len(m.toasts) == 0 {
		t.Fatal("expected a toast, got none")
	}
	return m.toasts[len(m.toasts)-1]
}

func TestRunWithoutUploadIsRejectedLocally(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	m := newTestModel(srv.URL + "/api")
	next, _ := m.Update(keyMsg("1"))
	mm := next.(Model)

	if mm.isRunning {
		t.Error("run started without an uploaded dataset")
	}
	toast := lastToast(t, mm)
	if toast.Level != ToastError || !strings.Contains(toast.Text, "upload a dataset") {
		t.Errorf("toast = %+v, want upload-first error", toast)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestRunWithConfirmedUploadStarts(t *testing.T) {
	m := newTestModel("")
	m.file = &model.FileMetadata{FileID: "f-1", Name: "data.csv", Rows: 1000, Confirmed: true}
	m.records = []model.ComplianceRecord{{ID: "1"}}

	next, cmd := m.Update(keyMsg("2"))
	mm := next.(Model)

	if !mm.isRunning {
		t.Fatal("isRunning = false after starting a run")
	}
	if cmd == nil {
		t.Fatal("expected execute command")
	}
	if len(mm.records) != 0 {
		t.Error("previous results not cleared at run start")
	}
	if len(mm.stages) == 0 || mm.stages[0].Status != model.StageRunning {
		t.Error("first stage not marked running")
	}
	if mm.showCompletion {
		t.Error("completion banner shown before the run finished")
	}
}

func TestUploadSuccessToastAndMetadata(t *testing.T) {
	m := newTestModel("")
	m.isUploading = true

	next, _ := m.Update(uploadMsg{meta: model.FileMetadata{
		FileID: "f-9", Name: "data.csv", Rows: 1000, Confirmed: true,
	}})
	mm := next.(Model)

	if mm.isUploading {
		t.Error("isUploading still set after upload finished")
	}
	if mm.file == nil || !mm.file.Confirmed || mm.file.Rows != 1000 {
		t.Fatalf("file = %+v, want confirmed metadata with 1000 rows", mm.file)
	}
	toast := lastToast(t, mm)
	want := "File uploaded successfully: data.csv (1000 rows)"
	if toast.Text != want {
		t.Errorf("toast = %q, want %q", toast.Text, want)
	}
}

func TestUploadFailureLeavesNoMetadata(t *testing.T) {
	m := newTestModel("")
	m.isUploading = true

	next, _ := m.Update(uploadMsg{err: &api.Error{StatusCode: 400, Message: "unsupported file type"}})
	mm := next.(Model)

	if mm.file != nil {
		t.Errorf("file = %+v, want nil after failed upload", mm.file)
	}
	if lastToast(t, mm).Level != ToastError {
		t.Error("expected an error toast")
	}
}

func TestStalePollResponseIsDropped(t *testing.T) {
	m := newTestModel("")

	stale := m.seq.Next(poll.ResourceMetrics)
	fresh := m.seq.Next(poll.ResourceMetrics)

	current := &model.DashboardMetrics{}
	current.TotalRecords.Value = 50
	next, _ := m.Update(metricsMsg{seq: fresh, metrics: current})
	mm := next.(Model)

	old := &model.DashboardMetrics{}
	old.TotalRecords.Value = 10
	next, _ = mm.Update(metricsMsg{seq: stale, metrics: old})
	mm = next.(Model)

	if mm.metrics == nil || mm.metrics.TotalRecords.Value != 50 {
		t.Errorf("metrics overwritten by stale poll: %+v", mm.metrics)
	}
}

func TestExecuteCompletionRefreshes(t *testing.T) {
	m := newTestModel("")
	m.isRunning = true

	stages := model.InitialStages()
	for i := range stages {
		stages[i].Status = model.StageCompleted
	}
	next, cmd := m.Update(executeMsg{stages: stages})
	mm := next.(Model)

	if mm.isRunning {
		t.Error("isRunning still set after completion")
	}
	if !mm.showCompletion {
		t.Error("completion banner not shown when every stage finished")
	}
	if cmd == nil {
		t.Error("expected the post-run refresh command")
	}
}

func TestExecuteFailureMarksRunningStage(t *testing.T) {
	m := newTestModel("")
	m.isRunning = true
	m.stages = model.InitialStages()
	m.stages[1].Status = model.StageRunning

	next, _ := m.Update(executeMsg{err: &api.Error{StatusCode: 500, Message: "boom"}})
	mm := next.(Model)

	if mm.isRunning {
		t.Error("isRunning still set after failure")
	}
	if mm.stages[1].Status != model.StageError {
		t.Errorf("running stage status = %q, want error", mm.stages[1].Status)
	}
	if mm.showCompletion {
		t.Error("completion banner shown after a failed run")
	}
}

func TestTabCycleWraps(t *testing.T) {
	m := newTestModel("")
	for i := 0; i < tabCount; i++ {
		next, _ := m.Update(keyMsg("tab"))
		m = next.(Model)
	}
	if m.tab != TabDashboard {
		t.Errorf("tab = %v after full cycle, want TabDashboard", m.tab)
	}
}

func TestChatIsSingleFlight(t *testing.T) {
	m := newTestModel("")
	m.overlay = OverlayChat
	m.chatWaiting = true
	m.chatIn.SetValue("second question")

	before := len(m.messages)
	next, cmd := m.Update(keyMsg("enter"))
	mm := next.(Model)

	if len(mm.messages) != before {
		t.Error("message appended while a request was outstanding")
	}
	if cmd != nil {
		t.Error("command issued while a request was outstanding")
	}
}

func TestChatFailureAppendsCannedReply(t *testing.T) {
	m := newTestModel("")
	m.chatWaiting = true

	next, _ := m.Update(chatReplyMsg{err: &api.Error{StatusCode: 503, Message: "down"}})
	mm := next.(Model)

	last := mm.messages[len(mm.messages)-1]
	if last.Sender != senderBot || last.Text != chatFailureReply {
		t.Errorf("last message = %+v, want canned failure reply", last)
	}
	if mm.chatWaiting {
		t.Error("chatWaiting still set after reply")
	}
}

func TestToastExpiryRemovesOnlyThatToast(t *testing.T) {
	m := newTestModel("")
	next, _ := m.toast(ToastInfo, "first")
	m = next.(Model)
	next, _ = m.toast(ToastError, "second")
	m = next.(Model)

	next, _ = m.Update(toastExpireMsg{id: m.toasts[0].ID})
	m = next.(Model)

	if len(m.toasts) != 1 || m.toasts[0].Text != "second" {
		t.Errorf("toasts = %+v, want only the second left", m.toasts)
	}
}

func TestLoginSuccessLoadsData(t *testing.T) {
	m := newTestModel("")
	m.authed = false
	m.loggingIn = true

	next, cmd := m.Update(loginMsg{token: "tok", user: model.User{Name: "Jo", Email: "jo@example.com"}})
	mm := next.(Model)

	if !mm.authed {
		t.Fatal("authed = false after successful login")
	}
	if toast := lastToast(t, mm); !strings.Contains(toast.Text, "Welcome back, Jo") {
		t.Errorf("toast = %q, want welcome message", toast.Text)
	}
	if cmd == nil {
		t.Error("expected initial load commands")
	}
}

func TestLoginFailureClearsPassword(t *testing.T) {
	m := newTestModel("")
	m.authed = false
	m.loggingIn = true
	m.passwordIn.SetValue("wrong")

	next, _ := m.Update(loginMsg{err: &api.Error{StatusCode: 401, Message: "Invalid credentials"}})
	mm := next.(Model)

	if mm.authed {
		t.Error("authed = true after failed login")
	}
	if mm.passwordIn.Value() != "" {
		t.Error("password field not cleared after failure")
	}
	if mm.loginErr == "" {
		t.Error("login error not surfaced")
	}
}

func TestResetWhileRunningIsRefused(t *testing.T) {
	m := newTestModel("")
	m.isRunning = true
	m.file = &model.FileMetadata{FileID: "f-1", Confirmed: true}

	next, _ := m.Update(keyMsg("r"))
	mm := next.(Model)

	if mm.file == nil {
		t.Error("reset cleared state during a run")
	}
	if lastToast(t, mm).Level != ToastError {
		t.Error("expected a refusal toast")
	}
}

func TestMetricsTickSuspendedWhileRunning(t *testing.T) {
	m := newTestModel("")
	m.isRunning = true

	before := m.seq.Next(poll.ResourceMetrics)
	next, cmd := m.Update(metricsTickMsg{})
	mm := next.(Model)

	if cmd == nil {
		t.Fatal("tick must always re-arm the timer")
	}
	// No fetch may have been issued, so the sequence is untouched.
	if got := mm.seq.Next(poll.ResourceMetrics); got != before+1 {
		t.Errorf("sequence advanced to %d during a run, want %d", got, before+1)
	}
}

func TestInboxLoadSurvivesUnreadPoll(t *testing.T) {
	m := newTestModel("")

	// An unread-count poll firing after the inbox fetch must not
	// invalidate it; the two run on separate sequence resources.
	inboxSeq := m.seq.Next(poll.ResourceInbox)
	m.seq.Next(poll.ResourceNotifications)

	next, _ := m.Update(inboxMsg{seq: inboxSeq, items: []model.Notification{
		{ID: "n1", Title: "Rule update"},
	}})
	mm := next.(Model)

	if len(mm.inbox) != 1 {
		t.Fatalf("inbox = %d items, want 1; load dropped by unread poll", len(mm.inbox))
	}
}

func TestMarkReadTriggersFullReload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"notifications":[{"id":"n1","title":"Rule update","read":true}],"unread_count":0}`))
	})
	mux.HandleFunc("/api/notifications/unread", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := newTestModel(srv.URL + "/api")
	m.unread = 1

	next, cmd := m.Update(inboxActionMsg{})
	mm := next.(Model)
	if cmd == nil {
		t.Fatal("expected reload commands after a notification action")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch of reload commands, got %T", cmd())
	}

	// Apply the responses in the worst-case order: unread count first,
	// then the inbox list. The list must still land.
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, c())
	}
	for _, msg := range msgs {
		if u, ok := msg.(unreadMsg); ok {
			next, _ = mm.Update(u)
			mm = next.(Model)
		}
	}
	for _, msg := range msgs {
		if in, ok := msg.(inboxMsg); ok {
			next, _ = mm.Update(in)
			mm = next.(Model)
		}
	}

	if len(mm.inbox) != 1 || !mm.inbox[0].Read {
		t.Fatalf("inbox = %+v, want the reloaded read notification", mm.inbox)
	}
	if mm.unread != 0 {
		t.Errorf("unread = %d, want 0 after reload", mm.unread)
	}
}

func TestUnreadPollContinuesDuringRun(t *testing.T) {
	m := newTestModel("")
	m.isRunning = true

	before := m.seq.Next(poll.ResourceNotifications)
	next, cmd := m.Update(notifTickMsg{})
	mm := next.(Model)

	if cmd == nil {
		t.Fatal("tick must always re-arm the timer")
	}
	// The unread poll runs even while an execution is in flight, so the
	// tick must have issued a fetch (one sequence consumed).
	if got := mm.seq.Next(poll.ResourceNotifications); got != before+2 {
		t.Errorf("sequence advanced to %d, want %d: no unread fetch during run", got, before+2)
	}
}

func TestLogoutKeepsSpinnerTicking(t *testing.T) {
	m := newTestModel("")

	next, cmd := m.Update(keyMsg("L"))
	mm := next.(Model)

	if mm.authed {
		t.Fatal("authed = true after logout")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a command batch, got %T", cmd())
	}
	// Toast expiry, server logout, and the fresh model's spinner tick:
	// without the last one every spinner freezes after a logout.
	if len(batch) != 3 {
		t.Errorf("batch = %d commands, want 3 including the spinner tick", len(batch))
	}
}

func TestExportWithNoResults(t *testing.T) {
	m := newTestModel("")
	next, _ := m.Update(keyMsg("o"))
	mm := next.(Model)

	toast := lastToast(t, mm)
	if toast.Level != ToastError || !strings.Contains(toast.Text, "No results") {
		t.Errorf("toast = %+v, want no-results error", toast)
	}
}
