package dashboard

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"compdash/cmd/compdash/ui"
	"compdash/internal/api"
	"compdash/internal/config"
	"compdash/internal/explorer"
	"compdash/internal/model"
	"compdash/internal/poll"
	"compdash/internal/session"
)

// Model holds the entire application state. It is mutated only inside
// Update; commands and the view never write to it.
type Model struct {
	cfg      *config.Config
	client   *api.Client
	sessions *session.Store
	seq      *poll.Sequencer
	styles   ui.Styles

	// configUpdates streams reloaded configs from the fsnotify watcher.
	// Nil when watching is disabled.
	configUpdates <-chan *config.Config

	width  int
	height int

	// Authentication.
	authed     bool
	user       model.User
	emailIn    textinput.Model
	passwordIn textinput.Model
	loginFocus int
	loggingIn  bool
	loginErr   string

	// Navigation.
	tab     Tab
	overlay Overlay

	// Workflow.
	file           *model.FileMetadata
	stages         []model.PipelineStage
	isUploading    bool
	isRunning      bool
	showCompletion bool
	picker         filepicker.Model

	// Data.
	records   []model.ComplianceRecord
	metrics   *model.DashboardMetrics
	logs      []model.LogEntry
	connected bool

	// Explorer.
	searchIn     textinput.Model
	query        explorer.Query
	explorerRow  int
	requerying   map[string]bool
	statusCycle  int
	frameworkIdx int

	// Notifications.
	unread    int
	inbox     []model.Notification
	inboxRow  int
	inboxBusy bool

	// Chat.
	chatIn      textinput.Model
	chatVP      viewport.Model
	messages    []chatMessage
	chatWaiting bool
	renderer    *glamour.TermRenderer

	toasts  []Toast
	spinner spinner.Model
}

// Options configures New beyond the required collaborators.
type Options struct {
	// Session restores a previously saved login, if valid.
	Session *session.Session
	// ConfigUpdates, when non-nil, delivers live config reloads.
	ConfigUpdates <-chan *config.Config
}

// New builds the initial model. The client is used as-is; callers set
// the base URL and timeout from config before handing it over.
func New(cfg *config.Config, client *api.Client, sessions *session.Store, opts Options) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Display.Theme))

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	search := textinput.New()
	search.Placeholder = "search obligations"
	search.CharLimit = 120

	chat := textinput.New()
	chat.Placeholder = "ask about your compliance posture"
	chat.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	picker := filepicker.New()
	picker.AllowedTypes = []string{".csv", ".xlsx", ".xls", ".json"}
	picker.ShowHidden = false

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil
	}

	m := Model{
		cfg:           cfg,
		client:        client,
		sessions:      sessions,
		seq:           poll.NewSequencer(),
		styles:        styles,
		configUpdates: opts.ConfigUpdates,
		emailIn:       email,
		passwordIn:    password,
		searchIn:      search,
		chatIn:        chat,
		chatVP:        viewport.New(72, 14),
		spinner:       sp,
		picker:        picker,
		renderer:      renderer,
		stages:        model.InitialStages(),
		requerying:    map[string]bool{},
		messages: []chatMessage{
			{ID: newID(), Sender: senderBot, Text: chatGreeting},
		},
	}

	if s := opts.Session; s != nil && s.Valid() {
		m.authed = true
		m.user = s.User
		client.SetToken(s.Token)
	}
	return m
}

// Init starts the spinner, the poll timers and, when a session was
// restored, the initial data loads.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.scheduleMetricsTick(),
		m.scheduleNotifTick(),
	}
	if m.configUpdates != nil {
		cmds = append(cmds, waitForConfig(m.configUpdates))
	}
	if m.authed {
		cmds = append(cmds, m.initialLoads()...)
	}
	return tea.Batch(cmds...)
}

// initialLoads fetches everything the dashboard shows, stamped with
// fresh sequence numbers.
func (m *Model) initialLoads() []tea.Cmd {
	return []tea.Cmd{
		m.fetchHealth(),
		m.fetchMetrics(),
		m.fetchLogs(),
		m.fetchResults(),
		m.fetchUnread(),
	}
}
