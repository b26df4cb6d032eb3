// Package dashboard is the interactive terminal UI for the compliance
// intelligence platform. It follows the Elm architecture: all application
// state lives in one Model and every mutation arrives as a typed tea.Msg,
// which keeps the interactions of the independent polling timers auditable.
// The package is split across files for maintainability:
//   - model_types.go: types, tabs, overlays, toasts (this file)
//   - model.go: Model struct, construction, Init
//   - model_update.go: Update loop and key handling
//   - commands.go: tea.Cmd constructors (fetches, ticks)
//   - messages.go: tea.Msg definitions
//   - view.go: rendering
package dashboard

import "time"

// Tab selects the main content area, mirroring the product's sidebar.
type Tab int

const (
	TabDashboard Tab = iota
	TabAnalytics
	TabExplorer
	TabResults
	TabSettings
)

// String returns the display name for the tab bar.
func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabAnalytics:
		return "Analytics"
	case TabExplorer:
		return "Explorer"
	case TabResults:
		return "Results"
	case TabSettings:
		return "Settings"
	}
	return "Unknown"
}

const tabCount = 5

// Overlay is a panel drawn over the active tab. At most one is open.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayNotifications
	OverlayChat
	OverlayFilePicker
)

// ToastLevel grades a transient status message.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// toastTTL is how long a toast stays on screen.
const toastTTL = 4 * time.Second

// Toast is a transient user-facing message. Toasts are the only channel
// for surfacing failures; state is otherwise left in its last-known-good
// form.
type Toast struct {
	ID    string
	Level ToastLevel
	Text  string
}

// chatSender distinguishes transcript entries.
type chatSender int

const (
	senderUser chatSender = iota
	senderBot
)

// chatMessage is one entry of the strictly append-only chat transcript.
type chatMessage struct {
	ID     string
	Sender chatSender
	Text   string
	Time   time.Time
}

// chatGreeting opens every transcript.
const chatGreeting = "Hello! I'm your compliance assistant. How can I help you today?"

// chatFailureReply is appended when a send fails; the transcript never
// loses the user's message.
const chatFailureReply = "Sorry, I encountered an error. Please try again or check if the backend is running."
