package dashboard

import (
	"compdash/internal/config"
	"compdash/internal/model"
)

// Poll responses carry the sequence number issued when the request was
// fired. Update drops any response whose sequence is no longer current
// for its resource, so a slow in-flight poll can never clobber fresher
// state.

type metricsMsg struct {
	seq     uint64
	metrics *model.DashboardMetrics
	err     error
}

type logsMsg struct {
	seq  uint64
	logs []model.LogEntry
	err  error
}

type resultsMsg struct {
	seq     uint64
	records []model.ComplianceRecord
	err     error
}

type unreadMsg struct {
	seq   uint64
	count int
	err   error
}

type inboxMsg struct {
	seq   uint64
	items []model.Notification
	err   error
}

type healthMsg struct {
	ok bool
}

// loginMsg reports the outcome of a credential submission.
type loginMsg struct {
	token string
	user  model.User
	err   error
}

// uploadMsg reports a dataset upload. meta is populated only from the
// server response, never from local file inspection.
type uploadMsg struct {
	meta model.FileMetadata
	err  error
}

// executeMsg reports the blocking workflow run.
type executeMsg struct {
	stages []model.PipelineStage
	err    error
}

// refreshMsg bundles the post-execution reload of results, metrics and
// logs so all three apply in a single Update step.
type refreshMsg struct {
	records []model.ComplianceRecord
	metrics *model.DashboardMetrics
	logs    []model.LogEntry
	err     error
}

type chatReplyMsg struct {
	reply string
	err   error
}

// reQueryDoneMsg fires after the simulated re-analysis delay.
type reQueryDoneMsg struct {
	obligationID string
}

// inboxActionMsg reports a mark-read, read-all or clear call; Update
// responds by reloading the inbox and unread count.
type inboxActionMsg struct {
	err error
}

type exportMsg struct {
	path string
	err  error
}

type toastExpireMsg struct {
	id string
}

// Timer ticks. Each handler re-arms its own timer, so suspending a
// poll is just a matter of not issuing the fetch.
type metricsTickMsg struct{}
type notifTickMsg struct{}

// configReloadedMsg delivers a config file change picked up by the
// fsnotify watcher.
type configReloadedMsg struct {
	cfg *config.Config
}
