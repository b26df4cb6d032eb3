package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"compdash/internal/api"
	"compdash/internal/config"
	"compdash/internal/logging"
	"compdash/internal/model"
	"compdash/internal/poll"
	"compdash/internal/report"
)

func newID() string { return uuid.NewString() }

// scheduleMetricsTick arms the metrics/logs poll timer. The handler
// re-arms it on every tick regardless of whether a fetch was issued.
func (m Model) scheduleMetricsTick() tea.Cmd {
	return tea.Tick(m.cfg.MetricsInterval(), func(time.Time) tea.Msg {
		return metricsTickMsg{}
	})
}

func (m Model) scheduleNotifTick() tea.Cmd {
	return tea.Tick(m.cfg.NotificationsInterval(), func(time.Time) tea.Msg {
		return notifTickMsg{}
	})
}

func (m *Model) fetchMetrics() tea.Cmd {
	seq := m.seq.Next(poll.ResourceMetrics)
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		metrics, err := client.Metrics(ctx)
		return metricsMsg{seq: seq, metrics: metrics, err: err}
	}
}

func (m *Model) fetchLogs() tea.Cmd {
	seq := m.seq.Next(poll.ResourceLogs)
	client, timeout := m.client, m.cfg.RequestTimeout()
	limit := m.cfg.Display.LogsLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Logs(ctx, limit)
		if err != nil {
			return logsMsg{seq: seq, err: err}
		}
		return logsMsg{seq: seq, logs: resp.Logs}
	}
}

func (m *Model) fetchResults() tea.Cmd {
	seq := m.seq.Next(poll.ResourceResults)
	client, timeout := m.client, m.cfg.RequestTimeout()
	limit := m.cfg.Display.ResultsLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Results(ctx, api.ResultsQuery{Limit: limit})
		if err != nil {
			return resultsMsg{seq: seq, err: err}
		}
		return resultsMsg{seq: seq, records: resp.Results}
	}
}

func (m *Model) fetchUnread() tea.Cmd {
	seq := m.seq.Next(poll.ResourceNotifications)
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		count, err := client.UnreadCount(ctx)
		return unreadMsg{seq: seq, count: count, err: err}
	}
}

func (m *Model) fetchInbox() tea.Cmd {
	seq := m.seq.Next(poll.ResourceInbox)
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Notifications(ctx)
		if err != nil {
			return inboxMsg{seq: seq, err: err}
		}
		return inboxMsg{seq: seq, items: resp.Notifications}
	}
}

func (m *Model) fetchHealth() tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return healthMsg{ok: client.Health(ctx) == nil}
	}
}

func (m *Model) loginCmd(email, password string) tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Login(ctx, email, password)
		if err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{token: resp.Token, user: resp.User}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Upload(ctx, path)
		if err != nil {
			return uploadMsg{err: err}
		}
		return uploadMsg{meta: model.FileMetadata{
			FileID:     resp.FileID,
			Name:       resp.Filename,
			Size:       resp.Size,
			Rows:       resp.Rows,
			UploadedAt: resp.UploadedAt,
			Confirmed:  true,
		}}
	}
}

func (m *Model) executeCmd(fileID string, mode model.RunMode) tea.Cmd {
	client, timeout := m.client, m.cfg.ExecuteTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Execute(ctx, fileID, mode)
		if err != nil {
			return executeMsg{err: err}
		}
		return executeMsg{stages: resp.Stages}
	}
}

// refreshCmd reloads results, metrics and logs after a run completes.
// The three fetches go out concurrently but land as one message, so the
// dashboard never renders a half-refreshed state. Fresh sequence numbers
// invalidate any poll still in flight from before the run.
func (m *Model) refreshCmd() tea.Cmd {
	m.seq.Next(poll.ResourceResults)
	m.seq.Next(poll.ResourceMetrics)
	m.seq.Next(poll.ResourceLogs)
	client, timeout := m.client, m.cfg.RequestTimeout()
	resultsLimit, logsLimit := m.cfg.Display.ResultsLimit, m.cfg.Display.LogsLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var msg refreshMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			resp, err := client.Results(gctx, api.ResultsQuery{Limit: resultsLimit})
			if err != nil {
				return err
			}
			msg.records = resp.Results
			return nil
		})
		g.Go(func() error {
			metrics, err := client.Metrics(gctx)
			if err != nil {
				return err
			}
			msg.metrics = metrics
			return nil
		})
		g.Go(func() error {
			resp, err := client.Logs(gctx, logsLimit)
			if err != nil {
				return err
			}
			msg.logs = resp.Logs
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

// logoutCmd notifies the server, then drops the client token. A failed
// call is logged but never blocks the local logout.
func (m *Model) logoutCmd() tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			logging.L().Warn("server logout failed", zap.Error(err))
		}
		client.SetToken("")
		return nil
	}
}

func (m *Model) chatCmd(message string) tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := client.Chat(ctx, message)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m *Model) markReadCmd(id string) tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return inboxActionMsg{err: client.MarkRead(ctx, id)}
	}
}

func (m *Model) markAllReadCmd() tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return inboxActionMsg{err: client.MarkAllRead(ctx)}
	}
}

func (m *Model) clearAllCmd() tea.Cmd {
	client, timeout := m.client, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return inboxActionMsg{err: client.ClearAll(ctx)}
	}
}

// reQueryCmd simulates the re-analysis round trip for a low-confidence
// record. The backend has no per-record endpoint yet, so this is a
// client-side acknowledgement with a fixed delay.
func reQueryCmd(obligationID string) tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return reQueryDoneMsg{obligationID: obligationID}
	})
}

func exportCmd(records []model.ComplianceRecord) tea.Cmd {
	return func() tea.Msg {
		path, err := report.Export(".", records, time.Now())
		return exportMsg{path: path, err: err}
	}
}

func expireToast(id string) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// waitForConfig blocks on the watcher channel and surfaces the next
// reload. The handler re-issues it after each delivery.
func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		logging.L().Info("configuration reloaded")
		return configReloadedMsg{cfg: cfg}
	}
}
