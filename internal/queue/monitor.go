package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"

	"dgqueue/internal/gateway"
	"dgqueue/internal/models"
)

// Monitor polls submitted Downloads until every one reaches a terminal
// status. One poll per still-active handle per pass; terminal statuses are
// absorbing, so a finished Download is never polled again.
type Monitor struct {
	client     gateway.Client
	interval   time.Duration
	classifier *models.StatusClassifier
	out        io.Writer
}

func NewMonitor(client gateway.Client, interval time.Duration, classifier *models.StatusClassifier, out io.Writer) *Monitor {
	return &Monitor{
		client:     client,
		interval:   interval,
		classifier: classifier,
		out:        out,
	}
}

// Run blocks until all handles are terminal or ctx is cancelled. The first
// pass starts immediately; later passes wait the configured interval, with
// the wait interruptible by ctx. Handles are updated in place as statuses
// change, and every transition is reported.
//
// A poll that fails with a transport error is retried on the next pass.
// Session loss (an auth error on any call, or a failed refresh) is fatal.
// Cancellation is not an error: the Downloads keep running server-side,
// they are just no longer tracked.
func (m *Monitor) Run(ctx context.Context, sess gateway.Session, handles []models.DownloadHandle) error {
	remaining := len(handles)
	if remaining == 0 {
		return nil
	}
	done := make([]bool, len(handles))

	for pass := 0; ; pass++ {
		if pass > 0 {
			if !m.wait(ctx) {
				return m.stopped(remaining)
			}
			// The gateway expires idle sessions; keep ours alive between passes.
			if err := m.client.RefreshSession(ctx, sess); err != nil {
				if ctx.Err() != nil {
					return m.stopped(remaining)
				}
				return fmt.Errorf("failed to refresh session: %w", err)
			}
		}

		for i := range handles {
			if done[i] {
				continue
			}

			status, err := m.client.GetStatus(ctx, sess, handles[i].ID)
			if err != nil {
				if ctx.Err() != nil {
					return m.stopped(remaining)
				}
				var authErr *gateway.AuthError
				if errors.As(err, &authErr) {
					return fmt.Errorf("lost gateway session while monitoring: %w", err)
				}
				fmt.Fprintln(m.out, color.Red.Sprintf("Failed to check Download %q, will retry: %v", handles[i].Name, err))
				continue
			}

			if status != handles[i].Status {
				handles[i].Status = status
				m.reportTransition(handles[i])
			}
			if m.classifier.IsTerminal(status) {
				done[i] = true
				remaining--
			}
		}

		if remaining == 0 {
			fmt.Fprintln(m.out, "All downloads complete")
			return nil
		}
	}
}

// wait sleeps for the polling interval, returning false if ctx was
// cancelled first.
func (m *Monitor) wait(ctx context.Context) bool {
	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Monitor) stopped(remaining int) error {
	fmt.Fprintf(m.out, "Monitoring stopped, %d download(s) still in progress\n", remaining)
	return nil
}

func (m *Monitor) reportTransition(h models.DownloadHandle) {
	label := string(h.Status)
	switch {
	case h.Status == models.StatusComplete:
		label = color.Green.Sprint(label)
	case m.classifier.IsTerminal(h.Status):
		label = color.Red.Sprint(label)
	default:
		label = color.Cyan.Sprint(label)
	}
	fmt.Fprintf(m.out, "Download %q is now %s\n", h.Name, label)
}
