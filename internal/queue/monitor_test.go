package queue

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dgqueue/internal/gateway"
	"dgqueue/internal/models"
)

func testHandles(ids ...int64) []models.DownloadHandle {
	handles := make([]models.DownloadHandle, len(ids))
	for i, id := range ids {
		handles[i] = models.DownloadHandle{ID: id, Name: PartName("run1", i+1, len(ids))}
	}
	return handles
}

func newTestMonitor(fake *fakeGateway, out *bytes.Buffer) *Monitor {
	return NewMonitor(fake, time.Millisecond, models.DefaultStatusClassifier(), out)
}

func TestMonitorNoHandles(t *testing.T) {
	fake := newFakeGateway()
	var out bytes.Buffer

	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", nil)
	require.NoError(t, err)
	require.Empty(t, fake.polls)
}

func TestMonitorAllCompleteOnFirstPass(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{models.StatusComplete}
	fake.statusScripts[2] = []models.Status{models.StatusComplete}
	var out bytes.Buffer

	handles := testHandles(1, 2)
	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", handles)
	req.NoError(err)

	// Exactly one pass: one poll per handle, no session refresh needed.
	req.Equal(1, fake.polls[1])
	req.Equal(1, fake.polls[2])
	req.Equal(0, fake.refreshes)
	req.Equal(models.StatusComplete, handles[0].Status)
	req.Equal(models.StatusComplete, handles[1].Status)
	req.Contains(out.String(), "All downloads complete")
}

func TestMonitorTerminalStatesAreAbsorbing(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{models.StatusQueued, models.StatusRestoring, models.StatusComplete}
	fake.statusScripts[2] = []models.Status{models.StatusComplete}
	var out bytes.Buffer

	handles := testHandles(1, 2)
	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", handles)
	req.NoError(err)

	// Handle 2 finished on pass 1 and was never polled again while handle 1
	// took two more passes.
	req.Equal(3, fake.polls[1])
	req.Equal(1, fake.polls[2])
	req.Equal(2, fake.refreshes)

	req.Contains(out.String(), `Download "run1_part_1" is now`)
	req.Contains(out.String(), "QUEUED")
	req.Contains(out.String(), "RESTORING")
	req.Contains(out.String(), "COMPLETE")
}

func TestMonitorUnknownStatusIsTerminal(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{"ARCHIVED_BY_SERVER"}
	var out bytes.Buffer

	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", testHandles(1))
	req.NoError(err)
	req.Equal(1, fake.polls[1])
}

func TestMonitorCustomClassifier(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{"STAGING", "STAGING", models.StatusComplete}
	var out bytes.Buffer

	classifier := models.NewStatusClassifier("STAGING")
	monitor := NewMonitor(fake, time.Millisecond, classifier, &out)
	err := monitor.Run(context.Background(), "test-session", testHandles(1))
	req.NoError(err)
	req.Equal(3, fake.polls[1])
}

func TestMonitorRetriesTransientErrors(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusErrs[1] = &gateway.TransportError{Op: "status", Err: context.DeadlineExceeded}
	fake.statusScripts[1] = []models.Status{models.StatusComplete}
	var out bytes.Buffer

	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", testHandles(1))
	req.NoError(err)

	req.Contains(out.String(), "will retry")
	req.Equal(1, fake.polls[1])
	req.Equal(1, fake.refreshes)
}

func TestMonitorAuthErrorIsFatal(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusErrs[1] = &gateway.AuthError{Message: "session expired"}
	var out bytes.Buffer

	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", testHandles(1))
	req.Error(err)
	req.Contains(err.Error(), "lost gateway session")
}

func TestMonitorRefreshFailureIsFatal(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{models.StatusQueued, models.StatusComplete}
	fake.refreshErr = &gateway.AuthError{Message: "session expired"}
	var out bytes.Buffer

	err := newTestMonitor(fake, &out).Run(context.Background(), "test-session", testHandles(1))
	req.Error(err)
	req.Contains(err.Error(), "failed to refresh session")
}

func TestMonitorCancellation(t *testing.T) {
	req := require.New(t)
	fake := newFakeGateway()
	fake.statusScripts[1] = []models.Status{models.StatusQueued}
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewMonitor(fake, time.Minute, models.DefaultStatusClassifier(), &out)

	done := make(chan error, 1)
	go func() {
		done <- monitor.Run(ctx, "test-session", testHandles(1))
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		// Interrupting monitoring is not an error: the Download keeps
		// running server-side.
		req.NoError(err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	req.Contains(out.String(), "Monitoring stopped, 1 download(s) still in progress")
}
