package queue

import (
	"context"

	"dgqueue/internal/gateway"
	"dgqueue/internal/models"
)

// fakeGateway scripts gateway responses for the submitter and monitor
// tests. Download ids are assigned sequentially from 1; per-id status
// scripts replay in order, with the last value repeating.
type fakeGateway struct {
	submitted   []models.DownloadRequest
	submitErrAt int // 1-based part index that fails, 0 for never
	notFound    map[string][]string
	nextID      int64

	statusScripts map[int64][]models.Status
	statusErrs    map[int64]error // consumed on first poll of the id
	polls         map[int64]int
	refreshes     int
	refreshErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		notFound:      make(map[string][]string),
		statusScripts: make(map[int64][]models.Status),
		statusErrs:    make(map[int64]error),
		polls:         make(map[int64]int),
	}
}

func (f *fakeGateway) Login(_ context.Context, _, _, _ string) (gateway.Session, error) {
	return "test-session", nil
}

func (f *fakeGateway) SubmitDownload(_ context.Context, _ gateway.Session, req models.DownloadRequest) (models.SubmitResult, error) {
	if f.submitErrAt > 0 && len(f.submitted)+1 == f.submitErrAt {
		return models.SubmitResult{}, &gateway.SubmissionError{Name: req.FileName, Message: "quota exceeded"}
	}
	f.submitted = append(f.submitted, req)
	f.nextID++
	return models.SubmitResult{DownloadID: f.nextID, NotFound: f.notFound[req.FileName]}, nil
}

func (f *fakeGateway) GetStatus(_ context.Context, _ gateway.Session, downloadID int64) (models.Status, error) {
	if err, ok := f.statusErrs[downloadID]; ok {
		delete(f.statusErrs, downloadID)
		return "", err
	}
	f.polls[downloadID]++
	script := f.statusScripts[downloadID]
	if len(script) == 0 {
		return models.StatusComplete, nil
	}
	n := f.polls[downloadID]
	if n > len(script) {
		n = len(script)
	}
	return script[n-1], nil
}

func (f *fakeGateway) RefreshSession(_ context.Context, _ gateway.Session) error {
	f.refreshes++
	return f.refreshErr
}
