package gateway

import (
	"context"

	"dgqueue/internal/models"
)

// Session is the opaque authentication handle returned by Login. It is
// acquired once per run, never persisted, and read-only afterwards.
type Session string

// Client is the surface of the gateway the rest of the tool depends on.
// Anything that can log in, queue Downloads and report their status can
// stand in for the real HTTP client.
type Client interface {
	Login(ctx context.Context, username, password, authenticator string) (Session, error)
	SubmitDownload(ctx context.Context, s Session, req models.DownloadRequest) (models.SubmitResult, error)
	GetStatus(ctx context.Context, s Session, downloadID int64) (models.Status, error)
	RefreshSession(ctx context.Context, s Session) error
}
