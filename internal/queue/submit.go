package queue

import (
	"context"
	"fmt"
	"io"

	"github.com/gookit/color"

	"dgqueue/internal/gateway"
	"dgqueue/internal/models"
)

// Submitter queues one Download per chunk, strictly in chunk order. The
// gateway serializes its own work, so there is nothing to gain from
// concurrent submission and duplicate-name races to lose.
type Submitter struct {
	client gateway.Client
	out    io.Writer
}

func NewSubmitter(client gateway.Client, out io.Writer) *Submitter {
	return &Submitter{client: client, out: out}
}

type SubmitOptions struct {
	BaseName     string
	AccessMethod models.AccessMethod
	Email        string
}

// SubmitAll submits every chunk and returns a handle per created Download,
// in chunk order. On failure it stops immediately; there is no way to
// cancel a Download that already exists, so the handles created before the
// failure are returned alongside the error rather than dropped.
func (s *Submitter) SubmitAll(ctx context.Context, sess gateway.Session, chunks [][]string, opts SubmitOptions) ([]models.DownloadHandle, error) {
	handles := make([]models.DownloadHandle, 0, len(chunks))

	for i, files := range chunks {
		name := PartName(opts.BaseName, i+1, len(chunks))
		req := models.DownloadRequest{
			FileName:  name,
			Transport: opts.AccessMethod,
			Email:     opts.Email,
			Files:     files,
		}
		if err := req.Validate(); err != nil {
			return handles, fmt.Errorf("invalid download request %q: %w", name, err)
		}

		result, err := s.client.SubmitDownload(ctx, sess, req)
		if err != nil {
			return handles, fmt.Errorf("failed to submit part %d of %d: %w", i+1, len(chunks), err)
		}

		handles = append(handles, models.DownloadHandle{ID: result.DownloadID, Name: name})
		fmt.Fprintf(s.out, "Submitted Download %q with id %d (%d files)\n", name, result.DownloadID, len(files))
		if len(result.NotFound) > 0 {
			fmt.Fprintln(s.out, color.Yellow.Sprintf("%d file(s) could not be found:", len(result.NotFound)))
			for _, p := range result.NotFound {
				fmt.Fprintf(s.out, "  %s\n", p)
			}
		}
	}

	return handles, nil
}
