package models

import "github.com/go-playground/validator/v10"

type AccessMethod string

const (
	// AccessMethodHTTPS makes the data downloadable via the browser.
	AccessMethodHTTPS AccessMethod = "https"
	// AccessMethodGlobus delivers the data to Globus Online.
	AccessMethodGlobus AccessMethod = "globus"
	// AccessMethodDLS restores the data to the DLS filesystem.
	AccessMethodDLS AccessMethod = "dls"
)

var validate = validator.New()

// DownloadRequest is one server-side Download job covering up to one chunk
// of file paths.
type DownloadRequest struct {
	FileName  string       `json:"fileName" validate:"required"`
	Transport AccessMethod `json:"transport" validate:"required,oneof=https globus dls"`
	Email     string       `json:"email,omitempty" validate:"omitempty,email"`
	Files     []string     `json:"files" validate:"required,min=1"`
}

func (r DownloadRequest) Validate() error {
	return validate.Struct(r)
}

// SubmitResult is the gateway's response to a queued Download. NotFound
// lists paths the archive could not resolve; these are skipped server-side
// rather than failing the whole request.
type SubmitResult struct {
	DownloadID int64    `json:"downloadId"`
	NotFound   []string `json:"notFound"`
}

// DownloadHandle tracks one submitted Download for the rest of a run.
// Status is empty until the first poll reports one.
type DownloadHandle struct {
	ID     int64  `json:"download_id"`
	Name   string `json:"request_name"`
	Status Status `json:"status,omitempty"`
}
