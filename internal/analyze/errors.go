package analyze

import (
	"errors"

	"situation-analyzer/internal/docintel"
)

var (
	ErrMissingFormURL    = errors.New("missing formUrl")
	ErrInvalidBody       = errors.New("invalid json body")
	ErrNoDocument        = errors.New("no document in analyze result")
	ErrUnsupportedSource = errors.New("s3 formUrl sources are not enabled")
	ErrTimeout           = errors.New("analysis timed out")
)

// Client-facing messages.
const (
	msgMissingFormURL = "Missing formUrl in request body"
	msgInvalidBody    = "Invalid JSON in request body"
	msgNoDocument     = "No document found in the result."
)

// JobError is a failure met after the provider accepted the document.
type JobError struct {
	Job docintel.Job
	Err error
}

func (e *JobError) Error() string {
	return e.Err.Error()
}

func (e *JobError) Unwrap() error {
	return e.Err
}
