package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"situation-analyzer/internal/docintel"
	"situation-analyzer/internal/fields"
	"situation-analyzer/internal/shared/storage/presign"
)

// Request is the decoded body of an analyze call. FormURL is a pointer so
// that an absent key and an explicit null are told apart from a value.
type Request struct {
	FormURL *string `json:"formUrl"`
}

// Outcome carries the extracted fields along with the provider job they came from.
type Outcome struct {
	Fields  fields.Response
	Job     docintel.Job
	DocType string
}

// Service runs one document through the provider and flattens the result.
type Service struct {
	Client    docintel.Client
	ModelID   string
	Policy    fields.Policy
	Timeout   time.Duration
	Presigner presign.Presigner
}

func (s *Service) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	if req.FormURL == nil || strings.TrimSpace(*req.FormURL) == "" {
		return nil, ErrMissingFormURL
	}
	if s.Client == nil {
		return nil, fmt.Errorf("%w: document intelligence client", docintel.ErrNotConfigured)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	source, err := s.resolveSource(ctx, strings.TrimSpace(*req.FormURL))
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	job, err := s.Client.Submit(ctx, s.ModelID, source)
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	result, err := s.Client.Await(ctx, job)
	if err != nil {
		return nil, &JobError{Job: job, Err: s.classify(ctx, err)}
	}
	if result == nil || len(result.Documents) == 0 {
		return nil, &JobError{Job: job, Err: ErrNoDocument}
	}

	doc := result.Documents[0]
	return &Outcome{
		Fields:  fields.Build(doc, s.Policy),
		Job:     job,
		DocType: doc.DocType,
	}, nil
}

func (s *Service) resolveSource(ctx context.Context, raw string) (string, error) {
	if !presign.IsS3(raw) {
		return raw, nil
	}
	if s.Presigner == nil {
		return "", ErrUnsupportedSource
	}
	return s.Presigner.Presign(ctx, raw)
}

// classify maps an expired analyze deadline to ErrTimeout and leaves every
// other error untouched.
func (s *Service) classify(ctx context.Context, err error) error {
	if s.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, s.Timeout)
	}
	return err
}
