package analyze

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"situation-analyzer/internal/docintel"
	"situation-analyzer/internal/fields"
)

type stubClient struct {
	mu        sync.Mutex
	submitted []string
	submitErr error
	result    *docintel.AnalyzeResult
	awaitErr  error
	blockWait bool
}

func (s *stubClient) Submit(ctx context.Context, modelID, sourceURL string) (docintel.Job, error) {
	s.mu.Lock()
	s.submitted = append(s.submitted, sourceURL)
	s.mu.Unlock()
	if s.submitErr != nil {
		return docintel.Job{}, s.submitErr
	}
	return docintel.Job{OperationURL: "https://provider.example/ops/1", ModelID: modelID, SubmittedAt: time.Now()}, nil
}

func (s *stubClient) Await(ctx context.Context, job docintel.Job) (*docintel.AnalyzeResult, error) {
	if s.blockWait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.result, s.awaitErr
}

func (s *stubClient) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.submitted...)
}

type stubPresigner struct {
	url string
	err error
}

func (p stubPresigner) Presign(ctx context.Context, location string) (string, error) {
	return p.url, p.err
}

func strPtr(v string) *string { return &v }

func singleDocResult() *docintel.AnalyzeResult {
	conf := 0.9
	value := "Residence Les Pins"
	return &docintel.AnalyzeResult{Documents: []docintel.Document{{
		DocType: "dp-model-v3",
		Fields: map[string]docintel.Field{
			fields.FieldChantier: {Type: docintel.FieldTypeString, ValueString: &value, Confidence: &conf},
		},
	}}}
}

func TestAnalyzeRejectsMissingFormURL(t *testing.T) {
	for name, req := range map[string]Request{
		"absent": {},
		"empty":  {FormURL: strPtr("")},
		"blank":  {FormURL: strPtr("   ")},
	} {
		t.Run(name, func(t *testing.T) {
			client := &stubClient{}
			svc := &Service{Client: client, ModelID: "m"}
			_, err := svc.Analyze(context.Background(), req)
			if !errors.Is(err, ErrMissingFormURL) {
				t.Fatalf("expected ErrMissingFormURL, got %v", err)
			}
			if len(client.calls()) != 0 {
				t.Fatalf("provider must not be contacted")
			}
		})
	}
}

func TestAnalyzeBuildsFirstDocument(t *testing.T) {
	client := &stubClient{result: singleDocResult()}
	svc := &Service{Client: client, ModelID: "dp-model-v3", Policy: fields.PolicyZero}

	out, err := svc.Analyze(context.Background(), Request{FormURL: strPtr(" https://forms.example/dp.pdf ")})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got := client.calls(); len(got) != 1 || got[0] != "https://forms.example/dp.pdf" {
		t.Fatalf("unexpected submitted urls: %v", got)
	}
	if out.Fields.Chantier != "Residence Les Pins" {
		t.Fatalf("unexpected chantier %q", out.Fields.Chantier)
	}
	if out.DocType != "dp-model-v3" || out.Job.OperationURL == "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestAnalyzeNoDocument(t *testing.T) {
	for name, result := range map[string]*docintel.AnalyzeResult{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &Service{Client: &stubClient{result: result}}
			_, err := svc.Analyze(context.Background(), Request{FormURL: strPtr("https://forms.example/dp.pdf")})
			if !errors.Is(err, ErrNoDocument) {
				t.Fatalf("expected ErrNoDocument, got %v", err)
			}
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	svc := &Service{Client: &stubClient{blockWait: true}, Timeout: 20 * time.Millisecond}
	_, err := svc.Analyze(context.Background(), Request{FormURL: strPtr("https://forms.example/dp.pdf")})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestAnalyzeCallerCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &Service{Client: &stubClient{blockWait: true}, Timeout: time.Minute}
	_, err := svc.Analyze(ctx, Request{FormURL: strPtr("https://forms.example/dp.pdf")})
	if errors.Is(err, ErrTimeout) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeS3Sources(t *testing.T) {
	t.Run("without presigner", func(t *testing.T) {
		client := &stubClient{result: singleDocResult()}
		svc := &Service{Client: client}
		_, err := svc.Analyze(context.Background(), Request{FormURL: strPtr("s3://forms/dp.pdf")})
		if !errors.Is(err, ErrUnsupportedSource) {
			t.Fatalf("expected ErrUnsupportedSource, got %v", err)
		}
		if len(client.calls()) != 0 {
			t.Fatalf("provider must not be contacted")
		}
	})

	t.Run("presigned", func(t *testing.T) {
		client := &stubClient{result: singleDocResult()}
		svc := &Service{Client: client, Presigner: stubPresigner{url: "https://forms.s3.example/dp.pdf?X-Amz-Signature=abc"}}
		if _, err := svc.Analyze(context.Background(), Request{FormURL: strPtr("s3://forms/dp.pdf")}); err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if got := client.calls(); len(got) != 1 || got[0] != "https://forms.s3.example/dp.pdf?X-Amz-Signature=abc" {
			t.Fatalf("expected presigned url to be submitted, got %v", got)
		}
	})
}
