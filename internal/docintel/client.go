package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultAPIVersion   = "2024-11-30"
	DefaultPollInterval = time.Second

	cognitiveScope = "https://cognitiveservices.azure.com/.default"
	keyHeader      = "Ocp-Apim-Subscription-Key"
	maxBodyBytes   = 32 << 20
)

var (
	// ErrNotConfigured is returned when the client has no endpoint or credentials.
	ErrNotConfigured = errors.New("document intelligence not configured")
	// ErrMissingOperation is returned when a 202 response carries no Operation-Location.
	ErrMissingOperation = errors.New("document intelligence response missing Operation-Location")

	errStillRunning = errors.New("analyze operation still running")
)

// Client submits documents for analysis and waits for the result.
type Client interface {
	Submit(ctx context.Context, modelID, sourceURL string) (Job, error)
	Await(ctx context.Context, job Job) (*AnalyzeResult, error)
}

// Options configures an HTTPClient.
type Options struct {
	Endpoint     string
	Key          string
	APIVersion   string
	PollInterval time.Duration

	// Entra ID client credentials, used when Key is empty.
	TenantID     string
	ClientID     string
	ClientSecret string
	TokenURL     string

	HTTPClient *http.Client
}

// HTTPClient talks to the Document Intelligence REST API.
type HTTPClient struct {
	endpoint     string
	key          string
	apiVersion   string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewHTTPClient constructs a client from options.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: FORM_RECOGNIZER_ENDPOINT is required", ErrNotConfigured)
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid FORM_RECOGNIZER_ENDPOINT: %w", err)
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 60 * time.Second}
	}

	key := strings.TrimSpace(opts.Key)
	httpClient := base
	if key == "" {
		if strings.TrimSpace(opts.ClientID) == "" || strings.TrimSpace(opts.ClientSecret) == "" {
			return nil, fmt.Errorf("%w: FORM_RECOGNIZER_KEY or AZURE_CLIENT_ID/AZURE_CLIENT_SECRET is required", ErrNotConfigured)
		}
		tokenURL := strings.TrimSpace(opts.TokenURL)
		if tokenURL == "" {
			if strings.TrimSpace(opts.TenantID) == "" {
				return nil, fmt.Errorf("%w: AZURE_TENANT_ID is required for client credentials", ErrNotConfigured)
			}
			tokenURL = "https://login.microsoftonline.com/" + url.PathEscape(opts.TenantID) + "/oauth2/v2.0/token"
		}
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{cognitiveScope},
		}
		httpClient = cc.Client(contextWithHTTPClient(base))
		httpClient.Timeout = base.Timeout
	}

	return &HTTPClient{
		endpoint:     endpoint,
		key:          key,
		apiVersion:   apiVersion,
		pollInterval: poll,
		httpClient:   httpClient,
	}, nil
}

// Submit starts an analyze operation for the document at sourceURL.
func (c *HTTPClient) Submit(ctx context.Context, modelID, sourceURL string) (Job, error) {
	if strings.TrimSpace(modelID) == "" {
		return Job{}, fmt.Errorf("%w: CUSTOM_MODEL_ID is required", ErrNotConfigured)
	}
	payload, err := json.Marshal(map[string]string{"urlSource": sourceURL})
	if err != nil {
		return Job{}, err
	}

	endpoint := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(modelID), url.QueryEscape(c.apiVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Job{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Job{}, fmt.Errorf("document intelligence submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return Job{}, decodeError(resp)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	opURL := strings.TrimSpace(resp.Header.Get("Operation-Location"))
	if opURL == "" {
		return Job{}, ErrMissingOperation
	}
	return Job{
		OperationURL: opURL,
		ModelID:      modelID,
		SubmittedAt:  time.Now().UTC(),
	}, nil
}

// Await polls the operation until it reaches a terminal status. The wait
// ends early only when ctx is done or a poll request itself fails.
func (c *HTTPClient) Await(ctx context.Context, job Job) (*AnalyzeResult, error) {
	if strings.TrimSpace(job.OperationURL) == "" {
		return nil, ErrMissingOperation
	}

	var (
		result *AnalyzeResult
		next   = c.pollInterval
	)
	err := retry.Do(
		func() error {
			op, retryAfter, err := c.poll(ctx, job.OperationURL)
			if err != nil {
				return err
			}
			next = c.pollInterval
			if retryAfter > 0 {
				next = retryAfter
			}
			switch op.Status {
			case StatusSucceeded:
				result = op.AnalyzeResult
				if result == nil {
					result = &AnalyzeResult{}
				}
				return nil
			case StatusFailed, StatusCanceled:
				failure := newError(http.StatusOK, op.Error)
				if op.Error == nil {
					failure.Code = op.Status
					failure.Message = "analyze operation " + op.Status
				}
				return failure
			default:
				return errStillRunning
			}
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errStillRunning) }),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration { return next }),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("document intelligence await: %w", ctxErr)
		}
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) poll(ctx context.Context, operationURL string) (operation, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return operation{}, 0, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return operation{}, 0, fmt.Errorf("document intelligence poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return operation{}, 0, decodeError(resp)
	}

	var op operation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&op); err != nil {
		return operation{}, 0, fmt.Errorf("document intelligence poll decode: %w", err)
	}
	return op, parseRetryAfter(resp.Header.Get("Retry-After")), nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.key != "" {
		req.Header.Set(keyHeader, c.key)
	}
}

func decodeError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("document intelligence http status %d: %w", resp.StatusCode, err)
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Code: strconv.Itoa(resp.StatusCode), Message: msg}
	}
	return newError(resp.StatusCode, env.Error)
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

var _ Client = (*HTTPClient)(nil)
