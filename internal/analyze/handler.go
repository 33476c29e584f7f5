package analyze

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/docintel"
	"situation-analyzer/internal/shared/metrics"
	"situation-analyzer/internal/shared/server/middleware"
	"situation-analyzer/internal/shared/server/respond"
	"situation-analyzer/internal/shared/storage/presign"
)

const maxRequestBytes = 64 << 10

// Handler wires HTTP handlers to the analyze service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches POST /analyze to rg, behind any extra middleware.
func (h *Handler) RegisterRoutes(rg gin.IRoutes, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.analyze)
	rg.POST("/analyze", handlers...)
}

func (h *Handler) analyze(c *gin.Context) {
	start := time.Now()
	metrics.IncAnalyzeStarted()
	defer func() {
		metrics.ObserveAnalyzeDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	req, err := decodeRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.LogKeyModelID, h.Svc.ModelID)

	out, err := h.Svc.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	setJobLogKeys(c, out.Job)
	c.Set(middleware.LogKeyDocType, out.DocType)
	metrics.IncAnalyzeSucceeded()
	respond.OK(c, out.Fields)
}

// decodeRequest treats an empty body like {} so that it reports the missing
// field rather than a JSON error.
func decodeRequest(c *gin.Context) (Request, error) {
	var req Request
	if c.Request.Body == nil {
		return req, nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes))
	if err != nil {
		return req, ErrInvalidBody
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, ErrInvalidBody
	}
	return req, nil
}

func setJobLogKeys(c *gin.Context, job docintel.Job) {
	c.Set(middleware.LogKeyOperation, job.OperationURL)
	if !job.SubmittedAt.IsZero() {
		c.Set(middleware.LogKeySubmittedAt, job.SubmittedAt.UTC().Format(time.RFC3339Nano))
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		setJobLogKeys(c, jobErr.Job)
	}
	var provErr *docintel.Error
	if errors.As(err, &provErr) {
		c.Set(middleware.LogKeyProviderCode, provErr.Code)
		c.Set(middleware.LogKeyProviderDetail, provErr.Inner)
	}

	switch {
	case errors.Is(err, ErrMissingFormURL):
		metrics.IncAnalyzeFailed(metrics.ReasonBadRequest)
		respond.Error(c, http.StatusBadRequest, "missing_form_url", msgMissingFormURL)
	case errors.Is(err, ErrInvalidBody):
		metrics.IncAnalyzeFailed(metrics.ReasonBadRequest)
		respond.Error(c, http.StatusBadRequest, "invalid_json", msgInvalidBody)
	case errors.Is(err, ErrUnsupportedSource), errors.Is(err, presign.ErrInvalidLocation):
		metrics.IncAnalyzeFailed(metrics.ReasonBadRequest)
		respond.Error(c, http.StatusBadRequest, "unsupported_source", err.Error())
	case errors.Is(err, ErrNoDocument):
		metrics.IncAnalyzeFailed(metrics.ReasonNoDocument)
		respond.Error(c, http.StatusBadRequest, "no_document", msgNoDocument)
	case errors.Is(err, ErrTimeout):
		metrics.IncAnalyzeFailed(metrics.ReasonTimeout)
		respond.Error(c, http.StatusGatewayTimeout, "timeout", ErrTimeout.Error())
	case errors.As(err, &provErr):
		metrics.IncAnalyzeFailed(metrics.ReasonProvider)
		respond.Error(c, http.StatusInternalServerError, "provider_error", provErr.Error())
	default:
		metrics.IncAnalyzeFailed(metrics.ReasonInternal)
		msg := err.Error()
		if msg == "" {
			msg = http.StatusText(http.StatusInternalServerError)
		}
		respond.Error(c, http.StatusInternalServerError, "internal", msg)
	}
}
