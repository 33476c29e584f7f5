package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/shared/telemetry"
)

// Context keys handlers may set to enrich request and error log lines.
const (
	LogKeyModelID        = "modelId"
	LogKeyOperation      = "operationUrl"
	LogKeySubmittedAt    = "submittedAt"
	LogKeyDocType        = "docType"
	LogKeyProviderCode   = "providerCode"
	LogKeyProviderDetail = "providerDetail"
)

// LogKeys lists every enrichment key, in log order.
var LogKeys = []string{
	LogKeyModelID,
	LogKeyOperation,
	LogKeySubmittedAt,
	LogKeyDocType,
	LogKeyProviderCode,
	LogKeyProviderDetail,
}

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK writes payload as a 200 JSON response.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error logs the failure under code and aborts with {"error": message}.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if origin := c.GetHeader("Origin"); origin != "" {
		fields["origin"] = origin
	}
	AddLogKeys(c, fields)
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// AddLogKeys copies the non-empty enrichment keys set on c into fields.
func AddLogKeys(c *gin.Context, fields map[string]any) {
	for _, key := range LogKeys {
		if v := c.GetString(key); v != "" {
			fields[key] = v
		}
	}
}
