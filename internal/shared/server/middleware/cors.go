package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/shared/server/respond"
)

const (
	corsAllowMethods = "GET,POST"
	corsAllowHeaders = "Content-Type, X-Request-Id"
	corsMaxAge       = "600"

	// ErrCORSMessage is returned to browsers whose origin is not allowed.
	ErrCORSMessage = "Not allowed by CORS"
)

// CORS restricts cross-origin requests to allowedOrigins. A "*" entry allows
// every origin. Requests without an Origin header are not cross-origin and
// always pass; any other origin outside the list is rejected with 403.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	anyOrigin := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		if trimmed == "*" {
			anyOrigin = true
			continue
		}
		if trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := origins[origin]; !ok && !anyOrigin {
				respond.Error(c, http.StatusForbidden, "cors_rejected", ErrCORSMessage)
				return
			}
			h := c.Writer.Header()
			if anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
