package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/shared/config"
	"situation-analyzer/internal/shared/telemetry"
)

func TestBuildWithoutProviderStillServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(&bytes.Buffer{})()

	app, err := Build(config.Config{MissingValuePolicy: "zero"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health expected 200, got %d", resp.Code)
	}
	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["providerConfigured"] != false {
		t.Fatalf("expected unconfigured provider: %v", status)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"formUrl":"https://forms.example/dp.pdf"}`)))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("analyze expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "FORM_RECOGNIZER_ENDPOINT") {
		t.Fatalf("expected configuration error, got %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing formUrl expected 400, got %d", resp.Code)
	}
}

func TestBuildRejectsUnknownPolicy(t *testing.T) {
	if _, err := Build(config.Config{MissingValuePolicy: "maybe"}); err == nil {
		t.Fatalf("expected policy error")
	}
}
