package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	prodOrigin = "https://tgccai.vercel.app"
	devOrigin  = "http://localhost:8080"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	TrustedProxies  []string

	DocIntelEndpoint   string
	DocIntelKey        string
	DocIntelModelID    string
	DocIntelAPIVersion string
	AzureTenantID      string
	AzureClientID      string
	AzureClientSecret  string

	AnalyzeTimeout      time.Duration
	PollInterval        time.Duration
	MissingValuePolicy  string
	AnalyzeRateLimitRPS float64
	AnalyzeRateBurst    int

	S3PresignEnabled bool
	AWSRegion        string
	S3PresignTTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(firstEnv("ENV", "NODE_ENV"))

	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", defaultOrigin(env))),
		TrustedProxies:  splitAndTrim(getEnv("TRUSTED_PROXIES", "")),

		DocIntelEndpoint:   getEnv("FORM_RECOGNIZER_ENDPOINT", ""),
		DocIntelKey:        getEnv("FORM_RECOGNIZER_KEY", ""),
		DocIntelModelID:    getEnv("CUSTOM_MODEL_ID", ""),
		DocIntelAPIVersion: getEnv("FORM_RECOGNIZER_API_VERSION", "2024-11-30"),
		AzureTenantID:      getEnv("AZURE_TENANT_ID", ""),
		AzureClientID:      getEnv("AZURE_CLIENT_ID", ""),
		AzureClientSecret:  getEnv("AZURE_CLIENT_SECRET", ""),

		AnalyzeTimeout:      time.Duration(getEnvInt("ANALYZE_TIMEOUT_SECONDS", 120)) * time.Second,
		PollInterval:        time.Duration(getEnvInt("ANALYZE_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		MissingValuePolicy:  getEnv("MISSING_VALUE_POLICY", "zero"),
		AnalyzeRateLimitRPS: getEnvFloat("ANALYZE_RATE_LIMIT_RPS", 0),
		AnalyzeRateBurst:    getEnvInt("ANALYZE_RATE_LIMIT_BURST", 0),

		S3PresignEnabled: getEnvBool("S3_PRESIGN_ENABLED", false),
		AWSRegion:        getEnv("AWS_REGION", "eu-west-3"),
		S3PresignTTL:     time.Duration(getEnvInt("S3_PRESIGN_TTL_MINUTES", 15)) * time.Minute,
	}

	if cfg.DocIntelEndpoint == "" || cfg.DocIntelModelID == "" {
		log.Printf("FORM_RECOGNIZER_ENDPOINT and CUSTOM_MODEL_ID are required to analyze documents")
	}

	return cfg
}

func defaultOrigin(env string) string {
	if env == "production" {
		return prodOrigin
	}
	return devOrigin
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
