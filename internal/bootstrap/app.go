package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/analyze"
	"situation-analyzer/internal/docintel"
	"situation-analyzer/internal/fields"
	"situation-analyzer/internal/services/health"
	"situation-analyzer/internal/shared/config"
	"situation-analyzer/internal/shared/server"
	"situation-analyzer/internal/shared/server/middleware"
	"situation-analyzer/internal/shared/storage/presign"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	AnalyzeService *analyze.Service
	AnalyzeHandler *analyze.Handler
	Health         *health.Service
}

// Build prepares dependencies and wires routes. A document intelligence
// client that cannot be built is not fatal: the server still starts and
// analyze calls fail with the configuration error.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	policy, err := fields.ParsePolicy(cfg.MissingValuePolicy)
	if err != nil {
		return nil, err
	}

	client, clientErr := buildDocIntel(cfg)
	if clientErr != nil {
		log.Printf("bootstrap: document intelligence unavailable: %v", clientErr)
	}

	presigner, err := buildPresigner(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := &analyze.Service{
		ModelID:   cfg.DocIntelModelID,
		Policy:    policy,
		Timeout:   cfg.AnalyzeTimeout,
		Presigner: presigner,
	}
	if client != nil {
		svc.Client = client
	} else {
		svc.Client = unavailableClient{err: clientErr}
	}

	app := &App{
		Config:         cfg,
		AnalyzeService: svc,
		AnalyzeHandler: analyze.NewHandler(svc),
		Health:         health.NewService(cfg.DocIntelModelID, clientErr),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		AnalyzeHandler: app.AnalyzeHandler,
		Health:         app.Health,
		RateLimiter:    middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDocIntel(cfg config.Config) (*docintel.HTTPClient, error) {
	return docintel.NewHTTPClient(docintel.Options{
		Endpoint:     cfg.DocIntelEndpoint,
		Key:          cfg.DocIntelKey,
		APIVersion:   cfg.DocIntelAPIVersion,
		PollInterval: cfg.PollInterval,
		TenantID:     cfg.AzureTenantID,
		ClientID:     cfg.AzureClientID,
		ClientSecret: cfg.AzureClientSecret,
	})
}

func buildPresigner(ctx context.Context, cfg config.Config) (presign.Presigner, error) {
	if !cfg.S3PresignEnabled {
		return nil, nil
	}
	p, err := presign.New(ctx, cfg.AWSRegion, cfg.S3PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("s3 presign: %w", err)
	}
	return p, nil
}

// unavailableClient answers every call with the error met at startup.
type unavailableClient struct {
	err error
}

func (u unavailableClient) Submit(ctx context.Context, modelID, sourceURL string) (docintel.Job, error) {
	return docintel.Job{}, u.err
}

func (u unavailableClient) Await(ctx context.Context, job docintel.Job) (*docintel.AnalyzeResult, error) {
	return nil, u.err
}
