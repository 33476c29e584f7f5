package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/shared/server/respond"
)

// proxy builds the router on first use and forwards API Gateway v2 events to
// it. A failed build is answered as a JSON 500 and retried on the next event.
type proxy struct {
	build func() (*gin.Engine, error)

	mu      sync.Mutex
	adapter *ginadapter.GinLambdaV2
}

func newProxy(build func() (*gin.Engine, error)) *proxy {
	return &proxy{build: build}
}

func (p *proxy) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	adapter, err := p.ready()
	if err != nil {
		log.Printf("bootstrap error: %v", err)
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}
	return adapter.ProxyWithContext(ctx, req)
}

func (p *proxy) ready() (*ginadapter.GinLambdaV2, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adapter != nil {
		return p.adapter, nil
	}
	router, err := p.build()
	if err != nil {
		return nil, err
	}
	p.adapter = ginadapter.NewV2(router)
	return p.adapter, nil
}

func errorResponse(status int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
