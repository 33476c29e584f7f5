package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/bootstrap"
	"situation-analyzer/internal/shared/config"
)

func buildRouter() (*gin.Engine, error) {
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

func main() {
	lambda.Start(newProxy(buildRouter).Handle)
}
