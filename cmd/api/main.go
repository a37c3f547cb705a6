package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/hikstore/order-intake/internal/aws"
	"github.com/hikstore/order-intake/internal/config"
	"github.com/hikstore/order-intake/internal/handlers"
	"github.com/hikstore/order-intake/internal/idempotency"
	"github.com/hikstore/order-intake/internal/notify"
	"github.com/hikstore/order-intake/internal/orders"
	"github.com/hikstore/order-intake/internal/pipeline"
	"github.com/hikstore/order-intake/internal/validation"
)

func setupRouter(intake handlers.OrderIntake) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrderRoutes(r, intake)

	return r
}

func buildPipeline(cfg config.Config, clients *aws.AWSClients) (*pipeline.Pipeline, error) {
	channels, err := notify.FromConfig(cfg, clients.SES)
	if err != nil {
		return nil, err
	}

	var publisher pipeline.Publisher
	if cfg.RetryQueueURL != "" {
		publisher = aws.NewPublisher(clients.SQS, cfg.RetryQueueURL)
	}

	return pipeline.New(pipeline.Deps{
		Validator:   validation.New(),
		Generator:   orders.NewGenerator(),
		Store:       orders.NewStore(clients.DynamoDB, cfg.OrdersTable, cfg.IdempotencyTable),
		Replays:     idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL),
		Notifier:    notify.NewDispatcher(channels, cfg.ChannelTimeout, cfg.DispatchTimeout),
		Publisher:   publisher,
		Metrics:     aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace),
		RetryBounds: cfg.RetryBounds,
	}), nil
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	p, err := buildPipeline(cfg, clients)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	r := setupRouter(p)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
