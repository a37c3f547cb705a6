package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hikstore/order-intake/internal/aws"
	"github.com/hikstore/order-intake/internal/config"
	"github.com/hikstore/order-intake/internal/notify"
	"github.com/hikstore/order-intake/internal/orders"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	channels, err := notify.FromConfig(cfg, clients.SES)
	if err != nil {
		log.Fatalf("failed to build channels: %v", err)
	}

	p := NewProcessor(
		orders.NewStore(clients.DynamoDB, cfg.OrdersTable, cfg.IdempotencyTable),
		notify.NewDispatcher(channels, cfg.ChannelTimeout, cfg.DispatchTimeout),
	)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_number":"HIKLOCAL1","channels":["admin-email"]}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					Body: testBody,
				},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
