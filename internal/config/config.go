// Package config loads the service configuration from the environment once,
// at the edge, into an explicit struct that is injected into constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StoreBackendDynamoDB is the only persistence backend currently wired.
const StoreBackendDynamoDB = "dynamodb"

// Config carries everything the intake pipeline and the retry worker need.
type Config struct {
	StoreBackend     string
	OrdersTable      string
	IdempotencyTable string
	RetryQueueURL    string

	// Channels lists the enabled notification channels, in dispatch order.
	// Recognized names: admin-email, customer-email, relay-form, webhook.
	Channels []string

	IdempotencyTTL  time.Duration
	RetryBounds     int
	ChannelTimeout  time.Duration
	DispatchTimeout time.Duration

	SenderEmail   string
	AdminEmail    string
	RelayEndpoint string
	RelayKey      string
	RelayTo       string
	WebhookURL    string

	MetricsNamespace string
}

// FromEnv reads the configuration from environment variables, applying
// defaults where a value is optional.
func FromEnv() (Config, error) {
	cfg := Config{
		StoreBackend:     envOr("STORE_BACKEND", StoreBackendDynamoDB),
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		RetryQueueURL:    os.Getenv("NOTIFY_RETRY_QUEUE_URL"),
		SenderEmail:      os.Getenv("SENDER_EMAIL"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		RelayEndpoint:    envOr("RELAY_ENDPOINT", "https://api.web3forms.com/submit"),
		RelayKey:         os.Getenv("RELAY_ACCESS_KEY"),
		RelayTo:          os.Getenv("RELAY_TO"),
		WebhookURL:       os.Getenv("ORDER_WEBHOOK_URL"),
		MetricsNamespace: envOr("METRICS_NAMESPACE", "OrderIntake"),
	}

	if cfg.StoreBackend != StoreBackendDynamoDB {
		return cfg, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
	if cfg.OrdersTable == "" {
		return cfg, fmt.Errorf("ORDERS_TABLE is required")
	}
	if cfg.IdempotencyTable == "" {
		return cfg, fmt.Errorf("IDEMPOTENCY_TABLE is required")
	}

	if raw := os.Getenv("NOTIFICATION_CHANNELS"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Channels = append(cfg.Channels, name)
			}
		}
	} else {
		cfg.Channels = []string{"admin-email", "customer-email", "relay-form"}
	}

	var err error
	if cfg.IdempotencyTTL, err = durationOr("IDEMPOTENCY_TTL", 48*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.ChannelTimeout, err = durationOr("CHANNEL_TIMEOUT", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.DispatchTimeout, err = durationOr("DISPATCH_TIMEOUT", 8*time.Second); err != nil {
		return cfg, err
	}
	if cfg.RetryBounds, err = intOr("RETRY_BOUNDS", 3); err != nil {
		return cfg, err
	}
	if cfg.RetryBounds < 1 {
		return cfg, fmt.Errorf("RETRY_BOUNDS must be at least 1")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func intOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
