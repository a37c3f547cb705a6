package idempotency

import "time"

// Status values for idempotency entries. The record is written atomically
// with the order, so identifiers are present in every status: IN_PROGRESS
// means notifications have not settled yet, DONE means every channel
// delivered, FAILED means at least one channel did not.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is the shape persisted in the idempotency DynamoDB table.
type Record struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK
	Status         string    `dynamodbav:"status"`
	OrderNumber    string    `dynamodbav:"order_number"`
	TrackingNumber string    `dynamodbav:"tracking_number"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}
