package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hikstore/order-intake/internal/aws"
	"github.com/hikstore/order-intake/internal/idempotency"
)

// ErrNumberTaken indicates the generated order number already exists. The
// caller regenerates identifiers and retries, bounded.
var ErrNumberTaken = errors.New("order number already taken")

// Store encapsulates operations on the orders table. When a submission
// carries an idempotency key, the claim record lives in a second table and
// is written in the same transaction as the order.
type Store struct {
	client           aws.DynamoDBAPI
	tableName        string
	idempotencyTable string
	nowFunc          func() time.Time
}

// NewStore creates an orders Store. idempotencyTable may match the table the
// idempotency.Store is bound to; it is only used for transactional claims.
func NewStore(client aws.DynamoDBAPI, tableName, idempotencyTable string) *Store {
	return &Store{
		client:           client,
		tableName:        tableName,
		idempotencyTable: idempotencyTable,
		nowFunc:          time.Now,
	}
}

// Put durably persists the order. The write is atomic: either the whole
// order (and its idempotency claim, when present) is recorded or nothing is.
//
// claim == nil: plain conditional put keyed on order_number.
// claim != nil: TransactWriteItems putting the claim (condition: key unseen)
// and the order (condition: number unseen) together.
//
// Returns ErrNumberTaken on an order-number collision and
// idempotency.ErrKeyClaimed when the key was already claimed.
func (s *Store) Put(ctx context.Context, order *Order, claim *idempotency.Record) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.nowFunc()
	}
	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	if claim == nil {
		_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
			TableName:           &s.tableName,
			Item:                orderMap,
			ConditionExpression: awsString("attribute_not_exists(order_number)"),
		})
		if err != nil {
			var cc *types.ConditionalCheckFailedException
			if errors.As(err, &cc) {
				return ErrNumberTaken
			}
			return fmt.Errorf("put item: %w", err)
		}
		return nil
	}

	claimMap, err := attributevalue.MarshalMap(claim)
	if err != nil {
		return fmt.Errorf("marshal idempotency claim: %w", err)
	}

	// Item order matters: cancellation reasons come back positionally, which
	// is how a key conflict is told apart from a number collision.
	input := &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.idempotencyTable,
					Item:                claimMap,
					ConditionExpression: awsString("attribute_not_exists(idempotency_key)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                orderMap,
					ConditionExpression: awsString("attribute_not_exists(order_number)"),
				},
			},
		},
	}

	_, err = s.client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for i, reason := range tce.CancellationReasons {
				if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
					continue
				}
				if i == 0 {
					return idempotency.ErrKeyClaimed
				}
				return ErrNumberTaken
			}
			return fmt.Errorf("transact write canceled: %w", err)
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// Get fetches an order by order_number. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderNumber string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_number": &types.AttributeValueMemberS{Value: orderNumber},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func awsString(s string) *string { return &s }
