package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by DynamoStore.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// shareItem is the DynamoDB item layout. The table's partition key is "code" (S).
type shareItem struct {
	Code      string                  `dynamodbav:"code"`
	Locations []models.SharedLocation `dynamodbav:"locations"`
	CreatedAt int64                   `dynamodbav:"created_at"`
}

// DynamoStore implements ShareStore on a DynamoDB table.
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
	log       *logrus.Entry
}

// NewDynamoStore creates a DynamoDB-backed store.
func NewDynamoStore(client DynamoDBAPI, tableName string, logger *logrus.Logger) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		log:       logging.Component(logger, "dynamodb"),
	}
}

// Put writes the payload once; the condition expression rejects an existing code.
func (s *DynamoStore) Put(ctx context.Context, code string, locations []models.SharedLocation) error {
	if s.client == nil {
		return fmt.Errorf("DynamoDB client not initialized")
	}

	item, err := attributevalue.MarshalMap(shareItem{
		Code:      code,
		Locations: locations,
		CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal share: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(code)"),
	})
	if err != nil {
		var condErr *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrShareExists
		}
		return fmt.Errorf("failed to save share to DynamoDB: %w", err)
	}

	s.log.WithFields(logrus.Fields{"code": code, "locations": len(locations)}).Debug("share stored")
	return nil
}

// Get reads the payload stored under code.
func (s *DynamoStore) Get(ctx context.Context, code string) ([]models.SharedLocation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("DynamoDB client not initialized")
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"code": &dynamodbtypes.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	if result.Item == nil {
		return nil, ErrShareNotFound
	}

	var item shareItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal share: %w", err)
	}
	return item.Locations, nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *DynamoStore) Close() error {
	return nil
}
