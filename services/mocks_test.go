package services

import (
	"context"
	"testing"

	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/mock"
)

type mockDynamo struct {
	mock.Mock
}

func (m *mockDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	args := m.Called(ctx, tableName, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]types.AttributeValue), args.Error(1)
}

func (m *mockDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	args := m.Called(ctx, tableName, item)
	return args.Error(0)
}

func (m *mockDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	args := m.Called(ctx, tableName, key)
	return args.Error(0)
}

func (m *mockDynamo) UpdateItem(ctx context.Context, tableName, updateExpression string, key, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	args := m.Called(ctx, tableName, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]types.AttributeValue), args.Error(1)
}

func (m *mockDynamo) ConditionalUpdateItem(ctx context.Context, tableName, updateExpression, conditionExpression string, key, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	args := m.Called(ctx, tableName, updateExpression, conditionExpression, key, expressionAttributeValues, expressionAttributeNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]types.AttributeValue), args.Error(1)
}

func (m *mockDynamo) QueryItemsWithIndex(ctx context.Context, tableName, indexName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32, latestFirst bool) ([]map[string]types.AttributeValue, error) {
	args := m.Called(ctx, tableName, indexName, keyConditionExpression, expressionAttributeValues, expressionAttributeNames, limit, latestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]types.AttributeValue), args.Error(1)
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) SendConnectionAcceptedEmail(ctx context.Context, toAddress, toName, actorName string) error {
	args := m.Called(ctx, toAddress, toName, actorName)
	return args.Error(0)
}

type fakeImages struct {
	uploadURL string
	uploadErr error
	deleted   []string
}

func (f *fakeImages) UploadImage(ctx context.Context, dataURI string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeImages) DeleteImage(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeBroadcaster struct {
	pushed []models.Notification
}

func (f *fakeBroadcaster) PushNotification(userID string, n models.Notification) {
	f.pushed = append(f.pushed, n)
}

func mustItem(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("failed to marshal item: %v", err)
	}
	return item
}

func conditionalFailure() error {
	return &types.ConditionalCheckFailedException{}
}

func transactionConditionalFailure() error {
	code := "ConditionalCheckFailed"
	return &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: &code}},
	}
}
