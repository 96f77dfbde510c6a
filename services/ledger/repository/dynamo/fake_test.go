package dynamo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/piresc/bahikhata/internal/pkg/database"
)

// memTable is an in-memory single table understanding the expressions the repository sends
type memTable struct {
	database.DynamoDBAPI

	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	queryErr error
}

func newMemTable() *memTable {
	return &memTable{items: map[string]map[string]types.AttributeValue{}}
}

func attrString(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func itemKey(item map[string]types.AttributeValue) string {
	return attrString(item, database.DynamoPartitionKey) + "|" + attrString(item, database.DynamoSortKey)
}

func (m *memTable) conditionHolds(condition *string, key string) bool {
	_, exists := m.items[key]
	switch {
	case condition == nil:
		return true
	case strings.HasPrefix(*condition, "attribute_not_exists"):
		return !exists
	case strings.HasPrefix(*condition, "attribute_exists"):
		return exists
	default:
		return true
	}
}

func (m *memTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: m.items[itemKey(in.Key)]}, nil
}

func (m *memTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := itemKey(in.Item)
	if !m.conditionHolds(in.ConditionExpression, key) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	m.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *memTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := itemKey(in.Key)
	if !m.conditionHolds(in.ConditionExpression, key) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(m.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *memTable) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range in.TransactItems {
		if w.Put == nil {
			return nil, errors.New("only Put is supported")
		}
		if !m.conditionHolds(w.Put.ConditionExpression, itemKey(w.Put.Item)) {
			return nil, &types.TransactionCanceledException{Message: aws.String("Transaction cancelled")}
		}
	}
	for _, w := range in.TransactItems {
		m.items[itemKey(w.Put.Item)] = w.Put.Item
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// Query supports "PK = :pk AND begins_with(SK, :sk)" and pages by pageSize
func (m *memTable) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	pk := attrString(in.ExpressionAttributeValues, ":pk")
	prefix := attrString(in.ExpressionAttributeValues, ":sk")

	var keys []string
	for key, item := range m.items {
		if attrString(item, database.DynamoPartitionKey) == pk && strings.HasPrefix(attrString(item, database.DynamoSortKey), prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := itemKey(in.ExclusiveStartKey)
		for start < len(keys) && keys[start] <= after {
			start++
		}
	}

	end := len(keys)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}

	out := &dynamodb.QueryOutput{}
	for _, key := range keys[start:end] {
		out.Items = append(out.Items, m.items[key])
	}
	if end < len(keys) {
		last := m.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			database.DynamoPartitionKey: last[database.DynamoPartitionKey],
			database.DynamoSortKey:      last[database.DynamoSortKey],
		}
	}
	return out, nil
}
