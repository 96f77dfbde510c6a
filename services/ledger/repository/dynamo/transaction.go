package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// CreateTransaction stores a transaction under its owner's partition
func (r *LedgerRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	return r.putTransaction(ctx, txn, "attribute_not_exists("+database.DynamoPartitionKey+")", models.ErrConflict)
}

// GetTransaction returns the transaction only when userID owns it
func (r *LedgerRepo) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	item, err := r.getItem(ctx, userKey(userID), transactionKey(id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}

	var record transactionRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return record.toModel()
}

// ListTransactions reads the user's partition page by page, then filters and
// sorts by date and creation time in memory
func (r *LedgerRepo) ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userKey(userID)},
			":sk": &types.AttributeValueMemberS{Value: transactionPrefix},
		},
		ConsistentRead: aws.Bool(true),
	}

	txns := []*models.Transaction{}
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Query operation failed: %w", err)
		}

		for _, item := range result.Items {
			var record transactionRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
			}
			txn, err := record.toModel()
			if err != nil {
				return nil, err
			}
			if filter.Matches(txn) {
				txns = append(txns, txn)
			}
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].CreatedAt.Before(txns[j].CreatedAt)
	})
	return txns, nil
}

// UpdateTransaction overwrites an existing owned transaction
func (r *LedgerRepo) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()
	return r.putTransaction(ctx, txn, "attribute_exists("+database.DynamoPartitionKey+")", models.ErrNotFound)
}

// DeleteTransaction removes an owned transaction
func (r *LedgerRepo) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			database.DynamoPartitionKey: &types.AttributeValueMemberS{Value: userKey(userID)},
			database.DynamoSortKey:      &types.AttributeValueMemberS{Value: transactionKey(id)},
		},
		ConditionExpression: aws.String("attribute_exists(" + database.DynamoPartitionKey + ")"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("DeleteItem operation failed: %w", err)
	}
	return nil
}

// putTransaction writes the item under condition; a failed check is reported as condFailed
func (r *LedgerRepo) putTransaction(ctx context.Context, txn *models.Transaction, condition string, condFailed error) error {
	item, err := attributevalue.MarshalMap(newTransactionRecord(txn))
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("transaction %s: %w", txn.ID, condFailed)
		}
		return fmt.Errorf("PutItem operation failed: %w", err)
	}
	return nil
}
