package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// CreateUser writes the profile and the email guard in one transaction so an
// email can only ever be claimed once
func (r *LedgerRepo) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	profile, err := attributevalue.MarshalMap(newUserRecord(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	guard, err := attributevalue.MarshalMap(emailRecord{
		PK:     emailKey(user.Email),
		SK:     emailSortKey,
		UserID: user.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email guard: %w", err)
	}

	notExists := aws.String("attribute_not_exists(" + database.DynamoPartitionKey + ")")
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(r.table), Item: guard, ConditionExpression: notExists}},
			{Put: &types.Put{TableName: aws.String(r.table), Item: profile, ConditionExpression: notExists}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return fmt.Errorf("email %s: %w", user.Email, models.ErrConflict)
		}
		return fmt.Errorf("TransactWriteItems operation failed: %w", err)
	}
	return nil
}

// GetUserByEmail resolves the email guard and loads the profile it points at
func (r *LedgerRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	item, err := r.getItem(ctx, emailKey(email), emailSortKey)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}

	var guard emailRecord
	if err := attributevalue.UnmarshalMap(item, &guard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email guard: %w", err)
	}
	id, err := uuid.Parse(guard.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", guard.UserID, err)
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID loads a user profile
func (r *LedgerRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	item, err := r.getItem(ctx, userKey(id), profileSortKey)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}

	var record userRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return record.toModel()
}

func (r *LedgerRepo) getItem(ctx context.Context, pk, sk string) (map[string]types.AttributeValue, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			database.DynamoPartitionKey: &types.AttributeValueMemberS{Value: pk},
			database.DynamoSortKey:      &types.AttributeValueMemberS{Value: sk},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem operation failed: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}
	return result.Item, nil
}
