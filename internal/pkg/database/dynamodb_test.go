package database

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableAPI records table management calls; item operations are not used here
type tableAPI struct {
	DynamoDBAPI
	createErr   error
	describeErr error
	created     *dynamodb.CreateTableInput
}

func (f *tableAPI) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = in
	return &dynamodb.CreateTableOutput{}, f.createErr
}

func (f *tableAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func TestDynamoDBClient_EnsureTable(t *testing.T) {
	api := &tableAPI{}
	client := &DynamoDBClient{API: api, Table: "ledger"}

	require.NoError(t, client.EnsureTable(context.Background(), 0))
	require.NotNil(t, api.created)
	assert.Equal(t, "ledger", aws.ToString(api.created.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, api.created.BillingMode)
	assert.Len(t, api.created.KeySchema, 2)
}

func TestDynamoDBClient_EnsureTable_AlreadyExists(t *testing.T) {
	api := &tableAPI{createErr: &types.ResourceInUseException{Message: aws.String("exists")}}
	client := &DynamoDBClient{API: api, Table: "ledger"}

	assert.NoError(t, client.EnsureTable(context.Background(), 0))
}

func TestDynamoDBClient_EnsureTable_Error(t *testing.T) {
	api := &tableAPI{createErr: errors.New("access denied")}
	client := &DynamoDBClient{API: api, Table: "ledger"}

	err := client.EnsureTable(context.Background(), 0)
	assert.ErrorContains(t, err, "access denied")
}

func TestDynamoDBClient_Ping(t *testing.T) {
	client := &DynamoDBClient{API: &tableAPI{}, Table: "ledger"}
	assert.NoError(t, client.Ping(context.Background()))

	client = &DynamoDBClient{API: &tableAPI{describeErr: errors.New("no table")}, Table: "ledger"}
	assert.Error(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}
