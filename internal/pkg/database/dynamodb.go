package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the document backend
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Key attribute names of the single ledger table
const (
	DynamoPartitionKey = "PK"
	DynamoSortKey      = "SK"
)

// DynamoDBClient wraps the SDK client with the configured table name
type DynamoDBClient struct {
	API   DynamoDBAPI
	Table string
}

// NewDynamoDBClient creates a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint points the client at DynamoDB Local.
func NewDynamoDBClient(ctx context.Context, config models.DatabaseConfig) (*DynamoDBClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.DynamoRegion))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(config.DynamoEndpoint)
		}
	})

	return &DynamoDBClient{API: client, Table: config.DynamoTable}, nil
}

// Ping checks that the ledger table is reachable
func (d *DynamoDBClient) Ping(ctx context.Context) error {
	_, err := d.API.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.Table),
	})
	return err
}

// Close is a no-op; the SDK client holds no connections that need releasing
func (d *DynamoDBClient) Close() error {
	return nil
}

// EnsureTable creates the ledger table with on-demand billing when it does not exist
func (d *DynamoDBClient) EnsureTable(ctx context.Context, wait time.Duration) error {
	_, err := d.API.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(d.Table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(DynamoPartitionKey), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(DynamoSortKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(DynamoPartitionKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(DynamoSortKey), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		var alreadyExistsErr *types.ResourceInUseException
		if errors.As(err, &alreadyExistsErr) {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", d.Table, err)
	}

	if wait <= 0 {
		return nil
	}

	waiter := dynamodb.NewTableExistsWaiter(d.API)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.Table)}, wait); err != nil {
		return fmt.Errorf("failed to wait for table creation: %w", err)
	}
	return nil
}
