// Package dynamo implements the ledger repository on a single DynamoDB table.
//
// Item layout:
//
//	PK=EMAIL#<email>  SK=EMAIL        email uniqueness guard pointing at the user id
//	PK=USER#<id>      SK=PROFILE      user profile
//	PK=USER#<id>      SK=TXN#<txnID>  one transaction
package dynamo

import (
	"github.com/piresc/bahikhata/internal/pkg/database"
)

const (
	userPrefix        = "USER#"
	emailPrefix       = "EMAIL#"
	transactionPrefix = "TXN#"
	profileSortKey    = "PROFILE"
	emailSortKey      = "EMAIL"
)

// LedgerRepo stores users and transactions in DynamoDB
type LedgerRepo struct {
	client database.DynamoDBAPI
	table  string
}

// NewLedgerRepo creates a new DynamoDB ledger repository
func NewLedgerRepo(client *database.DynamoDBClient) *LedgerRepo {
	return &LedgerRepo{
		client: client.API,
		table:  client.Table,
	}
}
