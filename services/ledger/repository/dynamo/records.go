package dynamo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/shopspring/decimal"
)

type emailRecord struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	UserID string `dynamodbav:"userId"`
}

type userRecord struct {
	PK           string    `dynamodbav:"PK"`
	SK           string    `dynamodbav:"SK"`
	ID           string    `dynamodbav:"id"`
	Email        string    `dynamodbav:"email"`
	PasswordHash string    `dynamodbav:"passwordHash"`
	CreatedAt    time.Time `dynamodbav:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updatedAt"`
}

// transactionRecord keeps the amount as a decimal string so no precision is lost
type transactionRecord struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ID          string    `dynamodbav:"id"`
	UserID      string    `dynamodbav:"userId"`
	Amount      string    `dynamodbav:"amount"`
	Type        string    `dynamodbav:"type"`
	Category    string    `dynamodbav:"category"`
	Description string    `dynamodbav:"description"`
	Date        string    `dynamodbav:"date"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt"`
}

func userKey(id uuid.UUID) string {
	return userPrefix + id.String()
}

func emailKey(email string) string {
	return emailPrefix + email
}

func transactionKey(id uuid.UUID) string {
	return transactionPrefix + id.String()
}

func newUserRecord(u *models.User) userRecord {
	return userRecord{
		PK:           userKey(u.ID),
		SK:           profileSortKey,
		ID:           u.ID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toModel() (*models.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", r.ID, err)
	}
	return &models.User{
		ID:           id,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func newTransactionRecord(t *models.Transaction) transactionRecord {
	return transactionRecord{
		PK:          userKey(t.UserID),
		SK:          transactionKey(t.ID),
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Amount:      t.Amount.String(),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(models.DateLayout),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r transactionRecord) toModel() (*models.Transaction, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt transaction id %q: %w", r.ID, err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", r.UserID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q: %w", r.Amount, err)
	}
	date, err := time.Parse(models.DateLayout, r.Date)
	if err != nil {
		return nil, fmt.Errorf("corrupt date %q: %w", r.Date, err)
	}

	return &models.Transaction{
		ID:          id,
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionType(r.Type),
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
