package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID generation
	"github.com/shopspring/decimal" // Exact decimal amounts
	"gorm.io/gorm"                  // GORM ORM library
)

func init() {
	// Amounts go over the wire as JSON numbers (12.5), not strings ("12.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction Model
type Transaction struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`          // Primary key (UUID)
	UserID      string          `gorm:"type:varchar(36);index;not null" json:"user_id"` // Owner, foreign key to User
	CategoryID  string          `gorm:"size:100;index;not null" json:"category_id"`     // Category reference, not validated
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`      // Signed amount
	Type        TransactionType `gorm:"size:16;not null" json:"type"`                   // income or expense
	Description string          `gorm:"size:500" json:"description"`                    // Optional free text
	Date        Date            `gorm:"index;not null" json:"date"`                     // Calendar date of the transaction
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`               // Creation timestamp
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`               // Last update timestamp
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
