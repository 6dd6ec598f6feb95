package repository

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"time"    // updated_at refresh

	"finflow/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal amounts
	"gorm.io/gorm"                  // GORM ORM library
)

const (
	msgTransactionNotFound = "Transaction not found"
	maxCategoryIDLen       = 100 // Column sizes on domain.Transaction
	maxDescriptionLen      = 500
	amountScale            = 2
)

// maxAmount is the exclusive bound on |amount| that fits decimal(14,2)
var maxAmount = decimal.New(1, 12)

// TransactionInput carries the client-settable fields of a transaction.
// A nil field was not supplied. There is deliberately no user_id field: the
// owner always comes from the verified token.
type TransactionInput struct {
	CategoryID  *string                 `json:"category_id"`
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *domain.TransactionType `json:"type"`
	Description *string                 `json:"description"`
	Date        *domain.Date            `json:"date"`
}

// validateComplete requires every field a new transaction needs
func (in TransactionInput) validateComplete() error {
	if in.CategoryID == nil || *in.CategoryID == "" ||
		in.Amount == nil ||
		in.Type == nil || *in.Type == "" ||
		in.Date == nil || in.Date.IsZero() {
		return domain.InvalidInput("Missing required fields")
	}
	return in.validateSupplied()
}

// validateSupplied checks only the fields that are present
func (in TransactionInput) validateSupplied() error {
	if in.CategoryID != nil && *in.CategoryID == "" {
		return domain.InvalidInput("category_id must not be empty")
	}
	if in.CategoryID != nil && len(*in.CategoryID) > maxCategoryIDLen {
		return domain.InvalidInput("category_id is too long")
	}
	if in.Amount != nil && !in.Amount.Equal(in.Amount.Round(amountScale)) {
		return domain.InvalidInput("amount must have at most 2 decimal places")
	}
	if in.Amount != nil && in.Amount.Abs().GreaterThanOrEqual(maxAmount) {
		return domain.InvalidInput("amount is too large")
	}
	if in.Description != nil && len(*in.Description) > maxDescriptionLen {
		return domain.InvalidInput("description is too long")
	}
	if in.Type != nil && !in.Type.Valid() {
		return domain.InvalidInput("type must be income or expense")
	}
	if in.Date != nil && in.Date.IsZero() {
		return domain.InvalidInput("date must not be empty")
	}
	return nil
}

// apply copies supplied fields onto t and returns the matching column updates
func (in TransactionInput) apply(t *domain.Transaction) map[string]any {
	updates := map[string]any{}
	if in.CategoryID != nil {
		t.CategoryID = *in.CategoryID
		updates["category_id"] = t.CategoryID
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
		updates["amount"] = t.Amount
	}
	if in.Type != nil {
		t.Type = *in.Type
		updates["type"] = t.Type
	}
	if in.Description != nil {
		t.Description = *in.Description
		updates["description"] = t.Description
	}
	if in.Date != nil {
		t.Date = *in.Date
		updates["date"] = t.Date
	}
	return updates
}

// TransactionFilter holds the optional list filters. Zero values mean "not set".
type TransactionFilter struct {
	CategoryID string
	StartDate  *domain.Date // inclusive
	EndDate    *domain.Date // inclusive
}

// Apply appends one bound predicate per present filter to q. Filter values
// only ever travel as bind parameters.
func (f TransactionFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID) // Filter by category
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate) // Filter by start date
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate) // Filter by end date
	}
	return q
}

// Key identifies the filter combination, for cache keys
func (f TransactionFilter) Key() string {
	key := "category=" + f.CategoryID
	if f.StartDate != nil {
		key += ":from=" + f.StartDate.String()
	} else {
		key += ":from="
	}
	if f.EndDate != nil {
		key += ":to=" + f.EndDate.String()
	} else {
		key += ":to="
	}
	return key
}

// TransactionRepository runs ownership-scoped queries on the transactions table.
// Every method takes the owner's user ID and never touches another user's rows.
type TransactionRepository struct {
	db  *gorm.DB         // Connection pool, owned by the caller
	now func() time.Time // Clock for updated_at
}

// NewTransactionRepository creates a TransactionRepository on top of db
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db, now: time.Now}
}

// owned scopes a query to the given transaction of the given user
func owned(id, userID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ? AND user_id = ?", id, userID)
	}
}

// Create inserts a transaction owned by userID
func (r *TransactionRepository) Create(ctx context.Context, userID string, in TransactionInput) (*domain.Transaction, error) {
	if err := in.validateComplete(); err != nil {
		return nil, err
	}
	t := &domain.Transaction{UserID: userID}
	in.apply(t)
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, domain.Internal("Failed to create transaction", err)
	}
	return t, nil
}

// List returns the user's transactions matching filter, newest date first
func (r *TransactionRepository) List(ctx context.Context, userID string, filter TransactionFilter) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&domain.Transaction{}).Where("user_id = ?", userID)
	q = filter.Apply(q)
	txs := []domain.Transaction{}
	if err := q.Order("date desc").Order("created_at desc").Find(&txs).Error; err != nil {
		return nil, domain.Internal("Failed to fetch transactions", err)
	}
	return txs, nil
}

// Get returns one transaction if and only if userID owns it
func (r *TransactionRepository) Get(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.WithContext(ctx).Scopes(owned(id, userID)).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound(msgTransactionNotFound)
	}
	if err != nil {
		return nil, domain.Internal("Failed to fetch transaction", err)
	}
	return &t, nil
}

// Update changes the supplied fields of a transaction the user owns and
// refreshes updated_at.
func (r *TransactionRepository) Update(ctx context.Context, id, userID string, in TransactionInput) (*domain.Transaction, error) {
	if err := in.validateSupplied(); err != nil {
		return nil, err
	}
	t, err := r.Get(ctx, id, userID) // Ownership re-check before writing
	if err != nil {
		return nil, err
	}
	updates := in.apply(t)
	t.UpdatedAt = r.now()
	updates["updated_at"] = t.UpdatedAt
	res := r.db.WithContext(ctx).Model(&domain.Transaction{}).Scopes(owned(id, userID)).Updates(updates)
	if res.Error != nil {
		return nil, domain.Internal("Failed to update transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound(msgTransactionNotFound) // Deleted between check and write
	}
	return t, nil
}

// Delete removes a transaction the user owns
func (r *TransactionRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.Get(ctx, id, userID); err != nil { // Ownership re-check before writing
		return err
	}
	res := r.db.WithContext(ctx).Scopes(owned(id, userID)).Delete(&domain.Transaction{})
	if res.Error != nil {
		return domain.Internal("Failed to delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(msgTransactionNotFound)
	}
	return nil
}
