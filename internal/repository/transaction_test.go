package repository

import (
	"context"
	"testing"
	"time"

	"finflow/internal/db/dbtest"
	"finflow/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func typePtr(t domain.TransactionType) *domain.TransactionType { return &t }

func datePtr(s string) *domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func input(category, amount string, typ domain.TransactionType, date string) TransactionInput {
	return TransactionInput{
		CategoryID: strPtr(category),
		Amount:     amountPtr(amount),
		Type:       typePtr(typ),
		Date:       datePtr(date),
	}
}

// TransactionRepoTestSuite exercises ownership scoping and filtering
type TransactionRepoTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  *TransactionRepository
	ctx   context.Context
	alice *domain.User
	bob   *domain.User
}

// SetupTest runs before each test
func (suite *TransactionRepoTestSuite) SetupTest() {
	suite.db = dbtest.Open(suite.T())
	suite.repo = NewTransactionRepository(suite.db)
	suite.ctx = context.Background()

	users := NewUserRepository(suite.db)
	suite.alice = &domain.User{Email: "alice@example.com", PasswordHash: "x"}
	suite.bob = &domain.User{Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(suite.T(), users.Create(suite.ctx, suite.alice))
	require.NoError(suite.T(), users.Create(suite.ctx, suite.bob))
}

func (suite *TransactionRepoTestSuite) create(userID string, in TransactionInput) *domain.Transaction {
	tx, err := suite.repo.Create(suite.ctx, userID, in)
	require.NoError(suite.T(), err)
	return tx
}

func (suite *TransactionRepoTestSuite) TestCreateThenGetRoundTrip() {
	in := input("food", "12.50", domain.TransactionExpense, "2024-01-01")
	in.Description = strPtr("Lunch")

	created := suite.create(suite.alice.ID, in)
	assert.NotEmpty(suite.T(), created.ID)
	assert.False(suite.T(), created.CreatedAt.IsZero())

	got, err := suite.repo.Get(suite.ctx, created.ID, suite.alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.ID, got.ID)
	assert.Equal(suite.T(), suite.alice.ID, got.UserID)
	assert.Equal(suite.T(), "food", got.CategoryID)
	assert.True(suite.T(), decimal.RequireFromString("12.50").Equal(got.Amount), "amount %s", got.Amount)
	assert.Equal(suite.T(), domain.TransactionExpense, got.Type)
	assert.Equal(suite.T(), "Lunch", got.Description)
	assert.Equal(suite.T(), "2024-01-01", got.Date.String())
	assert.False(suite.T(), got.CreatedAt.IsZero())
}

func (suite *TransactionRepoTestSuite) TestCreateKeepsNegativeAmounts() {
	created := suite.create(suite.alice.ID, input("refund", "-3.25", domain.TransactionIncome, "2024-01-02"))

	got, err := suite.repo.Get(suite.ctx, created.ID, suite.alice.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.RequireFromString("-3.25").Equal(got.Amount))
}

func (suite *TransactionRepoTestSuite) TestCreateRequiresFields() {
	full := input("food", "1", domain.TransactionExpense, "2024-01-01")
	cases := map[string]func(in *TransactionInput){
		"category":       func(in *TransactionInput) { in.CategoryID = nil },
		"empty category": func(in *TransactionInput) { in.CategoryID = strPtr("") },
		"amount":         func(in *TransactionInput) { in.Amount = nil },
		"type":           func(in *TransactionInput) { in.Type = nil },
		"date":           func(in *TransactionInput) { in.Date = nil },
	}
	for name, mutate := range cases {
		in := full
		mutate(&in)
		_, err := suite.repo.Create(suite.ctx, suite.alice.ID, in)
		assert.True(suite.T(), domain.IsKind(err, domain.KindInvalidInput), "missing %s: %v", name, err)
	}

	bad := input("food", "1", domain.TransactionType("transfer"), "2024-01-01")
	_, err := suite.repo.Create(suite.ctx, suite.alice.ID, bad)
	assert.True(suite.T(), domain.IsKind(err, domain.KindInvalidInput))

	all, err := suite.repo.List(suite.ctx, suite.alice.ID, TransactionFilter{})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), all, "rejected input must not be stored")
}

func (suite *TransactionRepoTestSuite) TestAmountMustFitColumn() {
	for _, amount := range []string{"12.345", "0.001", "1000000000000", "-1000000000000", "12345678901234567.89"} {
		_, err := suite.repo.Create(suite.ctx, suite.alice.ID, input("food", amount, domain.TransactionExpense, "2024-01-01"))
		assert.True(suite.T(), domain.IsKind(err, domain.KindInvalidInput), "amount %s: %v", amount, err)
	}

	tx := suite.create(suite.alice.ID, input("food", "999999999999.99", domain.TransactionIncome, "2024-01-01"))
	_, err := suite.repo.Update(suite.ctx, tx.ID, suite.alice.ID, TransactionInput{Amount: amountPtr("1.005")})
	assert.True(suite.T(), domain.IsKind(err, domain.KindInvalidInput))

	for _, amount := range []string{"12.500", "-999999999999.99", "0"} {
		created := suite.create(suite.alice.ID, input("food", amount, domain.TransactionExpense, "2024-01-01"))
		got, err := suite.repo.Get(suite.ctx, created.ID, suite.alice.ID)
		require.NoError(suite.T(), err)
		assert.True(suite.T(), created.Amount.Equal(got.Amount), "amount %s came back as %s", created.Amount, got.Amount)
	}
}

func (suite *TransactionRepoTestSuite) TestOtherUserSeesNotFound() {
	tx := suite.create(suite.alice.ID, input("food", "12.50", domain.TransactionExpense, "2024-01-01"))

	_, err := suite.repo.Get(suite.ctx, tx.ID, suite.bob.ID)
	assert.True(suite.T(), domain.IsKind(err, domain.KindNotFound))

	_, err = suite.repo.Update(suite.ctx, tx.ID, suite.bob.ID, TransactionInput{Amount: amountPtr("99")})
	assert.True(suite.T(), domain.IsKind(err, domain.KindNotFound))

	err = suite.repo.Delete(suite.ctx, tx.ID, suite.bob.ID)
	assert.True(suite.T(), domain.IsKind(err, domain.KindNotFound))

	// Alice's row is untouched
	got, err := suite.repo.Get(suite.ctx, tx.ID, suite.alice.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.RequireFromString("12.50").Equal(got.Amount))
}

func (suite *TransactionRepoTestSuite) TestMissingAndForeignRowsLookTheSame() {
	tx := suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-01"))

	_, foreign := suite.repo.Get(suite.ctx, tx.ID, suite.bob.ID)
	_, missing := suite.repo.Get(suite.ctx, "does-not-exist", suite.bob.ID)
	assert.Equal(suite.T(), missing, foreign)
}

func (suite *TransactionRepoTestSuite) TestListIsScopedAndOrdered() {
	suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-02"))
	suite.create(suite.alice.ID, input("rent", "2", domain.TransactionExpense, "2024-03-01"))
	suite.create(suite.alice.ID, input("salary", "3", domain.TransactionIncome, "2024-02-15"))
	suite.create(suite.bob.ID, input("food", "4", domain.TransactionExpense, "2024-01-05"))

	txs, err := suite.repo.List(suite.ctx, suite.alice.ID, TransactionFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 3)

	dates := []string{txs[0].Date.String(), txs[1].Date.String(), txs[2].Date.String()}
	assert.Equal(suite.T(), []string{"2024-03-01", "2024-02-15", "2024-01-02"}, dates)
	for _, tx := range txs {
		assert.Equal(suite.T(), suite.alice.ID, tx.UserID)
	}
}

func (suite *TransactionRepoTestSuite) TestListFilters() {
	suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-02"))
	suite.create(suite.alice.ID, input("food", "2", domain.TransactionExpense, "2024-02-10"))
	suite.create(suite.alice.ID, input("rent", "3", domain.TransactionExpense, "2024-02-01"))
	suite.create(suite.alice.ID, input("food", "4", domain.TransactionExpense, "2024-03-31"))

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{"none", TransactionFilter{}, []string{"2024-03-31", "2024-02-10", "2024-02-01", "2024-01-02"}},
		{"category", TransactionFilter{CategoryID: "food"}, []string{"2024-03-31", "2024-02-10", "2024-01-02"}},
		{"range inclusive", TransactionFilter{StartDate: datePtr("2024-02-01"), EndDate: datePtr("2024-03-31")}, []string{"2024-03-31", "2024-02-10", "2024-02-01"}},
		{"start only", TransactionFilter{StartDate: datePtr("2024-02-05")}, []string{"2024-03-31", "2024-02-10"}},
		{"end only", TransactionFilter{EndDate: datePtr("2024-02-01")}, []string{"2024-02-01", "2024-01-02"}},
		{"category and range", TransactionFilter{CategoryID: "food", StartDate: datePtr("2024-02-01"), EndDate: datePtr("2024-02-28")}, []string{"2024-02-10"}},
		{"no match", TransactionFilter{CategoryID: "travel"}, []string{}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			txs, err := suite.repo.List(suite.ctx, suite.alice.ID, tt.filter)
			require.NoError(suite.T(), err)
			got := []string{}
			for _, tx := range txs {
				got = append(got, tx.Date.String())
			}
			assert.Equal(suite.T(), tt.want, got)
		})
	}
}

func (suite *TransactionRepoTestSuite) TestFilterValuesAreBound() {
	suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-02"))
	suite.create(suite.bob.ID, input("food", "2", domain.TransactionExpense, "2024-01-03"))

	txs, err := suite.repo.List(suite.ctx, suite.alice.ID, TransactionFilter{CategoryID: "food' OR '1'='1"})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), txs)

	stmt := suite.db.Session(&gorm.Session{DryRun: true}).Model(&domain.Transaction{})
	stmt = TransactionFilter{CategoryID: "food", StartDate: datePtr("2024-01-01")}.Apply(stmt).Find(&[]domain.Transaction{})
	assert.NotContains(suite.T(), stmt.Statement.SQL.String(), "food")
	assert.Len(suite.T(), stmt.Statement.Vars, 2)
}

func (suite *TransactionRepoTestSuite) TestUpdatePartialAndRefreshesUpdatedAt() {
	tx := suite.create(suite.alice.ID, input("food", "12.50", domain.TransactionExpense, "2024-01-01"))
	later := tx.UpdatedAt.Add(time.Hour)
	suite.repo.now = func() time.Time { return later }

	updated, err := suite.repo.Update(suite.ctx, tx.ID, suite.alice.ID, TransactionInput{
		Amount:      amountPtr("15"),
		Description: strPtr("Dinner"),
	})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), updated.UpdatedAt.Equal(later))

	got, err := suite.repo.Get(suite.ctx, tx.ID, suite.alice.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(15).Equal(got.Amount))
	assert.Equal(suite.T(), "Dinner", got.Description)
	assert.Equal(suite.T(), "food", got.CategoryID, "unsupplied fields keep their value")
	assert.Equal(suite.T(), "2024-01-01", got.Date.String())
	assert.True(suite.T(), got.UpdatedAt.After(tx.UpdatedAt))
}

func (suite *TransactionRepoTestSuite) TestUpdateValidatesSuppliedFields() {
	tx := suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-01"))

	_, err := suite.repo.Update(suite.ctx, tx.ID, suite.alice.ID, TransactionInput{Type: typePtr("gift")})
	assert.True(suite.T(), domain.IsKind(err, domain.KindInvalidInput))
}

func (suite *TransactionRepoTestSuite) TestDelete() {
	tx := suite.create(suite.alice.ID, input("food", "1", domain.TransactionExpense, "2024-01-01"))

	require.NoError(suite.T(), suite.repo.Delete(suite.ctx, tx.ID, suite.alice.ID))

	_, err := suite.repo.Get(suite.ctx, tx.ID, suite.alice.ID)
	assert.True(suite.T(), domain.IsKind(err, domain.KindNotFound))

	err = suite.repo.Delete(suite.ctx, tx.ID, suite.alice.ID)
	assert.True(suite.T(), domain.IsKind(err, domain.KindNotFound))
}

// Test suite runner
func TestTransactionRepoSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepoTestSuite))
}
