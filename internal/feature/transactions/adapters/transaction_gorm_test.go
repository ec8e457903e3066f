package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/feature/transactions/usecase"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&TransactionModel{}), "failed to migrate table")
	return db
}

func fp(v float64) *float64 { return &v }

func newTxn(id string, owner uint, stock, date string, action entity.Action) *entity.Transaction {
	d, _ := time.Parse(entity.DateLayout, date)
	return &entity.Transaction{
		ID:               id,
		OwnerID:          owner,
		PortfolioStockID: stock,
		Date:             d,
		Action:           action,
		Price:            fp(100),
		Investment:       fp(1000),
	}
}

func seed(t *testing.T, repo *transactionGorm, txns ...*entity.Transaction) {
	t.Helper()
	for _, tx := range txns {
		require.NoError(t, repo.Create(context.Background(), tx))
	}
}

func ids(txns []entity.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestTransactionGorm_CreateAndFind(t *testing.T) {
	repo := NewTransactionGorm(setupTestDB(t))
	ctx := context.Background()

	sig := entity.SignalTakeProfit
	st := entity.SharesHold
	done := "buy-1"
	sell := newTxn("sell-1", 1, "s1", "2024-03-05", entity.ActionSell)
	sell.Investment = nil
	sell.Quantity = fp(4)
	sell.Signal = &sig
	sell.SharesType = &st
	sell.CompletedTxnID = &done
	sell.Profit = fp(12.5)
	seed(t, repo, sell)

	got, err := repo.FindByID(ctx, 1, "sell-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got.Date.Format(entity.DateLayout))
	assert.Equal(t, entity.ActionSell, got.Action)
	require.NotNil(t, got.Signal)
	assert.Equal(t, entity.SignalTakeProfit, *got.Signal)
	require.NotNil(t, got.SharesType)
	assert.Equal(t, entity.SharesHold, *got.SharesType)
	assert.Equal(t, "buy-1", *got.CompletedTxnID)
	assert.InDelta(t, 12.5, *got.Profit, 1e-9)
	assert.Nil(t, got.Investment)
	assert.Nil(t, got.LBD)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.FindByID(ctx, 2, "sell-1")
	assert.ErrorIs(t, err, usecase.ErrTransactionNotFound, "other owners cannot see it")
}

func TestTransactionGorm_List(t *testing.T) {
	repo := NewTransactionGorm(setupTestDB(t))
	seed(t, repo,
		newTxn("c", 1, "s1", "2024-03-01", entity.ActionBuy),
		newTxn("a", 1, "s1", "2024-01-01", entity.ActionBuy),
		newTxn("b", 1, "s2", "2024-02-01", entity.ActionDiv),
		newTxn("d", 1, "s1", "2024-04-01", entity.ActionSell),
		newTxn("x", 2, "s1", "2024-01-15", entity.ActionBuy),
	)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter usecase.Filter
		want   []string
	}{
		{"all of owner in date order", usecase.Filter{}, []string{"a", "b", "c", "d"}},
		{"by stock", usecase.Filter{StockID: "s1"}, []string{"a", "c", "d"}},
		{"by action", usecase.Filter{Action: entity.ActionBuy}, []string{"a", "c"}},
		{"inclusive range", usecase.Filter{From: &from, To: &to}, []string{"b", "c"}},
		{"from only", usecase.Filter{From: &to}, []string{"c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(context.Background(), 1, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestTransactionGorm_Update(t *testing.T) {
	repo := NewTransactionGorm(setupTestDB(t))
	ctx := context.Background()
	buy := newTxn("t1", 1, "s1", "2024-01-01", entity.ActionBuy)
	buy.Quantity, buy.LBD = fp(10), fp(90)
	seed(t, repo, buy)

	div := newTxn("t1", 1, "s1", "2024-01-10", entity.ActionDiv)
	div.Price = nil
	div.Investment = fp(5)
	require.NoError(t, repo.Update(ctx, div))

	got, err := repo.FindByID(ctx, 1, "t1")
	require.NoError(t, err)
	assert.Equal(t, entity.ActionDiv, got.Action)
	assert.Nil(t, got.Quantity, "cleared fields are written as NULL")
	assert.Nil(t, got.LBD)
	assert.Nil(t, got.Price)
	assert.InDelta(t, 5, *got.Investment, 1e-9)

	other := newTxn("t1", 2, "s1", "2024-01-10", entity.ActionBuy)
	assert.ErrorIs(t, repo.Update(ctx, other), usecase.ErrTransactionNotFound)
}

func TestTransactionGorm_Delete(t *testing.T) {
	repo := NewTransactionGorm(setupTestDB(t))
	ctx := context.Background()
	seed(t, repo, newTxn("t1", 1, "s1", "2024-01-01", entity.ActionBuy))

	assert.ErrorIs(t, repo.Delete(ctx, 2, "t1"), usecase.ErrTransactionNotFound)
	require.NoError(t, repo.Delete(ctx, 1, "t1"))
	assert.ErrorIs(t, repo.Delete(ctx, 1, "t1"), usecase.ErrTransactionNotFound)
}
