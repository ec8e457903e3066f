// Package adapters persists transactions with GORM.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/feature/transactions/usecase"
)

type transactionGorm struct {
	db *gorm.DB
}

var _ usecase.TransactionRepository = (*transactionGorm)(nil)

// NewTransactionGorm は取引リポジトリを生成します。
func NewTransactionGorm(db *gorm.DB) *transactionGorm {
	return &transactionGorm{db: db}
}

func (r *transactionGorm) Create(ctx context.Context, t *entity.Transaction) error {
	m := fromEntity(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*t = m.ToEntity()
	return nil
}

func (r *transactionGorm) FindByID(ctx context.Context, ownerID uint, id string) (*entity.Transaction, error) {
	var m TransactionModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTransactionNotFound
		}
		return nil, err
	}
	t := m.ToEntity()
	return &t, nil
}

// List returns the owner's transactions matching f, oldest first.
func (r *transactionGorm) List(ctx context.Context, ownerID uint, f usecase.Filter) ([]entity.Transaction, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if f.StockID != "" {
		q = q.Where("portfolio_stock_id = ?", f.StockID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", string(f.Action))
	}
	if f.From != nil {
		q = q.Where("date >= ?", f.From.Format(entity.DateLayout))
	}
	if f.To != nil {
		q = q.Where("date <= ?", f.To.Format(entity.DateLayout))
	}

	var models []TransactionModel
	if err := q.Order("date ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Transaction, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out, nil
}

// Update overwrites every mutable column, including the ones derivation cleared.
func (r *transactionGorm) Update(ctx context.Context, t *entity.Transaction) error {
	m := fromEntity(t)
	result := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("Date", "Action", "Signal", "Price", "Investment", "Quantity",
			"PlayShares", "HoldShares", "LBD", "TP", "SharesType", "CompletedTxnID", "Profit").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTransactionNotFound
	}
	if err := r.db.WithContext(ctx).Where("id = ?", t.ID).First(m).Error; err != nil {
		return err
	}
	*t = m.ToEntity()
	return nil
}

func (r *transactionGorm) Delete(ctx context.Context, ownerID uint, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTransactionNotFound
	}
	return nil
}
