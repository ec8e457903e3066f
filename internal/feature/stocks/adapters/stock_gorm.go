// Package adapters persists portfolio stocks with GORM.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/stocks/usecase"
	txadapters "portfolio_ledger/internal/feature/transactions/adapters"
)

type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockGorm は銘柄リポジトリを生成します。
func NewStockGorm(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

func (r *stockGorm) Create(ctx context.Context, s *entity.Stock) error {
	m := fromEntity(s)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*s = m.ToEntity()
	return nil
}

func (r *stockGorm) FindByID(ctx context.Context, ownerID uint, id string) (*entity.Stock, error) {
	var m StockModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	s := m.ToEntity()
	return &s, nil
}

func (r *stockGorm) List(ctx context.Context, ownerID uint) ([]entity.Stock, error) {
	var models []StockModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("symbol ASC, created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Stock, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out, nil
}

// Update は所有者が一致する行だけを更新します。
func (r *stockGorm) Update(ctx context.Context, s *entity.Stock) error {
	m := fromEntity(s)
	result := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Where("id = ? AND owner_id = ?", s.ID, s.OwnerID).
		Select("Symbol", "Type", "Region", "Name", "PDP", "PLR", "Budget").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrStockNotFound
	}
	if err := r.db.WithContext(ctx).Where("id = ?", s.ID).First(m).Error; err != nil {
		return err
	}
	*s = m.ToEntity()
	return nil
}

// Delete removes the stock and every transaction under it atomically.
func (r *stockGorm) Delete(ctx context.Context, ownerID uint, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&StockModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrStockNotFound
		}
		return tx.Where("portfolio_stock_id = ? AND owner_id = ?", id, ownerID).
			Delete(&txadapters.TransactionModel{}).Error
	})
}
