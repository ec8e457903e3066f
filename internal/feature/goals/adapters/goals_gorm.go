// Package adapters persists portfolio goals with GORM.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_ledger/internal/feature/goals/domain/entity"
	"portfolio_ledger/internal/feature/goals/usecase"
)

// GoalsModel is the GORM model for the portfolio_goals table.
type GoalsModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	OwnerID          uint   `gorm:"uniqueIndex;not null"`
	TotalBudget      *float64
	USBudgetPercent  *float64 `gorm:"column:us_budget_percent"`
	IntBudgetPercent *float64
	USStocksTarget   *int `gorm:"column:us_stocks_target"`
	USETFsTarget     *int `gorm:"column:us_etfs_target"`
	IntStocksTarget  *int
	IntETFsTarget    *int `gorm:"column:int_etfs_target"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (GoalsModel) TableName() string {
	return "portfolio_goals"
}

func (m *GoalsModel) ToEntity() entity.Goals {
	return entity.Goals{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		TotalBudget:      m.TotalBudget,
		USBudgetPercent:  m.USBudgetPercent,
		IntBudgetPercent: m.IntBudgetPercent,
		USStocksTarget:   m.USStocksTarget,
		USETFsTarget:     m.USETFsTarget,
		IntStocksTarget:  m.IntStocksTarget,
		IntETFsTarget:    m.IntETFsTarget,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromEntity(g *entity.Goals) *GoalsModel {
	return &GoalsModel{
		ID:               g.ID,
		OwnerID:          g.OwnerID,
		TotalBudget:      g.TotalBudget,
		USBudgetPercent:  g.USBudgetPercent,
		IntBudgetPercent: g.IntBudgetPercent,
		USStocksTarget:   g.USStocksTarget,
		USETFsTarget:     g.USETFsTarget,
		IntStocksTarget:  g.IntStocksTarget,
		IntETFsTarget:    g.IntETFsTarget,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

type goalsGorm struct {
	db *gorm.DB
}

var _ usecase.GoalsRepository = (*goalsGorm)(nil)

func NewGoalsGorm(db *gorm.DB) *goalsGorm {
	return &goalsGorm{db: db}
}

func (r *goalsGorm) FindByOwner(ctx context.Context, ownerID uint) (*entity.Goals, error) {
	var m GoalsModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrGoalsNotFound
		}
		return nil, err
	}
	g := m.ToEntity()
	return &g, nil
}

// Upsert はowner_idの一意制約で衝突した場合に値を上書きします。IDと作成日時は保持されます。
func (r *goalsGorm) Upsert(ctx context.Context, g *entity.Goals) error {
	m := fromEntity(g)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_budget", "us_budget_percent", "int_budget_percent",
			"us_stocks_target", "us_etfs_target", "int_stocks_target", "int_etfs_target",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	saved, err := r.FindByOwner(ctx, g.OwnerID)
	if err != nil {
		return err
	}
	*g = *saved
	return nil
}

// Models はAutoMigrate対象のモデルを返します。
func Models() []any {
	return []any{&GoalsModel{}}
}
