package adapters

import (
	"time"

	"portfolio_ledger/internal/feature/stocks/domain/entity"
)

// StockModel is the GORM model for the portfolio_stocks table.
type StockModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	OwnerID   uint    `gorm:"index;not null"`
	Symbol    string  `gorm:"size:32;not null"`
	Type      string  `gorm:"size:16;not null"`
	Region    string  `gorm:"size:8;not null"`
	Name      *string `gorm:"size:255"`
	PDP       *float64
	PLR       *float64
	Budget    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StockModel) TableName() string {
	return "portfolio_stocks"
}

func (m *StockModel) ToEntity() entity.Stock {
	return entity.Stock{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Symbol:    m.Symbol,
		Type:      entity.StockType(m.Type),
		Region:    entity.Region(m.Region),
		Name:      m.Name,
		PDP:       m.PDP,
		PLR:       m.PLR,
		Budget:    m.Budget,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromEntity(s *entity.Stock) *StockModel {
	return &StockModel{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Symbol:    s.Symbol,
		Type:      string(s.Type),
		Region:    string(s.Region),
		Name:      s.Name,
		PDP:       s.PDP,
		PLR:       s.PLR,
		Budget:    s.Budget,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Models はAutoMigrate対象のモデルを返します。
func Models() []any {
	return []any{&StockModel{}}
}
