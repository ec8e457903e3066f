package adapters

import (
	"time"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
)

// TransactionModel is the GORM model for the transactions table.
// Date is stored as "2006-01-02" so range filters compare lexically.
type TransactionModel struct {
	ID               string  `gorm:"primaryKey;size:36"`
	OwnerID          uint    `gorm:"index:idx_txn_owner_stock_date,priority:1;not null"`
	PortfolioStockID string  `gorm:"index:idx_txn_owner_stock_date,priority:2;size:36;not null"`
	Date             string  `gorm:"index:idx_txn_owner_stock_date,priority:3;size:10;not null"`
	Action           string  `gorm:"size:8;not null"`
	Signal           *string `gorm:"size:16"`
	Price            *float64
	Investment       *float64
	Quantity         *float64
	PlayShares       *float64
	HoldShares       *float64
	LBD              *float64 `gorm:"column:lbd"`
	TP               *float64 `gorm:"column:tp"`
	SharesType       *string  `gorm:"size:8"`
	CompletedTxnID   *string  `gorm:"size:36"`
	Profit           *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a row back into the domain type. A malformed date yields the zero time.
func (m *TransactionModel) ToEntity() entity.Transaction {
	date, _ := time.Parse(entity.DateLayout, m.Date)
	t := entity.Transaction{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		PortfolioStockID: m.PortfolioStockID,
		Date:             date,
		Action:           entity.Action(m.Action),
		Price:            m.Price,
		Investment:       m.Investment,
		Quantity:         m.Quantity,
		PlayShares:       m.PlayShares,
		HoldShares:       m.HoldShares,
		LBD:              m.LBD,
		TP:               m.TP,
		CompletedTxnID:   m.CompletedTxnID,
		Profit:           m.Profit,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.Signal != nil {
		s := entity.Signal(*m.Signal)
		t.Signal = &s
	}
	if m.SharesType != nil {
		st := entity.SharesType(*m.SharesType)
		t.SharesType = &st
	}
	return t
}

func fromEntity(t *entity.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:               t.ID,
		OwnerID:          t.OwnerID,
		PortfolioStockID: t.PortfolioStockID,
		Date:             t.Date.Format(entity.DateLayout),
		Action:           string(t.Action),
		Price:            t.Price,
		Investment:       t.Investment,
		Quantity:         t.Quantity,
		PlayShares:       t.PlayShares,
		HoldShares:       t.HoldShares,
		LBD:              t.LBD,
		TP:               t.TP,
		CompletedTxnID:   t.CompletedTxnID,
		Profit:           t.Profit,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Signal != nil {
		s := string(*t.Signal)
		m.Signal = &s
	}
	if t.SharesType != nil {
		st := string(*t.SharesType)
		m.SharesType = &st
	}
	return m
}

// Models lists the tables owned by the transactions feature for AutoMigrate.
func Models() []any {
	return []any{&TransactionModel{}}
}
