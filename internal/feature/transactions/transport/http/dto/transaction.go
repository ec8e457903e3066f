// Package dto defines the HTTP request and response bodies of the transactions feature.
package dto

import (
	"time"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/ledger"
	"portfolio_ledger/internal/shared/format"
)

// TransactionReq is the body of POST /stocks/:id/transactions and PUT /transactions/:txnId.
// Derived fields are never accepted from the client.
type TransactionReq struct {
	Date           string   `json:"date" binding:"required"`
	Action         string   `json:"action" binding:"required"`
	Signal         *string  `json:"signal"`
	Price          *float64 `json:"price"`
	Investment     *float64 `json:"investment"`
	Quantity       *float64 `json:"quantity"`
	SharesType     *string  `json:"sharesType"`
	CompletedTxnID *string  `json:"completedTxnId"`
}

// ToEntity converts the request. Only Sell keeps the client's quantity.
func (r TransactionReq) ToEntity(stockID string) (*entity.Transaction, error) {
	date, err := time.Parse(entity.DateLayout, r.Date)
	if err != nil {
		return nil, ledger.ValidationErrors{{Field: "date", Message: "date must be formatted as YYYY-MM-DD"}}
	}
	t := &entity.Transaction{
		PortfolioStockID: stockID,
		Date:             date,
		Action:           entity.Action(r.Action),
		Price:            r.Price,
		Investment:       r.Investment,
		CompletedTxnID:   r.CompletedTxnID,
	}
	if t.Action == entity.ActionSell {
		t.Quantity = r.Quantity
	}
	if r.Signal != nil && *r.Signal != "" {
		s := entity.Signal(*r.Signal)
		t.Signal = &s
	}
	if r.SharesType != nil && *r.SharesType != "" {
		st := entity.SharesType(*r.SharesType)
		t.SharesType = &st
	}
	return t, nil
}

// TransactionDisplay carries the human renderings; absent values are "N/A".
type TransactionDisplay struct {
	Signal     string `json:"signal"`
	Price      string `json:"price"`
	Investment string `json:"investment"`
	Quantity   string `json:"quantity"`
	PlayShares string `json:"playShares"`
	HoldShares string `json:"holdShares"`
	LBD        string `json:"lbd"`
	TP         string `json:"tp"`
	SharesType string `json:"sharesType"`
	Profit     string `json:"profit"`
}

type TransactionRes struct {
	ID               string             `json:"id"`
	PortfolioStockID string             `json:"portfolioStockId"`
	Date             string             `json:"date"`
	Action           entity.Action      `json:"action"`
	Signal           *entity.Signal     `json:"signal"`
	Price            *float64           `json:"price"`
	Investment       *float64           `json:"investment"`
	Quantity         *float64           `json:"quantity"`
	PlayShares       *float64           `json:"playShares"`
	HoldShares       *float64           `json:"holdShares"`
	LBD              *float64           `json:"lbd"`
	TP               *float64           `json:"tp"`
	SharesType       *entity.SharesType `json:"sharesType"`
	CompletedTxnID   *string            `json:"completedTxnId"`
	Profit           *float64           `json:"profit"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
	Display          TransactionDisplay `json:"display"`
}

func FromEntity(t *entity.Transaction) TransactionRes {
	return TransactionRes{
		ID:               t.ID,
		PortfolioStockID: t.PortfolioStockID,
		Date:             t.Date.Format(entity.DateLayout),
		Action:           t.Action,
		Signal:           t.Signal,
		Price:            t.Price,
		Investment:       t.Investment,
		Quantity:         t.Quantity,
		PlayShares:       t.PlayShares,
		HoldShares:       t.HoldShares,
		LBD:              t.LBD,
		TP:               t.TP,
		SharesType:       t.SharesType,
		CompletedTxnID:   t.CompletedTxnID,
		Profit:           t.Profit,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		Display: TransactionDisplay{
			Signal:     format.Text(t.Signal, format.NotAvailable),
			Price:      format.Money(t.Price),
			Investment: format.Money(t.Investment),
			Quantity:   format.Shares(t.Quantity),
			PlayShares: format.Shares(t.PlayShares),
			HoldShares: format.Shares(t.HoldShares),
			LBD:        format.Money(t.LBD),
			TP:         format.Money(t.TP),
			SharesType: format.Text(t.SharesType, format.NotAvailable),
			Profit:     format.Money(t.Profit),
		},
	}
}

func FromEntities(txns []entity.Transaction) []TransactionRes {
	out := make([]TransactionRes, len(txns))
	for i := range txns {
		out[i] = FromEntity(&txns[i])
	}
	return out
}

// ListParams are the query parameters of the listing endpoints.
type ListParams struct {
	Action    string `form:"action"`
	From      string `form:"from"`
	To        string `form:"to"`
	Limit     int    `form:"limit"`
	PageToken string `form:"page_token"`
	Sort      string `form:"sort"`
	Dir       string `form:"dir"`
}
