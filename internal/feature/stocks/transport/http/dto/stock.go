// Package dto はstocksフィーチャーのHTTPリクエスト/レスポンスを定義します。
package dto

import (
	"time"

	"portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/stocks/usecase"
	"portfolio_ledger/internal/shared/format"
)

// StockReq は POST /stocks と PUT /stocks/:id のボディです。
type StockReq struct {
	Symbol string   `json:"symbol" binding:"required"`
	Type   string   `json:"type" binding:"required"`
	Region string   `json:"region" binding:"required"`
	Name   *string  `json:"name"`
	PDP    *float64 `json:"pdp"`
	PLR    *float64 `json:"plr"`
	Budget *float64 `json:"budget"`
}

func (r StockReq) ToInput() usecase.StockInput {
	return usecase.StockInput{
		Symbol: r.Symbol,
		Type:   entity.StockType(r.Type),
		Region: entity.Region(r.Region),
		Name:   r.Name,
		PDP:    r.PDP,
		PLR:    r.PLR,
		Budget: r.Budget,
	}
}

type StockDisplay struct {
	Name   string `json:"name"`
	PDP    string `json:"pdp"`
	PLR    string `json:"plr"`
	Budget string `json:"budget"`
}

type StockRes struct {
	ID        string           `json:"id"`
	Symbol    string           `json:"symbol"`
	Type      entity.StockType `json:"type"`
	Region    entity.Region    `json:"region"`
	Name      *string          `json:"name"`
	PDP       *float64         `json:"pdp"`
	PLR       *float64         `json:"plr"`
	Budget    *float64         `json:"budget"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Display   StockDisplay     `json:"display"`
}

func FromEntity(s *entity.Stock) StockRes {
	return StockRes{
		ID:        s.ID,
		Symbol:    s.Symbol,
		Type:      s.Type,
		Region:    s.Region,
		Name:      s.Name,
		PDP:       s.PDP,
		PLR:       s.PLR,
		Budget:    s.Budget,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Display: StockDisplay{
			Name:   format.Text(s.Name, format.NotAvailable),
			PDP:    format.Percent(s.PDP),
			PLR:    format.Shares(s.PLR),
			Budget: format.Money(s.Budget),
		},
	}
}

func FromEntities(stocks []entity.Stock) []StockRes {
	out := make([]StockRes, len(stocks))
	for i := range stocks {
		out[i] = FromEntity(&stocks[i])
	}
	return out
}
