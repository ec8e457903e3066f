// Package dto はgoalsフィーチャーのHTTPリクエスト/レスポンスを定義します。
package dto

import (
	"time"

	"portfolio_ledger/internal/feature/goals/domain/entity"
	"portfolio_ledger/internal/feature/goals/usecase"
	"portfolio_ledger/internal/shared/format"
)

// GoalsReq は PUT /goals のボディです。
type GoalsReq struct {
	TotalBudget      *float64 `json:"totalBudget"`
	USBudgetPercent  *float64 `json:"usBudgetPercent"`
	IntBudgetPercent *float64 `json:"intBudgetPercent"`
	USStocksTarget   *int     `json:"usStocksTarget"`
	USETFsTarget     *int     `json:"usEtfsTarget"`
	IntStocksTarget  *int     `json:"intStocksTarget"`
	IntETFsTarget    *int     `json:"intEtfsTarget"`
}

func (r GoalsReq) ToInput() usecase.GoalsInput {
	return usecase.GoalsInput{
		TotalBudget:      r.TotalBudget,
		USBudgetPercent:  r.USBudgetPercent,
		IntBudgetPercent: r.IntBudgetPercent,
		USStocksTarget:   r.USStocksTarget,
		USETFsTarget:     r.USETFsTarget,
		IntStocksTarget:  r.IntStocksTarget,
		IntETFsTarget:    r.IntETFsTarget,
	}
}

type GoalsDisplay struct {
	TotalBudget      string `json:"totalBudget"`
	USBudgetPercent  string `json:"usBudgetPercent"`
	IntBudgetPercent string `json:"intBudgetPercent"`
	USStocksTarget   string `json:"usStocksTarget"`
	USETFsTarget     string `json:"usEtfsTarget"`
	IntStocksTarget  string `json:"intStocksTarget"`
	IntETFsTarget    string `json:"intEtfsTarget"`
}

type GoalsRes struct {
	ID        string `json:"id"`
	GoalsReq
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Display   GoalsDisplay `json:"display"`
}

func FromEntity(g *entity.Goals) GoalsRes {
	return GoalsRes{
		ID: g.ID,
		GoalsReq: GoalsReq{
			TotalBudget:      g.TotalBudget,
			USBudgetPercent:  g.USBudgetPercent,
			IntBudgetPercent: g.IntBudgetPercent,
			USStocksTarget:   g.USStocksTarget,
			USETFsTarget:     g.USETFsTarget,
			IntStocksTarget:  g.IntStocksTarget,
			IntETFsTarget:    g.IntETFsTarget,
		},
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
		Display: GoalsDisplay{
			TotalBudget:      format.Money(g.TotalBudget),
			USBudgetPercent:  format.Percent(g.USBudgetPercent),
			IntBudgetPercent: format.Percent(g.IntBudgetPercent),
			USStocksTarget:   format.Count(g.USStocksTarget),
			USETFsTarget:     format.Count(g.USETFsTarget),
			IntStocksTarget:  format.Count(g.IntStocksTarget),
			IntETFsTarget:    format.Count(g.IntETFsTarget),
		},
	}
}
