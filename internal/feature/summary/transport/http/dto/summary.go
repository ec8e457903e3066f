// Package dto はsummaryフィーチャーのレスポンスを定義します。
package dto

import (
	stockentity "portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/summary/usecase"
	"portfolio_ledger/internal/ledger"
	"portfolio_ledger/internal/shared/format"
)

type PositionRes struct {
	TotalShares    float64 `json:"totalShares"`
	PlayShares     float64 `json:"playShares"`
	HoldShares     float64 `json:"holdShares"`
	BuyCount       int     `json:"buyCount"`
	SellCount      int     `json:"sellCount"`
	DivCount       int     `json:"divCount"`
	Invested       float64 `json:"invested"`
	Proceeds       float64 `json:"proceeds"`
	Dividends      float64 `json:"dividends"`
	RealizedProfit float64 `json:"realizedProfit"`
	Display        struct {
		TotalShares    string `json:"totalShares"`
		PlayShares     string `json:"playShares"`
		HoldShares     string `json:"holdShares"`
		Invested       string `json:"invested"`
		Proceeds       string `json:"proceeds"`
		Dividends      string `json:"dividends"`
		RealizedProfit string `json:"realizedProfit"`
	} `json:"display"`
}

func fromPosition(p ledger.Position) PositionRes {
	total := p.TotalShares()
	res := PositionRes{
		TotalShares:    total,
		PlayShares:     p.PlayShares,
		HoldShares:     p.HoldShares,
		BuyCount:       p.BuyCount,
		SellCount:      p.SellCount,
		DivCount:       p.DivCount,
		Invested:       p.Invested,
		Proceeds:       p.Proceeds,
		Dividends:      p.Dividends,
		RealizedProfit: p.RealizedProfit,
	}
	res.Display.TotalShares = format.Shares(&total)
	res.Display.PlayShares = format.Shares(&p.PlayShares)
	res.Display.HoldShares = format.Shares(&p.HoldShares)
	res.Display.Invested = format.Amount(p.Invested)
	res.Display.Proceeds = format.Amount(p.Proceeds)
	res.Display.Dividends = format.Amount(p.Dividends)
	res.Display.RealizedProfit = format.Amount(p.RealizedProfit)
	return res
}

// BudgetRes の initial はnilのとき"N/A"と表示され、remainingは0から計算されます。
type BudgetRes struct {
	Initial   *float64 `json:"initial"`
	NetImpact float64  `json:"netImpact"`
	Remaining float64  `json:"remaining"`
	Display   struct {
		Initial   string `json:"initial"`
		NetImpact string `json:"netImpact"`
		Remaining string `json:"remaining"`
	} `json:"display"`
}

func fromBudget(b ledger.Budget) BudgetRes {
	res := BudgetRes{Initial: b.Initial, NetImpact: b.NetImpact, Remaining: b.Remaining}
	res.Display.Initial = format.Money(b.Initial)
	res.Display.NetImpact = format.Amount(b.NetImpact)
	res.Display.Remaining = format.Amount(b.Remaining)
	return res
}

type StockSummaryRes struct {
	StockID  string                `json:"stockId"`
	Symbol   string                `json:"symbol"`
	Type     stockentity.StockType `json:"type"`
	Region   stockentity.Region    `json:"region"`
	Position PositionRes           `json:"position"`
	Budget   BudgetRes             `json:"budget"`
}

func FromStockSummary(s *usecase.StockSummary) StockSummaryRes {
	return StockSummaryRes{
		StockID:  s.Stock.ID,
		Symbol:   s.Stock.Symbol,
		Type:     s.Stock.Type,
		Region:   s.Stock.Region,
		Position: fromPosition(s.Position),
		Budget:   fromBudget(s.Budget),
	}
}

type BucketRes struct {
	Count   int  `json:"count"`
	Target  *int `json:"target"`
	Display struct {
		Target string `json:"target"`
	} `json:"display"`
}

func fromBucket(b usecase.Bucket) BucketRes {
	res := BucketRes{Count: b.Count, Target: b.Target}
	res.Display.Target = format.Count(b.Target)
	return res
}

type GoalProgressRes struct {
	USStocks  BucketRes `json:"usStocks"`
	USETFs    BucketRes `json:"usEtfs"`
	IntStocks BucketRes `json:"intStocks"`
	IntETFs   BucketRes `json:"intEtfs"`
	USBudget  *float64  `json:"usBudget"`
	IntBudget *float64  `json:"intBudget"`
	Display   struct {
		USBudget  string `json:"usBudget"`
		IntBudget string `json:"intBudget"`
	} `json:"display"`
}

type AccountSummaryRes struct {
	Stocks   []StockSummaryRes `json:"stocks"`
	Position PositionRes       `json:"position"`
	Budget   BudgetRes         `json:"budget"`
	Goals    *GoalProgressRes  `json:"goals"`
}

func FromAccountSummary(a *usecase.AccountSummary) AccountSummaryRes {
	res := AccountSummaryRes{
		Stocks:   make([]StockSummaryRes, len(a.Stocks)),
		Position: fromPosition(a.Position),
		Budget:   fromBudget(a.Budget),
	}
	for i := range a.Stocks {
		res.Stocks[i] = FromStockSummary(&a.Stocks[i])
	}
	if p := a.Progress; p != nil {
		g := &GoalProgressRes{
			USStocks:  fromBucket(p.USStocks),
			USETFs:    fromBucket(p.USETFs),
			IntStocks: fromBucket(p.IntStocks),
			IntETFs:   fromBucket(p.IntETFs),
			USBudget:  p.USBudget,
			IntBudget: p.IntBudget,
		}
		g.Display.USBudget = format.Money(p.USBudget)
		g.Display.IntBudget = format.Money(p.IntBudget)
		res.Goals = g
	}
	return res
}
