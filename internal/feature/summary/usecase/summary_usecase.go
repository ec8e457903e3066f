// Package usecase assembles per-stock and account-wide summaries from the
// stored ledger. Nothing here is persisted; every figure is recomputed from
// the transaction history on each request.
package usecase

import (
	"context"
	"errors"
	"fmt"

	goalsentity "portfolio_ledger/internal/feature/goals/domain/entity"
	goalsusecase "portfolio_ledger/internal/feature/goals/usecase"
	stockentity "portfolio_ledger/internal/feature/stocks/domain/entity"
	txentity "portfolio_ledger/internal/feature/transactions/domain/entity"
	txusecase "portfolio_ledger/internal/feature/transactions/usecase"
	"portfolio_ledger/internal/ledger"
)

type StockReader interface {
	FindByID(ctx context.Context, ownerID uint, id string) (*stockentity.Stock, error)
	List(ctx context.Context, ownerID uint) ([]stockentity.Stock, error)
}

type TransactionLister interface {
	List(ctx context.Context, ownerID uint, f txusecase.Filter) ([]txentity.Transaction, error)
}

type GoalsReader interface {
	FindByOwner(ctx context.Context, ownerID uint) (*goalsentity.Goals, error)
}

// StockSummary is the reconstructed state of one stock.
type StockSummary struct {
	Stock    stockentity.Stock
	Position ledger.Position
	Budget   ledger.Budget
}

// Bucket compares the number of held stocks in one region/type group with its target.
type Bucket struct {
	Count  int
	Target *int
}

// GoalProgress is how the portfolio measures up against the saved goals.
type GoalProgress struct {
	USStocks  Bucket
	USETFs    Bucket
	IntStocks Bucket
	IntETFs   Bucket
	// USBudget and IntBudget are TotalBudget split by the goal percents;
	// nil when either side of the product is unset.
	USBudget  *float64
	IntBudget *float64
}

// AccountSummary aggregates every stock of the owner.
type AccountSummary struct {
	Stocks   []StockSummary
	Position ledger.Position
	Budget   ledger.Budget
	Goals    *goalsentity.Goals
	Progress *GoalProgress
}

type summaryUsecase struct {
	stocks StockReader
	txns   TransactionLister
	goals  GoalsReader
	opts   ledger.BudgetOptions
}

func NewSummaryUsecase(stocks StockReader, txns TransactionLister, goals GoalsReader, opts ledger.BudgetOptions) *summaryUsecase {
	return &summaryUsecase{stocks: stocks, txns: txns, goals: goals, opts: opts}
}

// Stock は1銘柄のポジションと予算残高を返します。
func (u *summaryUsecase) Stock(ctx context.Context, ownerID uint, stockID string) (*StockSummary, error) {
	s, err := u.stocks.FindByID(ctx, ownerID, stockID)
	if err != nil {
		return nil, err
	}
	txns, err := u.txns.List(ctx, ownerID, txusecase.Filter{StockID: stockID})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sum := u.summarize(*s, txns)
	return &sum, nil
}

// Account は全銘柄の集計、年間予算の残高、目標に対する進捗を返します。
func (u *summaryUsecase) Account(ctx context.Context, ownerID uint) (*AccountSummary, error) {
	stocks, err := u.stocks.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	txns, err := u.txns.List(ctx, ownerID, txusecase.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	goals, err := u.goals.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, goalsusecase.ErrGoalsNotFound) {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	byStock := make(map[string][]txentity.Transaction, len(stocks))
	for _, t := range txns {
		byStock[t.PortfolioStockID] = append(byStock[t.PortfolioStockID], t)
	}

	out := &AccountSummary{
		Stocks:   make([]StockSummary, 0, len(stocks)),
		Position: ledger.ReconstructPosition(txns),
	}
	for _, s := range stocks {
		out.Stocks = append(out.Stocks, u.summarize(s, byStock[s.ID]))
	}

	var total *float64
	if goals != nil {
		total = goals.TotalBudget
		out.Goals = goals
		p := progress(stocks, goals)
		out.Progress = &p
	}
	out.Budget = ledger.AccountBudget(total, txns)
	return out, nil
}

func (u *summaryUsecase) summarize(s stockentity.Stock, txns []txentity.Transaction) StockSummary {
	return StockSummary{
		Stock:    s,
		Position: ledger.ReconstructPosition(txns),
		Budget:   ledger.StockBudget(s.Budget, txns, u.opts),
	}
}

// progress counts registered stocks per bucket. Crypto holdings are not part of any bucket.
func progress(stocks []stockentity.Stock, g *goalsentity.Goals) GoalProgress {
	p := GoalProgress{
		USStocks:  Bucket{Target: g.USStocksTarget},
		USETFs:    Bucket{Target: g.USETFsTarget},
		IntStocks: Bucket{Target: g.IntStocksTarget},
		IntETFs:   Bucket{Target: g.IntETFsTarget},
		USBudget:  share(g.TotalBudget, g.USBudgetPercent),
		IntBudget: share(g.TotalBudget, g.IntBudgetPercent),
	}
	for _, s := range stocks {
		var b *Bucket
		switch {
		case s.Region == stockentity.RegionUS && s.Type == stockentity.TypeStock:
			b = &p.USStocks
		case s.Region == stockentity.RegionUS && s.Type == stockentity.TypeETF:
			b = &p.USETFs
		case s.Region.International() && s.Type == stockentity.TypeStock:
			b = &p.IntStocks
		case s.Region.International() && s.Type == stockentity.TypeETF:
			b = &p.IntETFs
		default:
			continue
		}
		b.Count++
	}
	return p
}

func share(total, percent *float64) *float64 {
	if total == nil || percent == nil {
		return nil
	}
	v := *total * *percent / 100
	return &v
}
