package ledger

import "portfolio_ledger/internal/feature/transactions/domain/entity"

// Budget is the result of applying a transaction history to a starting budget.
type Budget struct {
	// Initial is the stored starting budget; nil means none was ever set,
	// which is rendered differently from a computed zero.
	Initial *float64
	// NetImpact is the cash consumed by the history (positive when spending).
	NetImpact float64
	// Remaining is Initial (or zero) minus NetImpact.
	Remaining float64
}

// BudgetOptions tunes the per-stock budget reduction.
type BudgetOptions struct {
	// IncludeDividends makes Div transactions consume the stock budget like a Buy.
	IncludeDividends bool
}

// StockBudget applies txns to a single stock's budget. Buys consume their
// investment, sells give back price*quantity, dividends count only when
// opts.IncludeDividends is set.
func StockBudget(budget *float64, txns []entity.Transaction, opts BudgetOptions) Budget {
	return applyBudget(budget, txns, opts.IncludeDividends)
}

// AccountBudget applies every transaction of the account to the annual total
// budget. Dividends always consume budget, as they are reinvested.
func AccountBudget(totalBudget *float64, txns []entity.Transaction) Budget {
	return applyBudget(totalBudget, txns, true)
}

func applyBudget(initial *float64, txns []entity.Transaction, includeDividends bool) Budget {
	var net float64
	for i := range txns {
		net += impact(&txns[i], includeDividends)
	}
	b := Budget{NetImpact: net, Remaining: value(initial) - net}
	if initial != nil {
		v := *initial
		b.Initial = &v
	}
	return b
}

// impact is the signed cash consumption of one transaction.
func impact(t *entity.Transaction, includeDividends bool) float64 {
	switch t.Action {
	case entity.ActionBuy:
		return value(t.Investment)
	case entity.ActionSell:
		return -value(t.Price) * value(t.Quantity)
	case entity.ActionDiv:
		if includeDividends {
			return value(t.Investment)
		}
	}
	return 0
}
