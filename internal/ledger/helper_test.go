package ledger

import (
	"time"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
)

const tolerance = 1e-9

func f(v float64) *float64 { return &v }

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func buy(date time.Time, price, investment float64) entity.Transaction {
	return entity.Transaction{
		PortfolioStockID: "stock-1",
		Date:             date,
		Action:           entity.ActionBuy,
		Price:            f(price),
		Investment:       f(investment),
	}
}

func sell(date time.Time, price, quantity float64, pool entity.SharesType) entity.Transaction {
	return entity.Transaction{
		PortfolioStockID: "stock-1",
		Date:             date,
		Action:           entity.ActionSell,
		Price:            f(price),
		Quantity:         f(quantity),
		SharesType:       &pool,
	}
}

func div(date time.Time, amount float64) entity.Transaction {
	return entity.Transaction{
		PortfolioStockID: "stock-1",
		Date:             date,
		Action:           entity.ActionDiv,
		Investment:       f(amount),
	}
}

// derived runs Derive and panics on validation failure; test-only shorthand.
func derived(t entity.Transaction, params StockParams) entity.Transaction {
	if err := Derive(&t, params); err != nil {
		panic(err)
	}
	return t
}
