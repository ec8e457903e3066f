package di

import (
	authadapters "portfolio_ledger/internal/feature/auth/adapters"
	goalsadapters "portfolio_ledger/internal/feature/goals/adapters"
	stocksadapters "portfolio_ledger/internal/feature/stocks/adapters"
	txadapters "portfolio_ledger/internal/feature/transactions/adapters"
)

// Models returns every GORM model of the service in migration order.
func Models() []any {
	var models []any
	models = append(models, authadapters.Models()...)
	models = append(models, stocksadapters.Models()...)
	models = append(models, txadapters.Models()...)
	models = append(models, goalsadapters.Models()...)
	return models
}
