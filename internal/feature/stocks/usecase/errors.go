// Package usecase implements PortfolioStock management.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when the stock does not exist or belongs to another owner.
	ErrStockNotFound = errors.New("stock not found")
)
