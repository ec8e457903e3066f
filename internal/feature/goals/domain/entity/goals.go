// Package entity defines the PortfolioGoals domain entity.
package entity

import "time"

// Goals is the single annual allocation plan of an owner. Percents split
// TotalBudget between US and international (EU and APAC) holdings; targets
// are the desired number of distinct holdings per bucket.
type Goals struct {
	ID               string
	OwnerID          uint
	TotalBudget      *float64
	USBudgetPercent  *float64
	IntBudgetPercent *float64
	USStocksTarget   *int
	USETFsTarget     *int
	IntStocksTarget  *int
	IntETFsTarget    *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
