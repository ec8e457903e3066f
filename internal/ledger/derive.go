// Package ledger derives per-transaction fields at entry time and rebuilds
// positions and budgets from a transaction history at display time.
//
// Everything here is pure: no I/O, no clock, no shared state.
package ledger

import (
	"math"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
)

// StockParams carries the parent stock settings a Buy derivation depends on.
type StockParams struct {
	PDP *float64 // price dip percent
	PLR *float64 // profit/loss ratio
}

// Validate checks that t carries every field its action requires.
// Price may be zero on a Buy; that makes derivation unavailable, not invalid.
func Validate(t *entity.Transaction) error {
	var errs ValidationErrors

	if t.Date.IsZero() {
		errs.Add("date", "date is required")
	}
	if t.PortfolioStockID == "" {
		errs.Add("portfolioStockId", "portfolio stock is required")
	}

	switch t.Action {
	case entity.ActionBuy:
		CheckAmount(&errs, "price", t.Price, true, true)
		CheckAmount(&errs, "investment", t.Investment, true, false)
	case entity.ActionSell:
		CheckAmount(&errs, "price", t.Price, true, false)
		CheckAmount(&errs, "quantity", t.Quantity, true, false)
		if t.SharesType != nil && !t.SharesType.Valid() {
			errs.Add("sharesType", "shares type must be one of Play, Hold")
		}
		if t.CompletedTxnID != nil && *t.CompletedTxnID == "" {
			errs.Add("completedTxnId", "completed transaction id must not be empty")
		}
	case entity.ActionDiv:
		CheckAmount(&errs, "investment", t.Investment, true, false)
		CheckAmount(&errs, "price", t.Price, false, true)
	default:
		errs.Add("action", "action must be one of Buy, Sell, Div")
	}

	if t.Action.Valid() && t.Action != entity.ActionDiv && t.Signal != nil && !t.Signal.ValidFor(t.Action) {
		errs.Add("signal", "signal %q is not allowed for %s", *t.Signal, t.Action)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CheckAmount rejects a missing (when required), non-finite, negative or
// (unless allowZero) zero amount.
func CheckAmount(errs *ValidationErrors, field string, v *float64, required, allowZero bool) {
	if v == nil {
		if required {
			errs.Add(field, "%s is required", field)
		}
		return
	}
	switch {
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		errs.Add(field, "%s must be a finite number", field)
	case *v < 0:
		errs.Add(field, "%s must not be negative", field)
	case *v == 0 && !allowZero:
		errs.Add(field, "%s must be greater than 0", field)
	}
}

// Derive validates t and fills in the fields computed from its action.
// Fields that do not apply to the action are cleared so that an edited
// transaction never keeps stale values from a previous action.
func Derive(t *entity.Transaction, params StockParams) error {
	if err := Validate(t); err != nil {
		return err
	}

	t.Profit = nil
	switch t.Action {
	case entity.ActionBuy:
		return deriveBuy(t, params)
	case entity.ActionSell:
		deriveSell(t)
	case entity.ActionDiv:
		deriveDiv(t)
	}
	return nil
}

// deriveBuy rejects a quantity that leaves the float64 range. LBD and TP
// that overflow are left unset, like any other unavailable target.
func deriveBuy(t *entity.Transaction, params StockParams) error {
	t.Quantity, t.PlayShares, t.HoldShares = nil, nil, nil
	t.LBD, t.TP = nil, nil
	t.SharesType, t.CompletedTxnID = nil, nil

	price := *t.Price
	if price == 0 {
		// derivation unavailable
		return nil
	}

	qty := *t.Investment / price
	if !isFinite(qty) {
		var errs ValidationErrors
		errs.Add("investment", "investment divided by price is out of range")
		return errs
	}
	half := qty / 2
	t.Quantity = float64Ptr(qty)
	t.PlayShares = float64Ptr(half)
	t.HoldShares = float64Ptr(half)

	if !isNumber(params.PDP) || !isNumber(params.PLR) {
		return nil
	}
	pdp, plr := *params.PDP, *params.PLR
	if lbd := price - price*(pdp/100); isFinite(lbd) {
		t.LBD = float64Ptr(lbd)
	}
	if tp := price + price*(pdp*plr/100); isFinite(tp) {
		t.TP = float64Ptr(tp)
	}
	return nil
}

func deriveSell(t *entity.Transaction) {
	t.Investment = nil
	t.PlayShares, t.HoldShares = nil, nil
	t.LBD, t.TP = nil, nil
	if t.SharesType == nil {
		st := entity.SharesPlay
		t.SharesType = &st
	}
}

func deriveDiv(t *entity.Transaction) {
	sig := entity.SignalDividend
	t.Signal = &sig
	t.Quantity, t.PlayShares, t.HoldShares = nil, nil, nil
	t.LBD, t.TP = nil, nil
	t.SharesType, t.CompletedTxnID = nil, nil
}

// SellProfit returns the realized profit of sell against the buy it closes,
// using the buy's per-share cost basis:
//
//	profit = sellPrice*sellQty - sellQty*(buyInvestment/buyQty)
//
// It returns nil when either side lacks the numbers to compute it.
func SellProfit(buy, sell entity.Transaction) *float64 {
	if buy.Action != entity.ActionBuy || sell.Action != entity.ActionSell {
		return nil
	}
	if !isNumber(buy.Quantity) || !isNumber(buy.Investment) || *buy.Quantity == 0 {
		return nil
	}
	if !isNumber(sell.Price) || !isNumber(sell.Quantity) {
		return nil
	}
	costPerShare := *buy.Investment / *buy.Quantity
	profit := *sell.Price**sell.Quantity - *sell.Quantity*costPerShare
	if !isFinite(profit) {
		return nil
	}
	return float64Ptr(profit)
}

func isNumber(v *float64) bool {
	return v != nil && isFinite(*v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func float64Ptr(v float64) *float64 {
	return &v
}

// value returns *v, or 0 when v is nil.
func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
