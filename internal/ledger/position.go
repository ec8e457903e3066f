package ledger

import "portfolio_ledger/internal/feature/transactions/domain/entity"

// Position is the state of one stock rebuilt from its transaction history.
type Position struct {
	PlayShares float64
	HoldShares float64

	BuyCount  int
	SellCount int
	DivCount  int

	BoughtQuantity float64 // sum of Buy quantities
	SoldQuantity   float64 // sum of Sell quantities
	Invested       float64 // sum of Buy investments
	Dividends      float64 // sum of Div amounts
	Proceeds       float64 // sum of Sell price*quantity
	RealizedProfit float64 // sum of Sell profits that could be computed
}

// TotalShares returns the shares currently held across both pools.
func (p Position) TotalShares() float64 {
	return p.PlayShares + p.HoldShares
}

// ReconstructPosition folds txns left to right into a Position.
// Missing numeric fields count as zero.
func ReconstructPosition(txns []entity.Transaction) Position {
	var p Position
	for i := range txns {
		t := &txns[i]
		switch t.Action {
		case entity.ActionBuy:
			p.BuyCount++
			p.PlayShares += value(t.PlayShares)
			p.HoldShares += value(t.HoldShares)
			p.BoughtQuantity += value(t.Quantity)
			p.Invested += value(t.Investment)
		case entity.ActionSell:
			p.SellCount++
			qty := value(t.Quantity)
			if t.SharesType != nil && *t.SharesType == entity.SharesHold {
				p.HoldShares -= qty
			} else {
				p.PlayShares -= qty
			}
			p.SoldQuantity += qty
			p.Proceeds += value(t.Price) * qty
			p.RealizedProfit += value(t.Profit)
		case entity.ActionDiv:
			p.DivCount++
			p.Dividends += value(t.Investment)
		}
	}
	return p
}
