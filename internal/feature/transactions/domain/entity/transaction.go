// Package entity defines the domain models for the transactions feature.
package entity

import "time"

// DateLayout is the wire and storage layout of a transaction's calendar date.
const DateLayout = "2006-01-02"

// Action is the kind of ledger event a transaction records.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionDiv  Action = "Div"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionDiv:
		return true
	}
	return false
}

// Signal is the trigger that motivated a transaction.
type Signal string

const (
	SignalFiveDayDip Signal = "_5DD"
	SignalCustom     Signal = "Cust"
	SignalInitial    Signal = "Initial"
	SignalEndOfMonth Signal = "EOM"
	SignalLastBuyDip Signal = "LBD"
	SignalTakeProfit Signal = "TP"
	SignalDividend   Signal = "Div"
)

// signalsByAction lists the signals accepted for each action.
var signalsByAction = map[Action][]Signal{
	ActionBuy:  {SignalFiveDayDip, SignalCustom, SignalInitial, SignalEndOfMonth, SignalLastBuyDip, SignalTakeProfit},
	ActionSell: {SignalCustom, SignalTakeProfit},
	ActionDiv:  {SignalDividend},
}

// ValidFor reports whether s may be attached to a transaction with action a.
func (s Signal) ValidFor(a Action) bool {
	for _, allowed := range signalsByAction[a] {
		if s == allowed {
			return true
		}
	}
	return false
}

// SharesType names the pool (play or hold) a sell draws down.
type SharesType string

const (
	SharesPlay SharesType = "Play"
	SharesHold SharesType = "Hold"
)

// Valid reports whether st is a known pool.
func (st SharesType) Valid() bool {
	return st == SharesPlay || st == SharesHold
}

// Transaction is a single buy, sell or dividend event of a portfolio stock.
// Optional numeric fields are nil when the value was never supplied or could
// not be derived; callers must not treat nil as zero when rendering.
type Transaction struct {
	ID               string
	OwnerID          uint
	PortfolioStockID string
	Date             time.Time
	Action           Action
	Signal           *Signal
	Price            *float64
	Investment       *float64
	Quantity         *float64
	PlayShares       *float64
	HoldShares       *float64
	LBD              *float64 // last buy dip trigger price
	TP               *float64 // take profit trigger price
	SharesType       *SharesType
	CompletedTxnID   *string
	Profit           *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
