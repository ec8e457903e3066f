// Package entity defines the PortfolioStock domain entity.
package entity

import "time"

// StockType classifies a holding.
type StockType string

const (
	TypeStock  StockType = "Stock"
	TypeETF    StockType = "ETF"
	TypeCrypto StockType = "Crypto"
)

func (t StockType) Valid() bool {
	switch t {
	case TypeStock, TypeETF, TypeCrypto:
		return true
	}
	return false
}

// Region is the market a holding trades in.
type Region string

const (
	RegionUS   Region = "US"
	RegionEU   Region = "EU"
	RegionAPAC Region = "APAC"
)

func (r Region) Valid() bool {
	switch r {
	case RegionUS, RegionEU, RegionAPAC:
		return true
	}
	return false
}

// International reports whether the region counts towards the non-US goals.
func (r Region) International() bool {
	return r == RegionEU || r == RegionAPAC
}

// Stock is a position the owner tracks. PDP (price dip percent) and PLR
// (profit/loss ratio) drive the LBD/TP targets of its Buy transactions;
// Budget is the annual amount earmarked for it.
type Stock struct {
	ID        string
	OwnerID   uint
	Symbol    string
	Type      StockType
	Region    Region
	Name      *string
	PDP       *float64
	PLR       *float64
	Budget    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
