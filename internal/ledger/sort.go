package ledger

import (
	"cmp"
	"fmt"
	"slices"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
)

// SortKey names a transaction column the listing can be ordered by.
type SortKey string

const (
	SortByDate       SortKey = "date"
	SortByPrice      SortKey = "price"
	SortByAction     SortKey = "action"
	SortBySignal     SortKey = "signal"
	SortByInvestment SortKey = "investment"
	SortByQuantity   SortKey = "quantity"
	SortByLBD        SortKey = "lbd"
	SortByTP         SortKey = "tp"
)

// Direction multiplies the comparator result.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseSortKey converts a query value into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByDate, SortByPrice, SortByAction, SortBySignal,
		SortByInvestment, SortByQuantity, SortByLBD, SortByTP:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseDirection converts "asc"/"desc" into a Direction. Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort direction %q", s)
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the current ordering of a listing.
type SortState struct {
	Key SortKey
	Dir Direction
}

// Toggle selects key: the same key flips direction, a new key starts ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		return SortState{Key: key, Dir: -s.Dir}
	}
	return SortState{Key: key, Dir: Ascending}
}

// Sort returns a stably sorted copy of txns. Nil values compare lower than any
// value, so they come first ascending and last descending. txns is not modified.
func Sort(txns []entity.Transaction, key SortKey, dir Direction) []entity.Transaction {
	if dir != Descending {
		dir = Ascending
	}
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b entity.Transaction) int {
		return compareBy(key, &a, &b) * int(dir)
	})
	return out
}

func compareBy(key SortKey, a, b *entity.Transaction) int {
	switch key {
	case SortByDate:
		return a.Date.Compare(b.Date)
	case SortByPrice:
		return compareOptional(a.Price, b.Price)
	case SortByAction:
		return cmp.Compare(a.Action, b.Action)
	case SortBySignal:
		return compareOptional(a.Signal, b.Signal)
	case SortByInvestment:
		return compareOptional(a.Investment, b.Investment)
	case SortByQuantity:
		return compareOptional(a.Quantity, b.Quantity)
	case SortByLBD:
		return compareOptional(a.LBD, b.LBD)
	case SortByTP:
		return compareOptional(a.TP, b.TP)
	}
	return 0
}

func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
