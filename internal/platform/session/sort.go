package session

import (
	"slices"

	"portfolio_ledger/internal/feature/auth/domain/entity"
)

func sortByCreatedAt(sessions []*entity.Session) {
	slices.SortFunc(sessions, func(a, b *entity.Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
