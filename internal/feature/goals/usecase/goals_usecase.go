package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"portfolio_ledger/internal/feature/goals/domain/entity"
	"portfolio_ledger/internal/ledger"
)

// GoalsRepository は目標の永続化を抽象化します。ownerごとに最大1件です。
type GoalsRepository interface {
	// FindByOwner は未登録の場合ErrGoalsNotFoundを返します。
	FindByOwner(ctx context.Context, ownerID uint) (*entity.Goals, error)
	// Upsert はownerIDの行を作成または上書きし、保存後の値をgに反映します。
	Upsert(ctx context.Context, g *entity.Goals) error
}

// GoalsInput は PUT /goals の入力です。省略された値はnilのまま保存されます。
type GoalsInput struct {
	TotalBudget      *float64
	USBudgetPercent  *float64
	IntBudgetPercent *float64
	USStocksTarget   *int
	USETFsTarget     *int
	IntStocksTarget  *int
	IntETFsTarget    *int
}

type goalsUsecase struct {
	goals GoalsRepository
}

func NewGoalsUsecase(goals GoalsRepository) *goalsUsecase {
	return &goalsUsecase{goals: goals}
}

func validate(in GoalsInput) error {
	var errs ledger.ValidationErrors
	ledger.CheckAmount(&errs, "totalBudget", in.TotalBudget, false, true)
	for field, pct := range map[string]*float64{
		"usBudgetPercent":  in.USBudgetPercent,
		"intBudgetPercent": in.IntBudgetPercent,
	} {
		ledger.CheckAmount(&errs, field, pct, false, true)
		if pct != nil && *pct > 100 {
			errs.Add(field, "%s must not exceed 100", field)
		}
	}
	for field, target := range map[string]*int{
		"usStocksTarget":  in.USStocksTarget,
		"usEtfsTarget":    in.USETFsTarget,
		"intStocksTarget": in.IntStocksTarget,
		"intEtfsTarget":   in.IntETFsTarget,
	} {
		if target != nil && *target < 0 {
			errs.Add(field, "%s must not be negative", field)
		}
	}
	// map順序に依存しないようフィールド名で並べる
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs.Err()
}

func (u *goalsUsecase) Get(ctx context.Context, ownerID uint) (*entity.Goals, error) {
	return u.goals.FindByOwner(ctx, ownerID)
}

// Upsert は目標を作成、または既存の目標を置き換えます。
func (u *goalsUsecase) Upsert(ctx context.Context, ownerID uint, in GoalsInput) (*entity.Goals, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	g := &entity.Goals{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		TotalBudget:      in.TotalBudget,
		USBudgetPercent:  in.USBudgetPercent,
		IntBudgetPercent: in.IntBudgetPercent,
		USStocksTarget:   in.USStocksTarget,
		USETFsTarget:     in.USETFsTarget,
		IntStocksTarget:  in.IntStocksTarget,
		IntETFsTarget:    in.IntETFsTarget,
	}
	existing, err := u.goals.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		g.ID = existing.ID
		g.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrGoalsNotFound):
		return nil, fmt.Errorf("load goals: %w", err)
	}
	if err := u.goals.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("save goals: %w", err)
	}
	slog.Info("goals saved", "owner_id", ownerID, "goals_id", g.ID)
	return g, nil
}
