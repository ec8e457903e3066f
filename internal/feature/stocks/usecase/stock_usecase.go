package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/ledger"
)

// StockRepository は銘柄の永続化を抽象化します。全メソッドはownerIDでスコープされます。
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) error
	// FindByID は他人の銘柄や存在しない銘柄に対してErrStockNotFoundを返します。
	FindByID(ctx context.Context, ownerID uint, id string) (*entity.Stock, error)
	List(ctx context.Context, ownerID uint) ([]entity.Stock, error)
	Update(ctx context.Context, s *entity.Stock) error
	// Delete は銘柄とその取引を同一トランザクションで削除します。
	Delete(ctx context.Context, ownerID uint, id string) error
}

// CacheInvalidator は取引一覧キャッシュを無効化します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ownerID uint) error
}

// StockInput は作成・更新時の入力です。
type StockInput struct {
	Symbol string
	Type   entity.StockType
	Region entity.Region
	Name   *string
	PDP    *float64
	PLR    *float64
	Budget *float64
}

type stockUsecase struct {
	stocks StockRepository
	cache  CacheInvalidator
}

// NewStockUsecase はstockUsecaseを生成します。
func NewStockUsecase(stocks StockRepository, cache CacheInvalidator) *stockUsecase {
	return &stockUsecase{stocks: stocks, cache: cache}
}

// validate は入力を正規化し、不正なフィールドを集めて返します。
func validate(in *StockInput) error {
	var errs ledger.ValidationErrors

	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	if in.Symbol == "" {
		errs.Add("symbol", "symbol is required")
	}
	if !in.Type.Valid() {
		errs.Add("type", "type must be one of Stock, ETF, Crypto")
	}
	if !in.Region.Valid() {
		errs.Add("region", "region must be one of US, EU, APAC")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			in.Name = nil
		} else {
			in.Name = &name
		}
	}
	ledger.CheckAmount(&errs, "pdp", in.PDP, false, true)
	ledger.CheckAmount(&errs, "plr", in.PLR, false, true)
	ledger.CheckAmount(&errs, "budget", in.Budget, false, true)
	if in.PDP != nil && *in.PDP > 100 {
		errs.Add("pdp", "pdp must not exceed 100")
	}
	return errs.Err()
}

func (in StockInput) apply(s *entity.Stock) {
	s.Symbol = in.Symbol
	s.Type = in.Type
	s.Region = in.Region
	s.Name = in.Name
	s.PDP = in.PDP
	s.PLR = in.PLR
	s.Budget = in.Budget
}

func (u *stockUsecase) Create(ctx context.Context, ownerID uint, in StockInput) (*entity.Stock, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	s := &entity.Stock{ID: uuid.NewString(), OwnerID: ownerID}
	in.apply(s)
	if err := u.stocks.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	slog.Info("stock created", "owner_id", ownerID, "stock_id", s.ID, "symbol", s.Symbol)
	return s, nil
}

func (u *stockUsecase) Get(ctx context.Context, ownerID uint, id string) (*entity.Stock, error) {
	return u.stocks.FindByID(ctx, ownerID, id)
}

// List は銘柄をシンボル順で返します。
func (u *stockUsecase) List(ctx context.Context, ownerID uint) ([]entity.Stock, error) {
	return u.stocks.List(ctx, ownerID)
}

// Update は銘柄を置き換えます。PDP/PLRの変更は既存取引のLBD/TPを再計算しません。
func (u *stockUsecase) Update(ctx context.Context, ownerID uint, id string, in StockInput) (*entity.Stock, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	s, err := u.stocks.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	in.apply(s)
	if err := u.stocks.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return s, nil
}

// Delete は銘柄と配下の取引を削除し、取引キャッシュを破棄します。
func (u *stockUsecase) Delete(ctx context.Context, ownerID uint, id string) error {
	if err := u.stocks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := u.cache.Invalidate(ctx, ownerID); err != nil {
		slog.Warn("transaction cache invalidation failed", "owner_id", ownerID, "error", err)
	}
	slog.Info("stock deleted", "owner_id", ownerID, "stock_id", id)
	return nil
}
