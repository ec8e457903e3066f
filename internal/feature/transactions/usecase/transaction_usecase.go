package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	stockentity "portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/ledger"
)

// Filter narrows a transaction listing. Zero values match everything.
type Filter struct {
	StockID string
	Action  entity.Action
	From    *time.Time // inclusive
	To      *time.Time // inclusive
}

// TransactionRepository は取引の永続化を抽象化します。全メソッドはownerIDでスコープされます。
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	// FindByID は見つからない場合ErrTransactionNotFoundを返します。
	FindByID(ctx context.Context, ownerID uint, id string) (*entity.Transaction, error)
	// List は日付の昇順で返します。
	List(ctx context.Context, ownerID uint, f Filter) ([]entity.Transaction, error)
	Update(ctx context.Context, t *entity.Transaction) error
	Delete(ctx context.Context, ownerID uint, id string) error
}

// StockReader は親銘柄を取得します。stocksフィーチャーのリポジトリが実装します。
type StockReader interface {
	FindByID(ctx context.Context, ownerID uint, id string) (*stockentity.Stock, error)
}

// ListQuery is a filtered, sorted and paginated listing request.
type ListQuery struct {
	Filter
	SortKey   ledger.SortKey   // empty means date
	Direction ledger.Direction // zero means descending when SortKey is empty, else ascending
	Limit     int
	PageToken string
}

// Page is one slice of a listing.
type Page struct {
	Items         []entity.Transaction
	NextPageToken string
}

type transactionUsecase struct {
	txns   TransactionRepository
	stocks StockReader
}

// NewTransactionUsecase は取引ユースケースを生成します。
func NewTransactionUsecase(txns TransactionRepository, stocks StockReader) *transactionUsecase {
	return &transactionUsecase{txns: txns, stocks: stocks}
}

func stockParams(s *stockentity.Stock) ledger.StockParams {
	return ledger.StockParams{PDP: s.PDP, PLR: s.PLR}
}

// Create は親銘柄の設定で派生フィールドを計算し、取引を保存します。
func (u *transactionUsecase) Create(ctx context.Context, ownerID uint, t *entity.Transaction) (*entity.Transaction, error) {
	stock, err := u.stocks.FindByID(ctx, ownerID, t.PortfolioStockID)
	if err != nil {
		return nil, err
	}

	t.OwnerID = ownerID
	if err := u.derive(ctx, t, stock); err != nil {
		return nil, err
	}
	t.ID = uuid.NewString()

	if err := u.txns.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	slog.Info("transaction recorded", "owner_id", ownerID, "stock_id", t.PortfolioStockID, "txn_id", t.ID, "action", t.Action)
	return t, nil
}

// Update は取引を入力値で置き換え、派生フィールドを再計算します。
// 所属銘柄は変更できません。
func (u *transactionUsecase) Update(ctx context.Context, ownerID uint, id string, t *entity.Transaction) (*entity.Transaction, error) {
	existing, err := u.txns.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	stock, err := u.stocks.FindByID(ctx, ownerID, existing.PortfolioStockID)
	if err != nil {
		return nil, err
	}

	t.ID = existing.ID
	t.OwnerID = ownerID
	t.PortfolioStockID = existing.PortfolioStockID
	t.CreatedAt = existing.CreatedAt
	if err := u.derive(ctx, t, stock); err != nil {
		return nil, err
	}

	var closers []entity.Transaction
	if existing.Action == entity.ActionBuy {
		if closers, err = u.closingSells(ctx, existing); err != nil {
			return nil, err
		}
		if len(closers) > 0 && t.Action != entity.ActionBuy {
			return nil, ledger.ValidationErrors{{Field: "action", Message: "transaction is closed by a Sell and must stay a Buy"}}
		}
	}

	if err := u.txns.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	// 決済済みSellの損益を新しいBuyの値で再計算
	for i := range closers {
		sell := &closers[i]
		sell.Profit = ledger.SellProfit(*t, *sell)
		if err := u.txns.Update(ctx, sell); err != nil {
			return nil, fmt.Errorf("update closing sell %s: %w", sell.ID, err)
		}
	}
	return t, nil
}

// closingSells returns the Sells whose completedTxnId points at buy.
func (u *transactionUsecase) closingSells(ctx context.Context, buy *entity.Transaction) ([]entity.Transaction, error) {
	sells, err := u.txns.List(ctx, buy.OwnerID, Filter{StockID: buy.PortfolioStockID, Action: entity.ActionSell})
	if err != nil {
		return nil, fmt.Errorf("list closing sells: %w", err)
	}
	var out []entity.Transaction
	for _, s := range sells {
		if s.CompletedTxnID != nil && *s.CompletedTxnID == buy.ID {
			out = append(out, s)
		}
	}
	return out, nil
}

// derive runs ledger derivation and, for a Sell closing a Buy, fills Profit.
func (u *transactionUsecase) derive(ctx context.Context, t *entity.Transaction, stock *stockentity.Stock) error {
	if err := ledger.Derive(t, stockParams(stock)); err != nil {
		return err
	}
	if t.Action != entity.ActionSell || t.CompletedTxnID == nil {
		return nil
	}
	if t.ID != "" && *t.CompletedTxnID == t.ID {
		return ledger.ValidationErrors{{Field: "completedTxnId", Message: "a transaction cannot complete itself"}}
	}

	buy, err := u.txns.FindByID(ctx, t.OwnerID, *t.CompletedTxnID)
	if errors.Is(err, ErrTransactionNotFound) {
		return ledger.ValidationErrors{{Field: "completedTxnId", Message: "completed transaction not found"}}
	}
	if err != nil {
		return err
	}
	if buy.Action != entity.ActionBuy || buy.PortfolioStockID != t.PortfolioStockID {
		return ledger.ValidationErrors{{Field: "completedTxnId", Message: "completed transaction must be a Buy of the same stock"}}
	}
	t.Profit = ledger.SellProfit(*buy, *t)
	return nil
}

func (u *transactionUsecase) Get(ctx context.Context, ownerID uint, id string) (*entity.Transaction, error) {
	return u.txns.FindByID(ctx, ownerID, id)
}

func (u *transactionUsecase) Delete(ctx context.Context, ownerID uint, id string) error {
	if err := u.txns.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	slog.Info("transaction deleted", "owner_id", ownerID, "txn_id", id)
	return nil
}

func validateQuery(q *ListQuery) error {
	var errs ledger.ValidationErrors
	if q.Action != "" && !q.Action.Valid() {
		errs.Add("action", "action must be one of Buy, Sell, Div")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		errs.Add("from", "from must not be after to")
	}
	switch {
	case q.Limit < 0:
		errs.Add("limit", "limit must not be negative")
	case q.Limit > MaxPageSize:
		errs.Add("limit", "limit must not exceed %d", MaxPageSize)
	case q.Limit == 0:
		q.Limit = DefaultPageSize
	}
	if q.SortKey == "" {
		q.SortKey = ledger.SortByDate
		if q.Direction == 0 {
			q.Direction = ledger.Descending
		}
	}
	if q.Direction == 0 {
		q.Direction = ledger.Ascending
	}
	return errs.Err()
}

// List returns one page of the owner's transactions, sorted by q.SortKey.
// Sorting happens over the whole filtered set before paging, so pages are
// consistent with the chosen order. Newest first when no key is given.
func (u *transactionUsecase) List(ctx context.Context, ownerID uint, q ListQuery) (*Page, error) {
	if err := validateQuery(&q); err != nil {
		return nil, err
	}
	offset, err := decodePageToken(q.PageToken)
	if err != nil {
		return nil, err
	}
	if q.StockID != "" {
		if _, err := u.stocks.FindByID(ctx, ownerID, q.StockID); err != nil {
			return nil, err
		}
	}

	all, err := u.txns.List(ctx, ownerID, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sorted := ledger.Sort(all, q.SortKey, q.Direction)

	page := &Page{Items: []entity.Transaction{}}
	if offset >= len(sorted) {
		return page, nil
	}
	end := min(offset+q.Limit, len(sorted))
	page.Items = sorted[offset:end]
	if end < len(sorted) {
		page.NextPageToken = encodePageToken(end)
	}
	return page, nil
}

// Ledger returns a stock and its full history in date order, for export.
func (u *transactionUsecase) Ledger(ctx context.Context, ownerID uint, stockID string) (*stockentity.Stock, []entity.Transaction, error) {
	stock, err := u.stocks.FindByID(ctx, ownerID, stockID)
	if err != nil {
		return nil, nil, err
	}
	txns, err := u.txns.List(ctx, ownerID, Filter{StockID: stockID})
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	return stock, ledger.Sort(txns, ledger.SortByDate, ledger.Ascending), nil
}
