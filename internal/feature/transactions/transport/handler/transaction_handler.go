// Package handler はtransactionsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_ledger/internal/api"
	stockentity "portfolio_ledger/internal/feature/stocks/domain/entity"
	stockusecase "portfolio_ledger/internal/feature/stocks/usecase"
	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/feature/transactions/transport/http/dto"
	"portfolio_ledger/internal/feature/transactions/usecase"
	"portfolio_ledger/internal/ledger"
	"portfolio_ledger/internal/platform/report"
)

// TransactionUsecase は取引操作のユースケースです。
type TransactionUsecase interface {
	Create(ctx context.Context, ownerID uint, t *entity.Transaction) (*entity.Transaction, error)
	Get(ctx context.Context, ownerID uint, id string) (*entity.Transaction, error)
	List(ctx context.Context, ownerID uint, q usecase.ListQuery) (*usecase.Page, error)
	Update(ctx context.Context, ownerID uint, id string, t *entity.Transaction) (*entity.Transaction, error)
	Delete(ctx context.Context, ownerID uint, id string) error
	Ledger(ctx context.Context, ownerID uint, stockID string) (*stockentity.Stock, []entity.Transaction, error)
}

// LedgerExporter は取引履歴をファイルに変換します。
type LedgerExporter interface {
	Generate(ctx context.Context, stock *stockentity.Stock, txns []entity.Transaction, opts ledger.BudgetOptions) ([]byte, error)
}

type TransactionHandler struct {
	txns     TransactionUsecase
	exporter LedgerExporter
	budget   ledger.BudgetOptions
}

func NewTransactionHandler(txns TransactionUsecase, exporter LedgerExporter, budget ledger.BudgetOptions) *TransactionHandler {
	return &TransactionHandler{txns: txns, exporter: exporter, budget: budget}
}

var errStatus = map[error]int{
	stockusecase.ErrStockNotFound:  http.StatusNotFound,
	usecase.ErrTransactionNotFound: http.StatusNotFound,
	usecase.ErrInvalidPageToken:    http.StatusBadRequest,
}

// Create は POST /stocks/:id/transactions を処理します。
func (h *TransactionHandler) Create(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var req dto.TransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	t, err := req.ToEntity(c.Param("id"))
	if err != nil {
		api.Fail(c, "create transaction failed", err, errStatus)
		return
	}
	created, err := h.txns.Create(c.Request.Context(), ownerID, t)
	if err != nil {
		api.Fail(c, "create transaction failed", err, errStatus)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(created))
}

// Get は GET /transactions/:txnId を処理します。
func (h *TransactionHandler) Get(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	t, err := h.txns.Get(c.Request.Context(), ownerID, c.Param("txnId"))
	if err != nil {
		api.Fail(c, "get transaction failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(t))
}

// Update は PUT /transactions/:txnId を処理します。
func (h *TransactionHandler) Update(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var req dto.TransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	t, err := req.ToEntity("")
	if err != nil {
		api.Fail(c, "update transaction failed", err, errStatus)
		return
	}
	updated, err := h.txns.Update(c.Request.Context(), ownerID, c.Param("txnId"), t)
	if err != nil {
		api.Fail(c, "update transaction failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(updated))
}

// Delete は DELETE /transactions/:txnId を処理します。
func (h *TransactionHandler) Delete(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	if err := h.txns.Delete(c.Request.Context(), ownerID, c.Param("txnId")); err != nil {
		api.Fail(c, "delete transaction failed", err, errStatus)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByStock は GET /stocks/:id/transactions を処理します。
func (h *TransactionHandler) ListByStock(c *gin.Context) {
	h.list(c, c.Param("id"))
}

// ListAll は GET /transactions を処理します。
func (h *TransactionHandler) ListAll(c *gin.Context) {
	h.list(c, "")
}

func (h *TransactionHandler) list(c *gin.Context, stockID string) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		api.BadRequest(c, err)
		return
	}
	q, verrs := parseListParams(params)
	if len(verrs) > 0 {
		api.Validation(c, verrs)
		return
	}
	q.StockID = stockID

	page, err := h.txns.List(c.Request.Context(), ownerID, q)
	if err != nil {
		api.Fail(c, "list transactions failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, api.ListResponse[dto.TransactionRes]{
		Items:         dto.FromEntities(page.Items),
		NextPageToken: page.NextPageToken,
	})
}

func parseListParams(p dto.ListParams) (usecase.ListQuery, ledger.ValidationErrors) {
	var errs ledger.ValidationErrors
	q := usecase.ListQuery{
		Filter:    usecase.Filter{Action: entity.Action(p.Action)},
		Limit:     p.Limit,
		PageToken: p.PageToken,
	}
	parseDate := func(field, v string) *time.Time {
		if v == "" {
			return nil
		}
		d, err := time.Parse(entity.DateLayout, v)
		if err != nil {
			errs.Add(field, "%s must be formatted as YYYY-MM-DD", field)
			return nil
		}
		return &d
	}
	q.From = parseDate("from", p.From)
	q.To = parseDate("to", p.To)

	if p.Sort != "" {
		key, err := ledger.ParseSortKey(p.Sort)
		if err != nil {
			errs.Add("sort", "%s", err.Error())
		}
		q.SortKey = key
	}
	if p.Dir != "" {
		dir, err := ledger.ParseDirection(p.Dir)
		if err != nil {
			errs.Add("dir", "%s", err.Error())
		}
		q.Direction = dir
	}
	return q, errs
}

// Export は GET /stocks/:id/transactions/export を処理し、XLSXを返します。
func (h *TransactionHandler) Export(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	stock, txns, err := h.txns.Ledger(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		api.Fail(c, "export ledger failed", err, errStatus)
		return
	}
	b, err := h.exporter.Generate(c.Request.Context(), stock, txns, h.budget)
	if err != nil {
		api.Internal(c, "generate ledger workbook failed", err)
		return
	}
	filename := fmt.Sprintf("%s-ledger.xlsx", report.SheetName(stock.Symbol))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, report.ContentType, b)
}
