// Package handler はsummaryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_ledger/internal/api"
	stockusecase "portfolio_ledger/internal/feature/stocks/usecase"
	"portfolio_ledger/internal/feature/summary/transport/http/dto"
	"portfolio_ledger/internal/feature/summary/usecase"
)

type SummaryUsecase interface {
	Stock(ctx context.Context, ownerID uint, stockID string) (*usecase.StockSummary, error)
	Account(ctx context.Context, ownerID uint) (*usecase.AccountSummary, error)
}

type SummaryHandler struct {
	summary SummaryUsecase
}

func NewSummaryHandler(summary SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{summary: summary}
}

var errStatus = map[error]int{
	stockusecase.ErrStockNotFound: http.StatusNotFound,
}

// Stock は GET /stocks/:id/summary を処理します。
func (h *SummaryHandler) Stock(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	s, err := h.summary.Stock(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		api.Fail(c, "stock summary failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromStockSummary(s))
}

// Account は GET /summary を処理します。
func (h *SummaryHandler) Account(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	a, err := h.summary.Account(c.Request.Context(), ownerID)
	if err != nil {
		api.Internal(c, "account summary failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAccountSummary(a))
}
