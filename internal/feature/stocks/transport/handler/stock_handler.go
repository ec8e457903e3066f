// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_ledger/internal/api"
	"portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/stocks/transport/http/dto"
	"portfolio_ledger/internal/feature/stocks/usecase"
)

// StockUsecase は銘柄操作のユースケースです。
type StockUsecase interface {
	Create(ctx context.Context, ownerID uint, in usecase.StockInput) (*entity.Stock, error)
	Get(ctx context.Context, ownerID uint, id string) (*entity.Stock, error)
	List(ctx context.Context, ownerID uint) ([]entity.Stock, error)
	Update(ctx context.Context, ownerID uint, id string, in usecase.StockInput) (*entity.Stock, error)
	Delete(ctx context.Context, ownerID uint, id string) error
}

type StockHandler struct {
	stocks StockUsecase
}

func NewStockHandler(stocks StockUsecase) *StockHandler {
	return &StockHandler{stocks: stocks}
}

var errStatus = map[error]int{
	usecase.ErrStockNotFound: http.StatusNotFound,
}

// List は GET /stocks を処理します。
func (h *StockHandler) List(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	stocks, err := h.stocks.List(c.Request.Context(), ownerID)
	if err != nil {
		api.Internal(c, "list stocks failed", err)
		return
	}
	c.JSON(http.StatusOK, api.ListResponse[dto.StockRes]{Items: dto.FromEntities(stocks)})
}

// Create は POST /stocks を処理します。
func (h *StockHandler) Create(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var req dto.StockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	s, err := h.stocks.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		api.Fail(c, "create stock failed", err, errStatus)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// Get は GET /stocks/:id を処理します。
func (h *StockHandler) Get(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	s, err := h.stocks.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		api.Fail(c, "get stock failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Update は PUT /stocks/:id を処理します。
func (h *StockHandler) Update(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var req dto.StockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	s, err := h.stocks.Update(c.Request.Context(), ownerID, c.Param("id"), req.ToInput())
	if err != nil {
		api.Fail(c, "update stock failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Delete は DELETE /stocks/:id を処理します。配下の取引も削除されます。
func (h *StockHandler) Delete(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	if err := h.stocks.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		api.Fail(c, "delete stock failed", err, errStatus)
		return
	}
	c.Status(http.StatusNoContent)
}
