// Package handler はgoalsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_ledger/internal/api"
	"portfolio_ledger/internal/feature/goals/domain/entity"
	"portfolio_ledger/internal/feature/goals/transport/http/dto"
	"portfolio_ledger/internal/feature/goals/usecase"
)

type GoalsUsecase interface {
	Get(ctx context.Context, ownerID uint) (*entity.Goals, error)
	Upsert(ctx context.Context, ownerID uint, in usecase.GoalsInput) (*entity.Goals, error)
}

type GoalsHandler struct {
	goals GoalsUsecase
}

func NewGoalsHandler(goals GoalsUsecase) *GoalsHandler {
	return &GoalsHandler{goals: goals}
}

var errStatus = map[error]int{
	usecase.ErrGoalsNotFound: http.StatusNotFound,
}

// Get は GET /goals を処理します。未登録の場合は404です。
func (h *GoalsHandler) Get(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	g, err := h.goals.Get(c.Request.Context(), ownerID)
	if err != nil {
		api.Fail(c, "get goals failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(g))
}

// Put は PUT /goals を処理します。
func (h *GoalsHandler) Put(c *gin.Context) {
	ownerID, ok := api.Owner(c)
	if !ok {
		return
	}
	var req dto.GoalsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	g, err := h.goals.Upsert(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		api.Fail(c, "save goals failed", err, errStatus)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(g))
}
