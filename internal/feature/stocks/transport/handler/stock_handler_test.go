package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/stocks/usecase"
	"portfolio_ledger/internal/ledger"
	jwtmw "portfolio_ledger/internal/platform/jwt"
)

type mockStockUsecase struct {
	CreateFunc func(ctx context.Context, ownerID uint, in usecase.StockInput) (*entity.Stock, error)
	GetFunc    func(ctx context.Context, ownerID uint, id string) (*entity.Stock, error)
	ListFunc   func(ctx context.Context, ownerID uint) ([]entity.Stock, error)
	UpdateFunc func(ctx context.Context, ownerID uint, id string, in usecase.StockInput) (*entity.Stock, error)
	DeleteFunc func(ctx context.Context, ownerID uint, id string) error
}

func (m *mockStockUsecase) Create(ctx context.Context, ownerID uint, in usecase.StockInput) (*entity.Stock, error) {
	return m.CreateFunc(ctx, ownerID, in)
}

func (m *mockStockUsecase) Get(ctx context.Context, ownerID uint, id string) (*entity.Stock, error) {
	return m.GetFunc(ctx, ownerID, id)
}

func (m *mockStockUsecase) List(ctx context.Context, ownerID uint) ([]entity.Stock, error) {
	return m.ListFunc(ctx, ownerID)
}

func (m *mockStockUsecase) Update(ctx context.Context, ownerID uint, id string, in usecase.StockInput) (*entity.Stock, error) {
	return m.UpdateFunc(ctx, ownerID, id, in)
}

func (m *mockStockUsecase) Delete(ctx context.Context, ownerID uint, id string) error {
	return m.DeleteFunc(ctx, ownerID, id)
}

func fp(v float64) *float64 { return &v }

func newRouter(uc StockUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStockHandler(uc)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(jwtmw.ContextUserID, uint(9)) })
	r.GET("/stocks", h.List)
	r.POST("/stocks", h.Create)
	r.GET("/stocks/:id", h.Get)
	r.PUT("/stocks/:id", h.Update)
	r.DELETE("/stocks/:id", h.Delete)
	return r
}

func do(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStockHandler_Create(t *testing.T) {
	var gotOwner uint
	var gotIn usecase.StockInput
	uc := &mockStockUsecase{
		CreateFunc: func(_ context.Context, ownerID uint, in usecase.StockInput) (*entity.Stock, error) {
			gotOwner, gotIn = ownerID, in
			return &entity.Stock{ID: "s1", Symbol: "AAPL", Type: in.Type, Region: in.Region, PDP: in.PDP}, nil
		},
	}

	w := do(newRouter(uc), http.MethodPost, "/stocks", gin.H{"symbol": "aapl", "type": "Stock", "region": "US", "pdp": 5})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(9), gotOwner)
	assert.Equal(t, entity.RegionUS, gotIn.Region)
	assert.Equal(t, 5.0, *gotIn.PDP)
	assert.Nil(t, gotIn.PLR)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Nil(t, res["budget"])
	display := res["display"].(map[string]any)
	assert.Equal(t, "5%", display["pdp"])
	assert.Equal(t, "N/A", display["plr"])
	assert.Equal(t, "N/A", display["budget"])
	assert.Equal(t, "N/A", display["name"])
}

func TestStockHandler_Errors(t *testing.T) {
	uc := &mockStockUsecase{
		CreateFunc: func(context.Context, uint, usecase.StockInput) (*entity.Stock, error) {
			return nil, ledger.ValidationErrors{{Field: "region", Message: "region must be one of US, EU, APAC"}}
		},
		GetFunc: func(context.Context, uint, string) (*entity.Stock, error) {
			return nil, usecase.ErrStockNotFound
		},
		ListFunc: func(context.Context, uint) ([]entity.Stock, error) {
			return nil, errors.New("connection refused")
		},
		UpdateFunc: func(context.Context, uint, string, usecase.StockInput) (*entity.Stock, error) {
			return nil, usecase.ErrStockNotFound
		},
		DeleteFunc: func(context.Context, uint, string) error {
			return usecase.ErrStockNotFound
		},
	}
	r := newRouter(uc)
	valid := gin.H{"symbol": "X", "type": "Stock", "region": "LATAM"}

	tests := []struct {
		name       string
		method     string
		target     string
		body       any
		wantStatus int
		wantError  string
	}{
		{"validation", http.MethodPost, "/stocks", valid, http.StatusBadRequest, "validation failed"},
		{"binding", http.MethodPost, "/stocks", gin.H{"type": "Stock"}, http.StatusBadRequest, "invalid request"},
		{"get missing", http.MethodGet, "/stocks/nope", nil, http.StatusNotFound, usecase.ErrStockNotFound.Error()},
		{"update missing", http.MethodPut, "/stocks/nope", valid, http.StatusNotFound, usecase.ErrStockNotFound.Error()},
		{"delete missing", http.MethodDelete, "/stocks/nope", nil, http.StatusNotFound, usecase.ErrStockNotFound.Error()},
		{"list failure hides detail", http.MethodGet, "/stocks", nil, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var res map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.wantError, res["error"])
		})
	}
}

func TestStockHandler_ListAndDelete(t *testing.T) {
	uc := &mockStockUsecase{
		ListFunc: func(context.Context, uint) ([]entity.Stock, error) {
			return []entity.Stock{{ID: "s1", Symbol: "AAPL", Budget: fp(1200)}, {ID: "s2", Symbol: "VOO"}}, nil
		},
		DeleteFunc: func(context.Context, uint, string) error { return nil },
	}
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/stocks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Items []struct {
			Symbol  string `json:"symbol"`
			Display struct {
				Budget string `json:"budget"`
			} `json:"display"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "1200.00", res.Items[0].Display.Budget)
	assert.Equal(t, "N/A", res.Items[1].Display.Budget)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/stocks/s1", nil).Code)
}
