package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_ledger/internal/feature/auth/domain/entity"
	"portfolio_ledger/internal/feature/auth/usecase"
	jwtmw "portfolio_ledger/internal/platform/jwt"
)

// mockAuthUsecase is a mock implementation of AuthUsecase.
type mockAuthUsecase struct {
	SignupFunc  func(ctx context.Context, email, password string) error
	LoginFunc   func(ctx context.Context, email, password string, meta usecase.ClientMeta) (*usecase.TokenPair, error)
	RefreshFunc func(ctx context.Context, token string, meta usecase.ClientMeta) (*usecase.TokenPair, error)
	LogoutFunc  func(ctx context.Context, token string) error
	MeFunc      func(ctx context.Context, userID uint) (*entity.User, error)
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, password string) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password)
	}
	return nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string, meta usecase.ClientMeta) (*usecase.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, meta)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, token string, meta usecase.ClientMeta) (*usecase.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, token, meta)
	}
	return nil, usecase.ErrInvalidRefreshToken
}

func (m *mockAuthUsecase) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return nil, usecase.ErrUserNotFound
}

var pair = &usecase.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 15 * time.Minute}

func postJSON(t *testing.T, h gin.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", h)

	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		signupErr      error
		expectedStatus int
		expectedBody   string
	}{
		{"success", gin.H{"email": "test@example.com", "password": "password123"}, nil, http.StatusCreated, `{"message":"ok"}`},
		{"invalid email", gin.H{"email": "invalid-email", "password": "password123"}, nil, http.StatusBadRequest, `{"error":"invalid request"}`},
		{"short password", gin.H{"email": "test@example.com", "password": "short"}, nil, http.StatusBadRequest, `{"error":"invalid request"}`},
		{"duplicate email", gin.H{"email": "dup@example.com", "password": "password123"}, usecase.ErrEmailAlreadyExists, http.StatusConflict, `{"error":"signup failed"}`},
		{"storage failure", gin.H{"email": "test@example.com", "password": "password123"}, errors.New("db down"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{
				SignupFunc: func(context.Context, string, string) error { return tt.signupErr },
			})

			w := postJSON(t, h.Signup, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		loginFunc      func(ctx context.Context, email, password string, meta usecase.ClientMeta) (*usecase.TokenPair, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			requestBody:    gin.H{"email": "test@example.com", "password": "password123"},
			loginFunc:      func(context.Context, string, string, usecase.ClientMeta) (*usecase.TokenPair, error) { return pair, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":900}`,
		},
		{
			name:           "missing password",
			requestBody:    gin.H{"email": "test@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "invalid credentials",
			requestBody:    gin.H{"email": "wrong@example.com", "password": "wrong-password"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid email or password"}`,
		},
		{
			name:        "unexpected failure is hidden",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			loginFunc: func(context.Context, string, string, usecase.ClientMeta) (*usecase.TokenPair, error) {
				return nil, errors.New("failed to generate token")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc})

			w := postJSON(t, h.Login, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	for _, rejected := range []error{usecase.ErrInvalidRefreshToken, usecase.ErrSessionExpired, usecase.ErrSessionRevoked} {
		t.Run(rejected.Error(), func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{
				RefreshFunc: func(context.Context, string, usecase.ClientMeta) (*usecase.TokenPair, error) { return nil, rejected },
			})
			w := postJSON(t, h.Refresh, gin.H{"refresh_token": "tok"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("success", func(t *testing.T) {
		var gotToken string
		h := NewAuthHandler(&mockAuthUsecase{
			RefreshFunc: func(_ context.Context, token string, _ usecase.ClientMeta) (*usecase.TokenPair, error) {
				gotToken = token
				return pair, nil
			},
		})
		w := postJSON(t, h.Refresh, gin.H{"refresh_token": "tok"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", gotToken)
	})

	t.Run("missing token", func(t *testing.T) {
		w := postJSON(t, NewAuthHandler(&mockAuthUsecase{}).Refresh, gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	h := NewAuthHandler(&mockAuthUsecase{
		LogoutFunc: func(context.Context, string) error {
			called = true
			return nil
		},
	})

	w := postJSON(t, h.Logout, gin.H{"refresh_token": "tok"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, called)
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	h := NewAuthHandler(&mockAuthUsecase{
		MeFunc: func(_ context.Context, id uint) (*entity.User, error) {
			if id == 7 {
				return &entity.User{ID: 7, Email: "me@example.com", CreatedAt: created}, nil
			}
			return nil, usecase.ErrUserNotFound
		},
	})

	tests := []struct {
		name       string
		userID     any
		wantStatus int
	}{
		{"authenticated", uint(7), http.StatusOK},
		{"deleted user", uint(8), http.StatusNotFound},
		{"no user in context", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.userID != nil {
				c.Set(jwtmw.ContextUserID, tt.userID)
			}

			h.Me(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"email":"me@example.com","created_at":"2024-03-01T00:00:00Z"}`, w.Body.String())
			}
		})
	}
}
