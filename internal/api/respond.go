package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_ledger/internal/ledger"
	jwtmw "portfolio_ledger/internal/platform/jwt"
)

// Validation は検証エラーを400で返します。
func Validation(c *gin.Context, verrs ledger.ValidationErrors) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: verrs})
}

// BadRequest はバインド失敗などの400を返します。
func BadRequest(c *gin.Context, err error) {
	slog.Warn("bad request", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
}

// Internal は詳細をログに残し、クライアントには汎用メッセージだけを返します。
func Internal(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// StatusFor maps err onto an HTTP status using the given sentinel table.
// ValidationErrors always map to 400; anything unmatched is 500.
func StatusFor(err error, table map[error]int) int {
	var verrs ledger.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	for sentinel, status := range table {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Fail writes the response for a usecase error, using table for sentinel errors.
func Fail(c *gin.Context, msg string, err error, table map[error]int) {
	var verrs ledger.ValidationErrors
	if errors.As(err, &verrs) {
		Validation(c, verrs)
		return
	}
	status := StatusFor(err, table)
	if status == http.StatusInternalServerError {
		Internal(c, msg, err)
		return
	}
	slog.Warn(msg, "error", err, "status", status, "remote_addr", c.ClientIP())
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// Owner returns the authenticated user, writing 401 when the route was not guarded.
func Owner(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return id, ok
}
