// Package api defines the JSON envelopes shared by every HTTP handler.
package api

import "portfolio_ledger/internal/ledger"

// ErrorResponse は汎用のエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は本文を持たない成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse は入力検証に失敗したフィールドの一覧を返します。
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []ledger.FieldError `json:"fields"`
}

// ListResponse はページングされた一覧のレスポンスです。
type ListResponse[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty"`
}
