// Package usecase implements recording and listing ledger transactions.
package usecase

import "errors"

var (
	// ErrTransactionNotFound is returned when the transaction does not exist or belongs to another owner.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidPageToken is returned when page_token cannot be decoded.
	ErrInvalidPageToken = errors.New("invalid page token")
)
