// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User is an account that owns stocks, transactions and goals.
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt hash, never plaintext
	CreatedAt time.Time
	UpdatedAt time.Time
}
