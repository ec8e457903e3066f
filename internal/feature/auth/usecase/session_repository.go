package usecase

import (
	"context"

	"portfolio_ledger/internal/feature/auth/domain/entity"
)

// SessionRepository stores refresh-token sessions. Implemented by the gorm
// adapter and by the Redis store in platform/session.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns ErrSessionNotFound when the token is unknown.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// FindByUserID returns the active sessions of a user.
	FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error)

	Revoke(ctx context.Context, id string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error

	// DeleteExpired removes expired sessions and reports how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)

	CountByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteOldestByUserID(ctx context.Context, userID uint) error
}
