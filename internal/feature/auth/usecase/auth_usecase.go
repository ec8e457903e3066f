package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio_ledger/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// refreshTokenBytes はリフレッシュトークンのバイト長です（hexで64文字）。
	refreshTokenBytes = 32
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。重複時はErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は存在しない場合ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenIssuer はアクセストークンを発行します。platform/jwtのGeneratorが実装します。
type TokenIssuer interface {
	GenerateToken(userID uint, email string) (string, error)
	Expiration() time.Duration
}

// Options はセッション管理の設定です。
type Options struct {
	RefreshTTL  time.Duration
	MaxSessions int // 0以下なら無制限
}

// ClientMeta はセッションに記録するクライアント情報です。
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// TokenPair はログインとリフレッシュで返すトークンの組です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenIssuer
	opts     Options
	now      func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenIssuer, opts Options) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		opts:     opts,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Signup(ctx context.Context, email, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: normalizeEmail(email), Password: string(hashed)}
	return u.users.Create(ctx, user)
}

// Login はユーザーを認証し、アクセストークンとリフレッシュトークンを返します。
// ユーザーが存在しない場合でもbcrypt比較を実行し、応答時間を揃えます。
func (u *authUsecase) Login(ctx context.Context, email, password string, meta ClientMeta) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// タイミング攻撃緩和用ダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(ctx, user, meta)
}

// Refresh はリフレッシュトークンをローテーションし、新しいトークンの組を返します。
// 使用済みのセッションは失効させます。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*TokenPair, error) {
	if len(refreshToken) != refreshTokenBytes*2 {
		return nil, ErrInvalidRefreshToken
	}

	sess, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if sess.IsRevoked() {
		// 失効済みトークンの再利用は漏洩の兆候なので全セッションを失効させる
		slog.Warn("revoked refresh token reused", "user_id", sess.UserID)
		if err := u.sessions.RevokeAllByUserID(ctx, sess.UserID); err != nil {
			return nil, err
		}
		return nil, ErrSessionRevoked
	}
	if sess.IsExpired() {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Revoke(ctx, sess.ID); err != nil {
		return nil, err
	}
	return u.issue(ctx, user, meta)
}

// Logout はリフレッシュトークンのセッションを失効させます。未知のトークンは無視します。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Me は認証済みユーザーを返します。
func (u *authUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// CleanupSessions は期限切れセッションを削除します。スケジューラーから定期実行されます。
func (u *authUsecase) CleanupSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}

// issue はアクセストークンを署名し、新しいセッションを作成します。
// MaxSessionsに達している場合は最も古いセッションから削除します。
func (u *authUsecase) issue(ctx context.Context, user *entity.User, meta ClientMeta) (*TokenPair, error) {
	access, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if u.opts.MaxSessions > 0 {
		count, err := u.sessions.CountByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for ; count >= int64(u.opts.MaxSessions); count-- {
			if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
				return nil, err
			}
		}
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	now := u.now()
	sess := &entity.Session{
		ID:        refresh,
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.RefreshTTL),
	}
	if err := u.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    u.tokens.Expiration(),
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
