package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portfolio_ledger/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockTokenIssuer is a mock implementation of TokenIssuer.
type mockTokenIssuer struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockTokenIssuer) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "mock-jwt-token", nil
}

func (m *mockTokenIssuer) Expiration() time.Duration { return 15 * time.Minute }

// memSessions is an in-memory SessionRepository.
type memSessions struct {
	byID map[string]*entity.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]*entity.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSessions) FindByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) FindByUserID(_ context.Context, userID uint) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, s := range m.byID {
		if s.UserID == userID && s.IsValid() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memSessions) Revoke(_ context.Context, id string) error {
	s, ok := m.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *memSessions) RevokeAllByUserID(ctx context.Context, userID uint) error {
	for id, s := range m.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			_ = m.Revoke(ctx, id)
		}
	}
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, s := range m.byID {
		if s.IsExpired() {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	s, _ := m.FindByUserID(ctx, userID)
	return int64(len(s)), nil
}

func (m *memSessions) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	s, _ := m.FindByUserID(ctx, userID)
	if len(s) > 0 {
		delete(m.byID, s[0].ID)
	}
	return nil
}

var _ SessionRepository = (*memSessions)(nil)

func testUser(t *testing.T) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{ID: 1, Email: "test@example.com", Password: string(hashed)}
}

func usersWith(u *entity.User) *mockUserRepository {
	return &mockUserRepository{
		FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrUserNotFound
		},
		FindByIDFunc: func(_ context.Context, id uint) (*entity.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, ErrUserNotFound
		},
	}
}

var defaultOpts = Options{RefreshTTL: time.Hour, MaxSessions: 3}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Run("hashes password and normalizes email", func(t *testing.T) {
		var stored *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(_ context.Context, user *entity.User) error {
				stored = user
				return nil
			},
		}
		uc := NewAuthUsecase(repo, newMemSessions(), &mockTokenIssuer{}, defaultOpts)

		require.NoError(t, uc.Signup(context.Background(), "  Test@Example.com ", "password123"))

		require.NotNil(t, stored)
		assert.Equal(t, "test@example.com", stored.Email)
		assert.NotEqual(t, "password123", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
	})

	t.Run("short password", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, newMemSessions(), &mockTokenIssuer{}, defaultOpts)
		err := uc.Signup(context.Background(), "a@example.com", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("repository error is propagated", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(context.Context, *entity.User) error { return ErrEmailAlreadyExists },
		}
		uc := NewAuthUsecase(repo, newMemSessions(), &mockTokenIssuer{}, defaultOpts)
		err := uc.Signup(context.Background(), "a@example.com", "password123")
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	user := testUser(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "test@example.com", "password123", nil},
		{"success with mixed case email", "TEST@example.com", "password123", nil},
		{"wrong password", "test@example.com", "wrongpass", ErrInvalidCredentials},
		{"unknown user", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newMemSessions()
			uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, defaultOpts)

			pair, err := uc.Login(context.Background(), tt.email, tt.password, ClientMeta{UserAgent: "ua", IPAddress: "127.0.0.1"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
				assert.Empty(t, sessions.byID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "mock-jwt-token", pair.AccessToken)
			assert.Len(t, pair.RefreshToken, 64)
			assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

			sess, err := sessions.FindByID(context.Background(), pair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, sess.UserID)
			assert.Equal(t, "ua", sess.UserAgent)
		})
	}

	t.Run("repository failure is not masked", func(t *testing.T) {
		dbErr := errors.New("db down")
		repo := &mockUserRepository{
			FindByEmailFunc: func(context.Context, string) (*entity.User, error) { return nil, dbErr },
		}
		uc := NewAuthUsecase(repo, newMemSessions(), &mockTokenIssuer{}, defaultOpts)
		_, err := uc.Login(context.Background(), "test@example.com", "password123", ClientMeta{})
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("token generation failure", func(t *testing.T) {
		tokens := &mockTokenIssuer{
			GenerateTokenFunc: func(uint, string) (string, error) { return "", errors.New("sign failed") },
		}
		uc := NewAuthUsecase(usersWith(user), newMemSessions(), tokens, defaultOpts)
		_, err := uc.Login(context.Background(), "test@example.com", "password123", ClientMeta{})
		assert.ErrorContains(t, err, "failed to generate token")
	})
}

func TestAuthUsecase_Login_EvictsOldestSession(t *testing.T) {
	user := testUser(t)
	sessions := newMemSessions()
	uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, Options{RefreshTTL: time.Hour, MaxSessions: 2})

	var tokens []string
	for i := 0; i < 3; i++ {
		uc.now = func() time.Time { return time.Now().Add(time.Duration(i) * time.Minute) }
		pair, err := uc.Login(context.Background(), user.Email, "password123", ClientMeta{})
		require.NoError(t, err)
		tokens = append(tokens, pair.RefreshToken)
	}

	assert.Len(t, sessions.byID, 2)
	_, err := sessions.FindByID(context.Background(), tokens[0])
	assert.ErrorIs(t, err, ErrSessionNotFound)
	for _, tok := range tokens[1:] {
		_, err := sessions.FindByID(context.Background(), tok)
		assert.NoError(t, err)
	}
}

func TestAuthUsecase_Refresh(t *testing.T) {
	user := testUser(t)
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		sessions := newMemSessions()
		uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, defaultOpts)
		first, err := uc.Login(ctx, user.Email, "password123", ClientMeta{})
		require.NoError(t, err)

		second, err := uc.Refresh(ctx, first.RefreshToken, ClientMeta{})
		require.NoError(t, err)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

		old, err := sessions.FindByID(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.True(t, old.IsRevoked())
	})

	t.Run("reuse of a revoked token revokes every session", func(t *testing.T) {
		sessions := newMemSessions()
		uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, defaultOpts)
		first, err := uc.Login(ctx, user.Email, "password123", ClientMeta{})
		require.NoError(t, err)
		second, err := uc.Refresh(ctx, first.RefreshToken, ClientMeta{})
		require.NoError(t, err)

		_, err = uc.Refresh(ctx, first.RefreshToken, ClientMeta{})
		assert.ErrorIs(t, err, ErrSessionRevoked)

		latest, err := sessions.FindByID(ctx, second.RefreshToken)
		require.NoError(t, err)
		assert.True(t, latest.IsRevoked())
	})

	t.Run("expired session", func(t *testing.T) {
		sessions := newMemSessions()
		token := strings.Repeat("a", 64)
		require.NoError(t, sessions.Create(ctx, &entity.Session{
			ID: token, UserID: user.ID, CreatedAt: time.Now().Add(-2 * time.Hour), ExpiresAt: time.Now().Add(-time.Hour),
		}))
		uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, defaultOpts)

		_, err := uc.Refresh(ctx, token, ClientMeta{})
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("malformed or unknown token", func(t *testing.T) {
		uc := NewAuthUsecase(usersWith(user), newMemSessions(), &mockTokenIssuer{}, defaultOpts)

		_, err := uc.Refresh(ctx, "short", ClientMeta{})
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		_, err = uc.Refresh(ctx, strings.Repeat("b", 64), ClientMeta{})
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthUsecase_LogoutAndMe(t *testing.T) {
	user := testUser(t)
	ctx := context.Background()
	sessions := newMemSessions()
	uc := NewAuthUsecase(usersWith(user), sessions, &mockTokenIssuer{}, defaultOpts)

	pair, err := uc.Login(ctx, user.Email, "password123", ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, pair.RefreshToken))
	_, err = uc.Refresh(ctx, pair.RefreshToken, ClientMeta{})
	assert.ErrorIs(t, err, ErrSessionRevoked)

	assert.NoError(t, uc.Logout(ctx, "unknown"), "unknown tokens are ignored")

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = uc.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthUsecase_CleanupSessions(t *testing.T) {
	ctx := context.Background()
	sessions := newMemSessions()
	require.NoError(t, sessions.Create(ctx, &entity.Session{ID: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, sessions.Create(ctx, &entity.Session{ID: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	uc := NewAuthUsecase(&mockUserRepository{}, sessions, &mockTokenIssuer{}, defaultOpts)
	n, err := uc.CleanupSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, sessions.byID, "live")
}
