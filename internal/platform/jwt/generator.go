package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// アクセストークンのクレーム名。AuthRequiredはClaimSubjectだけを読みます。
const (
	// ClaimSubject はユーザーIDです。JSONでは数値なので検証側ではfloat64になります。
	ClaimSubject = "sub"
	// ClaimEmail はログイン時点のメールアドレスで、表示用途のみです。
	ClaimEmail = "email"
)

// Generator issues HS256 access tokens carrying the user id (sub), the
// login email (email), iat and exp. Tokens are short-lived; long sessions
// ride on refresh tokens kept in the session store.
type Generator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGenerator は署名鍵とアクセストークンの有効期間からGeneratorを生成します。
func NewGenerator(secret string, ttl time.Duration) *Generator {
	return &Generator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Expiration returns how long issued tokens stay valid. It is reported to
// clients as expires_in.
func (g *Generator) Expiration() time.Duration {
	return g.ttl
}

// GenerateToken signs an access token for userID.
func (g *Generator) GenerateToken(userID uint, email string) (string, error) {
	issued := g.now()
	claims := jwt.MapClaims{
		ClaimSubject: userID,
		ClaimEmail:   email,
		"iat":        issued.Unix(),
		"exp":        issued.Add(g.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token for user %d: %w", userID, err)
	}
	return signed, nil
}
