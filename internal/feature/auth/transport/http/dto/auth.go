// Package dto はauthフィーチャーのHTTPリクエスト/レスポンスを定義します。
package dto

import "time"

// SignupReq は/signupのリクエストボディです。
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginReq は/loginのリクエストボディです。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq は/refreshと/logoutのリクエストボディです。
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRes はログインとリフレッシュ成功時のレスポンスです。ExpiresInは秒単位です。
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserRes は/meのレスポンスです。
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
