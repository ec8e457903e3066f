package usecase

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when a list request sets no limit.
	DefaultPageSize = 100
	// MaxPageSize is the largest limit a list request may ask for.
	MaxPageSize = 500

	tokenPrefix = "o:"
)

// encodePageToken turns an offset into an opaque token.
func encodePageToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.Itoa(offset)))
}

// decodePageToken returns the offset a token points to. The empty token is offset 0.
func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidPageToken
	}
	s, ok := strings.CutPrefix(string(raw), tokenPrefix)
	if !ok {
		return 0, ErrInvalidPageToken
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}
	return offset, nil
}
