package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims binds a single user ID to the token alongside the registered claims.
type Claims struct {
	UserID uint64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens. The signing secret
// is injected once at construction and never changes at runtime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token carrying the user ID, expiring after the configured TTL.
func (s *TokenService) Issue(userID uint64) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token and returns the user ID it carries.
func (s *TokenService) Verify(tokenStr string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}

	return claims.UserID, nil
}
