package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of issued tokens and the session freshness
// window; both sides share one backing clock.
const TokenTTL = 24 * time.Hour

// Claims is the identity assertion carried inside a token.
type Claims struct {
	AuthID   int    `json:"auth_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies identity tokens with a shared secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. A missing secret is a deployment
// error, not a request-time condition, so it fails construction.
func NewTokenService(secret string) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
	}, nil
}

// Generate signs a token asserting the given identity.
func (s *TokenService) Generate(authID int, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		AuthID:   authID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the claims, or nil for any failure: expired, malformed,
// wrong signature, or missing identity fields. It never returns an error so
// call sites reduce to a nil check.
func (s *TokenService) Verify(tokenString string) *Claims {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if claims.AuthID == 0 || strings.TrimSpace(claims.Username) == "" || strings.TrimSpace(claims.Role) == "" {
		return nil
	}
	return claims
}
