package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for expired, malformed or badly signed tokens
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the identity a session token carries
type TokenClaims struct {
	UserID uint
	Role   string
}

// TokenManager mints and parses HS256 session tokens
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenManager creates a token manager with a 24h token lifetime
func NewTokenManager(secretKey string) *TokenManager {
	return &TokenManager{secretKey: []byte(secretKey), ttl: 24 * time.Hour}
}

// GenerateToken issues a signed token for the given user id and role
func (tm *TokenManager) GenerateToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(tm.ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ParseToken validates a token string and extracts its claims
func (tm *TokenManager) ParseToken(tokenStr string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{UserID: uint(idFloat), Role: role}, nil
}
