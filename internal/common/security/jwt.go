package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimUserID = "id"
	ClaimRole   = "role"
)

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	Auth *jwtauth.JWTAuth
	exp  time.Duration
	now  func() time.Time
}

func NewTokenManager(secret []byte, exp time.Duration) *TokenManager {
	return &TokenManager{
		Auth: jwtauth.New("HS256", secret, nil),
		exp:  exp,
		now:  time.Now,
	}
}

// GenerateToken returns a signed token for the account and its expiry time.
func (m *TokenManager) GenerateToken(userID, role string) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.exp)
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimRole:   role,
		"exp":       expires.Unix(),
		"iat":       issued.Unix(),
	}
	_, tokenString, err := m.Auth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expires, nil
}

// Helper functions to extract claims, used by the auth middleware.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[ClaimUserID].(string)
	if !ok || id == "" {
		return "", errors.New("id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims[ClaimRole].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
