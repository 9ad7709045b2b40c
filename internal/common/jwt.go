package common

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"famshare/internal/config"
)

// Claims represents the data stored in a JWT token
type Claims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates the access/refresh token pair. Access and
// refresh use separate secrets so a leaked access secret cannot mint refreshes.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.Auth.AccessSecret),
		refreshSecret: []byte(cfg.Auth.RefreshSecret),
		accessTTL:     time.Duration(cfg.Auth.AccessTTLMins) * time.Minute,
		refreshTTL:    time.Duration(cfg.Auth.RefreshTTLDays) * 24 * time.Hour,
	}
}

func (tm *TokenManager) GenerateAccessToken(userID uint64, email, role string) (string, error) {
	return tm.generate(userID, email, role, tm.accessTTL, tm.accessSecret)
}

func (tm *TokenManager) GenerateRefreshToken(userID uint64, email, role string) (string, error) {
	return tm.generate(userID, email, role, tm.refreshTTL, tm.refreshSecret)
}

func (tm *TokenManager) generate(userID uint64, email, role string, ttl time.Duration, secret []byte) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "famshare",
			Subject:   "user-auth",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

func (tm *TokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, tm.accessSecret)
}

func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, tm.refreshSecret)
}

func parseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
